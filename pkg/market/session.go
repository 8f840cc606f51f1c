package market

// Session identifies the acting user for a core operation. Every mutating
// operation takes one explicitly; there is no ambient current-user state.
type Session struct {
	UID  string
	Name string
}

// Valid reports whether the session carries an authenticated user id.
func (s Session) Valid() bool {
	return s.UID != ""
}
