package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a buyer remark attached to a product listing. The product
// detail view subscribes to the most recent one.
type Comment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ProductID  string    `json:"productId" bson:"productId"`
	AuthorID   string    `json:"authorId" bson:"authorId"`
	AuthorName string    `json:"authorName" bson:"authorName"`
	Text       string    `json:"text" bson:"text"`
	Rating     int       `json:"rating" bson:"rating"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}

// NewComment builds a comment for a product. Rating 0 means the author left
// text only.
func NewComment(productID, authorID, authorName, text string, rating int) *Comment {
	return &Comment{
		ID:         uuid.NewString(),
		ProductID:  productID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		Rating:     rating,
		CreatedAt:  time.Now(),
	}
}

// IsRated checks whether the comment carries a star rating
func (c *Comment) IsRated() bool {
	return c.Rating >= 1 && c.Rating <= 5
}

type CreateCommentRequest struct {
	Text   string `json:"text" binding:"required,min=1,max=2000"`
	Rating int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
}
