package market

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/threadline/marketplace-api/pkg/models"
)

// Register creates a marketplace account. The password is bcrypt-hashed
// before it reaches the store; a duplicate email surfaces as ErrEmailExists.
func (s *Service) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Address:      req.Address,
		IsSeller:     req.IsSeller,
	}
	user.SetTimestamps()

	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Account fetches the session's own profile.
func (s *Service) Account(ctx context.Context, sess Session) (*models.User, error) {
	return s.store.GetUser(ctx, sess.UID)
}
