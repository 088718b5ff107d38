package auth

import (
	"context"

	"mavina/internal/domain"
)

// UserRepositoryInterface lists the user storage calls auth needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	CreateProvider(ctx context.Context, u *domain.User, p *domain.Provider) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ProviderLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
