package auth

import (
	"context"
	"errors"
	"strings"

	"mavina/internal/domain"
	"mavina/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for authentication
type Service struct {
	users     UserRepositoryInterface
	providers ProviderLookup
	jwt       jwtService
	log       *zap.Logger
}

func NewService(users UserRepositoryInterface, providers ProviderLookup, jwt jwtService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:     users,
		providers: providers,
		jwt:       jwt,
		log:       log.Named("auth"),
	}
}

// Register creates a customer, or a provider together with its business profile.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}

	var provider *domain.Provider
	if role == domain.RoleProvider {
		name := strings.TrimSpace(req.BusinessName)
		if name == "" {
			return nil, ErrBusinessNameNeeded
		}
		provider = &domain.Provider{
			BusinessName: name,
			Phone:        user.Phone,
			City:         strings.TrimSpace(req.City),
		}
		err = s.users.CreateProvider(ctx, user, provider)
	} else {
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	user.PasswordHash = ""
	return &AuthResult{User: user, Provider: provider, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	out := &MeResponse{User: user}
	if user.Role == domain.RoleProvider && s.providers != nil {
		p, err := s.providers.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out.Provider = p
	}
	return out, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
