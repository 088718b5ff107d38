package auth

import (
	"context"
	"testing"

	"mavina/internal/domain"
	"mavina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) CreateProvider(ctx context.Context, u *domain.User, p *domain.Provider) error {
	args := m.Called(ctx, u, p)
	if args.Error(0) == nil {
		u.ID = 2
		p.ID = 10
		p.UserID = u.ID
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockProviders struct {
	mock.Mock
}

func (m *mockProviders) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

// Mock JWT Service
type mockJWT struct {
	mock.Mock
}

func (m *mockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func TestRegister_Customer(t *testing.T) {
	users := new(mockUserRepo)
	jwt := new(mockJWT)
	svc := NewService(users, nil, jwt, nil)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ayse@example.com" && u.Role == domain.RoleCustomer
	})).Return(nil)
	jwt.On("GenerateToken", int64(1), "customer").Return("tok", nil)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Ayşe", Email: " Ayse@Example.com", Password: "secret1", Role: "customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Empty(t, res.User.PasswordHash)
	assert.Nil(t, res.Provider)
}

func TestRegister_ProviderCreatesProfile(t *testing.T) {
	users := new(mockUserRepo)
	jwt := new(mockJWT)
	svc := NewService(users, nil, jwt, nil)

	users.On("CreateProvider", mock.Anything, mock.Anything, mock.MatchedBy(func(p *domain.Provider) bool {
		return p.BusinessName == "Işıl Oto" && p.City == "Bursa"
	})).Return(nil)
	jwt.On("GenerateToken", int64(2), "provider").Return("tok", nil)

	res, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Işıl", Email: "isil@example.com", Password: "secret1", Role: "Provider",
		BusinessName: " Işıl Oto ", City: "Bursa",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Provider)
	assert.Equal(t, int64(2), res.Provider.UserID)
}

func TestRegister_Errors(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, nil, new(mockJWT), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.co", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.co", Password: "secret1", Role: "provider"})
	assert.ErrorIs(t, err, ErrBusinessNameNeeded)

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.co", Password: "secret1", Role: "customer"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	users := new(mockUserRepo)
	jwt := new(mockJWT)
	svc := NewService(users, nil, jwt, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "emre@example.com").
		Return(&domain.User{ID: 5, Email: "emre@example.com", PasswordHash: string(hash), Role: domain.RoleCustomer}, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
	jwt.On("GenerateToken", int64(5), "customer").Return("tok", nil)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "Emre@example.com", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "emre@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetCurrentUser_ProviderProfile(t *testing.T) {
	users := new(mockUserRepo)
	providers := new(mockProviders)
	svc := NewService(users, providers, new(mockJWT), nil)

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2, Role: domain.RoleProvider, PasswordHash: "h"}, nil)
	providers.On("GetByUserID", mock.Anything, int64(2)).Return(&domain.Provider{ID: 10, UserID: 2}, nil)

	me, err := svc.GetCurrentUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, me.User.PasswordHash)
	require.NotNil(t, me.Provider)
	assert.Equal(t, int64(10), me.Provider.ID)
}
