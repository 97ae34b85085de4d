package auth

import (
	"context"
	"testing"
	"time"

	"ticketly/internal/shared/apperrors"
	"ticketly/internal/shared/config"
	"ticketly/internal/users"
	"ticketly/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	createUserFn     func(ctx context.Context, user *users.User) error
	getUserByEmailFn func(ctx context.Context, email string) (*users.User, error)
	getUserByIDFn    func(ctx context.Context, id uuid.UUID) (*users.User, error)
	emailExistsFn    func(ctx context.Context, email string) (bool, error)
}

func (m *mockRepository) CreateUser(ctx context.Context, user *users.User) error {
	return m.createUserFn(ctx, user)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return m.getUserByEmailFn(ctx, email)
}

func (m *mockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return m.getUserByIDFn(ctx, id)
}

func (m *mockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExistsFn(ctx, email)
}

var testJWTConfig = config.JWTConfig{
	Secret:       "test-secret",
	JWTExpiresIn: 15 * time.Minute,
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTConfig.Secret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password and USER role", func(t *testing.T) {
		var created *users.User
		repo := &mockRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) { return false, nil },
			createUserFn: func(ctx context.Context, user *users.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := NewService(repo, testJWTConfig, logger.New())

		resp, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "Ada@Example.COM",
			Password:  "super-secret-pw",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "ada@example.com", created.Email)
		assert.Equal(t, users.RoleUser, created.Role)
		assert.NotEqual(t, "super-secret-pw", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("super-secret-pw")))

		claims := parseClaims(t, resp.Tokens.AccessToken)
		assert.Equal(t, "access", claims["type"])
		assert.Equal(t, created.ID.String(), claims["user_id"])
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		repo := &mockRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
		}
		svc := NewService(repo, testJWTConfig, logger.New())

		_, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Password: "super-secret-pw",
		})

		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &users.User{
		ID:       uuid.New(),
		Email:    "ada@example.com",
		Password: string(hashed),
		Role:     users.RoleUser,
	}

	repo := &mockRepository{
		getUserByEmailFn: func(ctx context.Context, email string) (*users.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, apperrors.NotFound("user not found")
		},
	}
	svc := NewService(repo, testJWTConfig, logger.New())

	t.Run("valid credentials return a token pair", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), resp.User.ID)

		access := parseClaims(t, resp.Tokens.AccessToken)
		assert.Equal(t, "access", access["type"])
		refresh := parseClaims(t, resp.Tokens.RefreshToken)
		assert.Equal(t, "refresh", refresh["type"])
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, err1 := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
		_, err2 := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})

		assert.True(t, apperrors.IsValidation(err1))
		assert.True(t, apperrors.IsValidation(err2))
		assert.Equal(t, err1.Error(), err2.Error())
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	user := &users.User{ID: uuid.New(), Email: "ada@example.com", Role: users.RoleUser}

	repo := &mockRepository{
		getUserByIDFn: func(ctx context.Context, id uuid.UUID) (*users.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, apperrors.NotFound("user not found")
		},
		getUserByEmailFn: func(ctx context.Context, email string) (*users.User, error) {
			return user, nil
		},
		emailExistsFn: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createUserFn: func(ctx context.Context, u *users.User) error {
			u.ID = user.ID
			return nil
		},
	}
	svc := NewService(repo, testJWTConfig, logger.New())

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		reg, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Password: "super-secret-pw",
		})
		require.NoError(t, err)

		pair, err := svc.Refresh(ctx, reg.Tokens.RefreshToken)

		require.NoError(t, err)
		claims := parseClaims(t, pair.AccessToken)
		assert.Equal(t, "access", claims["type"])
	})

	t.Run("access token is rejected as a refresh token", func(t *testing.T) {
		reg, err := svc.Register(ctx, RegisterRequest{
			FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Password: "super-secret-pw",
		})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, reg.Tokens.AccessToken)

		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-token")
		assert.True(t, apperrors.IsValidation(err))
	})
}
