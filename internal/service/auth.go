package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/repository"
	"github.com/atinyakov/WikiSmart/pkg/validator"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// CreateUser stores a new account. A taken username yields repository.ErrDuplicate.
	CreateUser(ctx context.Context, username, email, hashedPassword string, role models.Role) (models.User, error)
	// GetByUsername returns the account and its password hash, or repository.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (models.User, string, error)
	// GetByID returns the account, or repository.ErrNotFound.
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// AuthService registers users, checks passwords and issues HS256 access tokens.
type AuthService struct {
	repo   UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService constructs a new AuthService. Tokens are signed with secret
// and expire after ttl.
func NewAuthService(repo UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Register validates in and creates a USER account.
func (s *AuthService) Register(ctx context.Context, in models.UserCreate) (models.User, error) {
	return s.create(ctx, in, models.RoleUser)
}

func (s *AuthService) create(ctx context.Context, in models.UserCreate, role models.Role) (models.User, error) {
	if err := validator.ValidateStruct(in); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.repo.CreateUser(ctx, in.Username, in.Email, string(hash), role)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, ErrUserExists
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Login checks the password and returns the profile with a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.AuthenticatedUser, error) {
	u, hash, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return models.AuthenticatedUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthenticatedUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.AuthenticatedUser{}, ErrInvalidCredentials
	}

	token, err := s.issue(u)
	if err != nil {
		return models.AuthenticatedUser{}, err
	}
	return models.AuthenticatedUser{
		User:  u,
		Token: models.Token{AccessToken: token, TokenType: "bearer"},
	}, nil
}

func (s *AuthService) issue(u models.User) (string, error) {
	now := s.now()
	c := claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token to the current account. The role is
// read from the database, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidToken
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// EnsureAdmin creates an ADMIN account unless the username is taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, in models.UserCreate) (bool, error) {
	_, err := s.create(ctx, in, models.RoleAdmin)
	if errors.Is(err, ErrUserExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
