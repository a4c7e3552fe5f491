package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/validate"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
}

// Claims is the JWT payload: the caller's id, email and role.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users  UserStore
	Secret []byte
	TTL    time.Duration
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{Users: users, Secret: []byte(secret), TTL: ttl}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Signup creates a customer account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, *domain.User, error) {
	in.Email = validate.Email(in.Email)
	if err := validate.Struct(in); err != nil {
		return "", nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: in.Email,
		Name:  in.Name,
		Hash:  string(hash),
		Role:  domain.RoleCustomer,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return "", nil, fmt.Errorf("%w: email already registered", repos.ErrDuplicate)
		}
		return "", nil, err
	}
	tok, err := s.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(ctx, validate.Email(email))
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return "", nil, ErrBadCreds
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	tok, err := s.Issue(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// Issue signs an HS256 token for u.
func (s *AuthService) Issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Authenticate verifies a token and checks that its user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	u, err := s.Users.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return domain.Identity{}, err
	}
	return domain.Identity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}
