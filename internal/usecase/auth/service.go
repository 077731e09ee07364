package auth

import (
	"context"
	"strings"

	domuser "example.com/shop-backend/internal/domain/user"
)

type PasswordService interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type Claims struct {
	UserID  int64
	Email   string
	Name    string
	IsAdmin bool
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

type Service struct {
	userRepo  domuser.Repository
	passwords PasswordService
	tokens    TokenService
}

func NewService(userRepo domuser.Repository, passwords PasswordService, tokens TokenService) *Service {
	return &Service{
		userRepo:  userRepo,
		passwords: passwords,
		tokens:    tokens,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domuser.User
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrUnauthorized
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domuser.ErrUnauthorized
	}

	if err := s.passwords.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: u}, nil
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a non-admin user with a hashed password.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domuser.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domuser.ErrNameRequired
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !strings.Contains(email, "@") {
		return nil, domuser.ErrInvalidEmail
	}
	if len(in.Password) < 6 {
		return nil, domuser.ErrPasswordTooShort
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, &domuser.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      false,
	})
}
