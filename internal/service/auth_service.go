package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
)

type userStore interface {
	Create(u *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}

// AuthService handles registration, login, and profile reads.
type AuthService struct {
	users userStore
}

// NewAuthService creates an AuthService.
func NewAuthService(users userStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account and returns it with a session token.
func (s *AuthService) Register(email, password, name string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		Name:          name,
		Role:          models.RoleUser,
		WalletBalance: decimal.Zero,
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		return nil, "", utils.ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ErrInvalidToken
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the account for an authenticated user id.
func (s *AuthService) Profile(userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrInvalidToken
	}
	return user, nil
}
