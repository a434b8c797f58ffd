package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/saludboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	TouchLastLogin(userID uint, at time.Time) error
}

type AuthService struct {
	users AuthUserRepository
	cost  int
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

func (service *AuthService) Register(emailRaw string, password string, confirmPassword string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrAuthEmailInvalid
	}
	password = strings.TrimSpace(password)
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	if password != strings.TrimSpace(confirmPassword) {
		return models.User{}, ErrPasswordMismatch
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	now := time.Now().UTC()
	if err := service.users.TouchLastLogin(user.ID, now); err != nil {
		return models.User{}, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// PortalPath is where a signed-in user lands.
func PortalPath(user models.User) string {
	switch {
	case !user.OnboardingCompleted:
		return "/onboarding"
	case user.UserType == models.UserTypePatient:
		return "/patient"
	default:
		return "/dashboard"
	}
}
