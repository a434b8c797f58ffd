package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/saludboard/internal/db"
	"github.com/terraincognita07/saludboard/internal/models"
	"github.com/terraincognita07/saludboard/internal/security"
	"github.com/terraincognita07/saludboard/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	temporaryPasswordLength   = 12
	temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	maxGenerateAttempts       = 32
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found")
)

// PasswordSource returns the password to store, or "" to have one generated.
type PasswordSource func() (string, error)

// RunResetPasswordCommand replaces the password of the account behind email.
// When source yields nothing a temporary password is generated and printed.
func RunResetPasswordCommand(database *gorm.DB, email string, source PasswordSource, out io.Writer) error {
	users := db.NewUserRepository(database)
	user, err := lookupUser(users, email)
	if err != nil {
		return err
	}

	password := ""
	if source != nil {
		password, err = source()
		if err != nil {
			return err
		}
	}

	generated := password == ""
	if generated {
		password, err = generateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, string(hash)); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Email)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// RunResetOnboardingCommand sends a user back to the welcome step. Stored
// profiles are removed; organizations and memberships stay.
func RunResetOnboardingCommand(database *gorm.DB, email string, out io.Writer) error {
	users := db.NewUserRepository(database)
	user, err := lookupUser(users, email)
	if err != nil {
		return err
	}
	if err := users.ResetOnboarding(user.ID); err != nil {
		return fmt.Errorf("reset onboarding: %w", err)
	}
	fmt.Fprintf(out, "Onboarding reset for %s\n", user.Email)
	return nil
}

func lookupUser(users *db.UserRepository, email string) (models.User, error) {
	normalized := services.NormalizeAuthEmail(email)
	if normalized == "" {
		return models.User{}, ErrEmailRequired
	}
	user, err := users.FindByNormalizedEmail(normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, normalized)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// generateTemporaryPassword draws until the result passes the sign-up
// strength rules.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
	return "", errors.New("could not generate a strong password")
}
