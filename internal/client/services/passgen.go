package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/altronvault/altron/internal/common"
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// CharClasses selects which character sets a generated password draws from.
type CharClasses struct {
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// GeneratePassword draws length characters uniformly from the selected
// classes using crypto/rand. At least one class must be selected.
func GeneratePassword(length int, classes CharClasses) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive: %w", common.ErrorValidation)
	}

	var charset string
	if classes.Upper {
		charset += upperChars
	}
	if classes.Lower {
		charset += lowerChars
	}
	if classes.Digits {
		charset += digitChars
	}
	if classes.Symbols {
		charset += symbolChars
	}
	if charset == "" {
		return "", fmt.Errorf("select at least one character type: %w", common.ErrorValidation)
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

// Strength is the coarse rating shown next to a generated password.
type Strength string

const (
	StrengthWeak   Strength = "Weak"
	StrengthMedium Strength = "Medium"
	StrengthStrong Strength = "Strong"
)

// PasswordStrength rates a password with zxcvbn's estimator.
func PasswordStrength(password string) Strength {
	score := zxcvbn.PasswordStrength(password, nil).Score
	switch {
	case score <= 1:
		return StrengthWeak
	case score <= 2:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}
