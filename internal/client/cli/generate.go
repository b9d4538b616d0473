package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/altronvault/altron/internal/client/services"
)

const defaultGeneratedLength = 16

// Generate builds a random password from interactively chosen character
// classes and prints it together with its strength rating. It works in any
// vault state; the result is not stored.
func (a *App) Generate(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Length (default %d)", defaultGeneratedLength), os.Stdout)
	if err != nil {
		return err
	}
	length := defaultGeneratedLength
	if answer != "" {
		length, err = strconv.Atoi(answer)
		if err != nil {
			fmt.Println("Length must be a number.")
			return nil
		}
	}

	classes := services.CharClasses{}
	for _, q := range []struct {
		prompt string
		flag   *bool
	}{
		{"Include uppercase letters?", &classes.Upper},
		{"Include lowercase letters?", &classes.Lower},
		{"Include digits?", &classes.Digits},
		{"Include symbols?", &classes.Symbols},
	} {
		yes, err := getConfirm(a.reader, q.prompt, os.Stdout)
		if err != nil {
			return err
		}
		*q.flag = yes
	}

	password, err := services.GeneratePassword(length, classes)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("Generated: %s\n", password)
	fmt.Printf("Strength:  %s\n", services.PasswordStrength(password))
	return nil
}
