package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/altronvault/altron/internal/common"
)

// getSimpleText, getPassword and getConfirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirm = GetConfirm

// Create walks the user through setting up a new vault: owner name, vault
// folder, and master key with confirmation. On success the vault is left
// unlocked.
func (a *App) Create(ctx context.Context) error {
	ownerLabel, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}

	binding, err := a.provider.Pick(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorAborted) {
			fmt.Println("Canceled.")
			return nil
		}
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	secret, err := getPassword("Enter master key", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	confirm, err := getPassword("Confirm master key", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	sess, err := a.vault.Create(ctx, ownerLabel, string(secret), string(confirm), binding)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorVaultExists):
			fmt.Println("This folder already contains a vault. Unlock it instead.")
		case errors.Is(err, common.ErrorValidation):
			fmt.Printf("Error: %s\n", err.Error())
		default:
			fmt.Printf("Error: %s\n", err.Error())
		}
		return err
	}

	fmt.Printf("Vault created. Welcome, %s!\n", sess.OwnerLabel)
	return nil
}

// Unlock asks for the vault folder and master key and opens the vault.
func (a *App) Unlock(ctx context.Context) error {
	binding, err := a.provider.Pick(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorAborted) {
			fmt.Println("Canceled.")
			return nil
		}
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	secret, err := getPassword("Enter master key", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	sess, err := a.vault.Unlock(ctx, string(secret), binding)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNoVault):
			fmt.Println("No vault found in this folder. Use 'create' to set one up.")
		case errors.Is(err, common.ErrorAuthentication):
			fmt.Println("Incorrect master key.")
		case errors.Is(err, common.ErrorDecryption):
			fmt.Println("The credential store could not be decrypted. It may be corrupted.")
		default:
			fmt.Printf("Error: %s\n", err.Error())
		}
		return err
	}

	fmt.Printf("Vault unlocked. Welcome back, %s!\n", sess.OwnerLabel)
	return nil
}

// Lock closes the vault and drops the persisted session.
func (a *App) Lock(ctx context.Context) error {
	if err := a.vault.Lock(ctx); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}
	fmt.Println("Vault locked.")
	return nil
}
