package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/altronvault/altron/internal/client/repositories/records"
	"github.com/altronvault/altron/internal/common"
)

func (a *App) records() (*records.Repository, bool) {
	repo := a.vault.Records()
	if repo == nil {
		fmt.Println("Unlock the vault first.")
		return nil, false
	}
	return repo, true
}

// Add prompts for a label and a secret value and stores a new credential.
func (a *App) Add(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	label, err := getSimpleText(a.reader, "Enter label", os.Stdout)
	if err != nil {
		return err
	}

	secret, err := getPassword("Enter secret value", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	rec, err := repo.Add(ctx, label, string(secret))
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("Saved '%s' (%s)\n", rec.Label, rec.ID)
	return nil
}

// List prints every stored credential's id and label, never the secrets.
func (a *App) List(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	recs := repo.List()
	if len(recs) == 0 {
		fmt.Println("The vault is empty.")
		return nil
	}
	for _, rec := range recs {
		fmt.Printf("%s  %s\n", rec.ID, rec.Label)
	}
	return nil
}

// Search prompts for a term and prints the credentials whose label contains
// it, ignoring case.
func (a *App) Search(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	term, err := getSimpleText(a.reader, "Enter search term", os.Stdout)
	if err != nil {
		return err
	}

	recs := repo.Search(term)
	if len(recs) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, rec := range recs {
		fmt.Printf("%s  %s\n", rec.ID, rec.Label)
	}
	return nil
}

// Show reveals a single credential's secret value.
func (a *App) Show(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter record id to show", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := repo.Get(id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Println("No record with that id.")
			return nil
		}
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("Label:  %s\n", rec.Label)
	fmt.Printf("Secret: %s\n", rec.SecretValue)
	fmt.Printf("Added:  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Delete removes a single credential after an explicit confirmation.
func (a *App) Delete(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := repo.Get(id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Println("No record with that id.")
			return nil
		}
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	confirmed, err := getConfirm(a.reader, fmt.Sprintf("Delete '%s'?", rec.Label), os.Stdout)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Canceled.")
		return nil
	}

	removed, err := repo.Remove(ctx, id)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}
	if removed {
		fmt.Println("Deleted.")
	}
	return nil
}

// Clear removes every credential after an explicit confirmation.
func (a *App) Clear(ctx context.Context) error {
	repo, ok := a.records()
	if !ok {
		return nil
	}

	confirmed, err := getConfirm(a.reader, "Delete ALL stored credentials?", os.Stdout)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Canceled.")
		return nil
	}

	n, err := repo.RemoveAll(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}
	fmt.Printf("Deleted %d record(s).\n", n)
	return nil
}
