package cli

import (
	"context"
	"fmt"
	"os"
)

const themeSlot = "theme"

// Theme shows the current color theme and optionally switches it. The
// preference is stored in the local state database and survives restarts.
func (a *App) Theme(ctx context.Context) error {
	current, err := a.state.Get(ctx, themeSlot)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}
	if current == nil {
		current = []byte("light")
	}
	fmt.Printf("Current theme: %s\n", current)

	answer, err := getSimpleText(a.reader, "Switch to (light/dark, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	switch answer {
	case "":
		return nil
	case "light", "dark":
		if err := a.state.Set(ctx, themeSlot, []byte(answer)); err != nil {
			fmt.Printf("Error: %s\n", err.Error())
			return err
		}
		fmt.Printf("Theme set to %s.\n", answer)
		return nil
	default:
		fmt.Println("Unknown theme. Valid values: light, dark.")
		return nil
	}
}
