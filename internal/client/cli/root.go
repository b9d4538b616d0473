package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// Root runs the interactive loop over stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Altron CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
