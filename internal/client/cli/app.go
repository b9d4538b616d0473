package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/altronvault/altron/internal/client/config"
	"github.com/altronvault/altron/internal/client/localdb"
	"github.com/altronvault/altron/internal/client/repositories/localstate"
	"github.com/altronvault/altron/internal/client/services"
	"github.com/altronvault/altron/internal/client/storage"
	"github.com/altronvault/altron/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the vault service, the folder provider, and the interactive REPL.
type App struct {
	config   *config.Config
	vault    *services.VaultService
	state    localstate.Repository
	provider storage.Provider
	reader   *bufio.Reader
	log      logging.Logger
	db       *sql.DB
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := localdb.InitDatabase(ctx, c.StateDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing local state database: %w", err)
	}

	state := localstate.NewStore(db)
	sessions := services.NewSessionManager(state)
	vault := services.NewVaultService(sessions, state, logger)

	reader := bufio.NewReader(os.Stdin)

	return &App{
		config:   c,
		vault:    vault,
		state:    state,
		provider: storage.NewPromptProvider(reader, os.Stdout),
		reader:   reader,
		log:      logger,
		db:       db,
	}, nil
}

// Run attempts a silent session restore, starts the expiry watcher, and
// enters the REPL. It blocks until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	restored, err := a.vault.Restore(ctx, a.provider)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	if restored {
		fmt.Printf("Welcome back, %s. Vault is unlocked.\n", a.vault.Session().OwnerLabel)
	}

	go a.vault.StartExpiryWatcher(ctx, a.config.ExpiryCheckInterval, func() {
		fmt.Println("\nSession expired. Vault locked.")
	})

	a.Root(ctx)
}

func (a *App) isUnlocked() bool {
	return a.vault.State() == services.StateUnlocked
}

func (a *App) getStatus() string {
	if sess := a.vault.Session(); sess != nil {
		return fmt.Sprintf("(%s unlocked)", sess.OwnerLabel)
	}
	return "(locked)"
}
