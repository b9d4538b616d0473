// Package logging defines the minimal structured-logging interface the vault
// layers depend on, so implementations can wrap slog or any other backend.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key-value
// pairs:
//
//	log.Info(ctx, "vault unlocked", "folder", name)
//
// Implementations must never be handed secret values or key material.
type Logger interface {
	// Debug logs fine-grained diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
