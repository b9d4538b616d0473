// Package storage abstracts the user-chosen vault folder behind the Binding
// and Provider interfaces, so the vault core never touches the filesystem
// directly and tests can substitute fakes.
package storage

import "context"

// Binding is a handle to the folder holding one vault. The handle itself is
// never encrypted; every payload written through it is.
type Binding interface {
	// Name returns the display name of the folder (its base name).
	Name() string

	// Ref returns the persistable reference a Provider can later restore
	// the binding from.
	Ref() string

	// FileExists reports whether the named file exists in the folder.
	FileExists(ctx context.Context, name string) (bool, error)

	// ReadFile returns the file's content, or common.ErrorNotFound when
	// the file is absent.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// WriteFile creates or overwrites the named file.
	WriteFile(ctx context.Context, name string, data []byte) error

	// Reacquire re-confirms access to the folder. It must be called when
	// the binding was restored from its persisted ref; failures map to
	// common.ErrorPermission.
	Reacquire(ctx context.Context) error
}

// Provider obtains bindings, either interactively or from a persisted ref.
type Provider interface {
	// Pick asks the user for a folder. A canceled prompt yields
	// common.ErrorAborted, which callers treat as an outcome, not a failure.
	Pick(ctx context.Context) (Binding, error)

	// Restore rebuilds a binding from a ref previously returned by
	// Binding.Ref and reacquires access to it.
	Restore(ctx context.Context, ref string) (Binding, error)
}
