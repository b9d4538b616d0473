package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/altronvault/altron/internal/client/storage"
	"github.com/altronvault/altron/internal/common"
	"github.com/altronvault/altron/internal/logging"
)

// memState is an in-memory localstate.Repository for tests.
type memState struct {
	m map[string][]byte
}

func newMemState() *memState {
	return &memState{m: make(map[string][]byte)}
}

func (s *memState) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *memState) Set(ctx context.Context, key string, value []byte) error {
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memState) SetMany(ctx context.Context, kv map[string][]byte) error {
	for k, v := range kv {
		s.m[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *memState) Delete(ctx context.Context, key string) error {
	delete(s.m, key)
	return nil
}

func (s *memState) List(ctx context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte, len(s.m))
	for k, v := range s.m {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (s *memState) Clear(ctx context.Context) error {
	s.m = make(map[string][]byte)
	return nil
}

// memBinding is an in-memory storage.Binding; failWrites simulates a folder
// that rejects writes.
type memBinding struct {
	name       string
	files      map[string][]byte
	failWrites bool
	revoked    bool
}

func newMemBinding(name string) *memBinding {
	return &memBinding{name: name, files: make(map[string][]byte)}
}

func (b *memBinding) Name() string { return b.name }
func (b *memBinding) Ref() string  { return filepath.Join("/vaults", b.name) }

func (b *memBinding) FileExists(ctx context.Context, name string) (bool, error) {
	_, ok := b.files[name]
	return ok, nil
}

func (b *memBinding) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, ok := b.files[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *memBinding) WriteFile(ctx context.Context, name string, data []byte) error {
	if b.failWrites {
		return common.ErrorPermission
	}
	b.files[name] = append([]byte(nil), data...)
	return nil
}

func (b *memBinding) Reacquire(ctx context.Context) error {
	if b.revoked {
		return common.ErrorPermission
	}
	return nil
}

// memProvider restores the bindings it was seeded with, keyed by ref.
type memProvider struct {
	bindings map[string]*memBinding
}

func newMemProvider(bindings ...*memBinding) *memProvider {
	p := &memProvider{bindings: make(map[string]*memBinding)}
	for _, b := range bindings {
		p.bindings[b.Ref()] = b
	}
	return p
}

func (p *memProvider) Pick(ctx context.Context) (storage.Binding, error) {
	return nil, common.ErrorAborted
}

func (p *memProvider) Restore(ctx context.Context, ref string) (storage.Binding, error) {
	b, ok := p.bindings[ref]
	if !ok {
		return nil, common.ErrorPermission
	}
	if err := b.Reacquire(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
