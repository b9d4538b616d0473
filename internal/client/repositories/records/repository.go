// Package records holds the decrypted credential list of an unlocked vault
// and keeps the persisted store in sync with it.
package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/altronvault/altron/internal/client/models"
	"github.com/altronvault/altron/internal/common"
	"github.com/google/uuid"
)

// Saver re-encrypts and rewrites the persisted store. The vault session
// implements it; a locked vault's saver treats the write as a no-op.
type Saver interface {
	SaveStore(ctx context.Context, records []models.CredentialRecord) error
}

// Repository is the in-memory CRUD surface over the decrypted record list.
// Every mutation rewrites the persisted store before it is considered
// durable. On a write failure the in-memory change is kept anyway: the list
// stays the source of truth and the caller retries the write, not the
// mutation.
type Repository struct {
	items []models.CredentialRecord
	saver Saver
	nowFn func() time.Time
}

func NewRepository(saver Saver, initial []models.CredentialRecord) *Repository {
	items := make([]models.CredentialRecord, len(initial))
	copy(items, initial)
	return &Repository{items: items, saver: saver, nowFn: time.Now}
}

// Add appends a new record with a generated id and persists the store.
func (r *Repository) Add(ctx context.Context, label, secretValue string) (*models.CredentialRecord, error) {
	label = strings.TrimSpace(label)
	if label == "" || secretValue == "" {
		return nil, fmt.Errorf("label and password are required: %w", common.ErrorValidation)
	}

	rec := models.CredentialRecord{
		ID:          uuid.NewString(),
		Label:       label,
		SecretValue: secretValue,
		CreatedAt:   r.nowFn().UTC(),
	}
	r.items = append(r.items, rec)

	if err := r.persist(ctx); err != nil {
		return &rec, err
	}
	return &rec, nil
}

// Remove deletes the record with the given id, keeping list order. It
// reports false without error when no such record exists.
func (r *Repository) Remove(ctx context.Context, id string) (bool, error) {
	idx := -1
	for i, rec := range r.items {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// RemoveAll clears the list and returns how many records were removed.
func (r *Repository) RemoveAll(ctx context.Context) (int, error) {
	n := len(r.items)
	r.items = r.items[:0]
	if err := r.persist(ctx); err != nil {
		return n, err
	}
	return n, nil
}

// List returns the records in insertion order.
func (r *Repository) List() []models.CredentialRecord {
	out := make([]models.CredentialRecord, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the record with the given id, or common.ErrorNotFound.
func (r *Repository) Get(id string) (*models.CredentialRecord, error) {
	for _, rec := range r.items {
		if rec.ID == id {
			cp := rec
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// Search returns the records whose label contains term, case-insensitively.
// An empty term matches everything.
func (r *Repository) Search(term string) []models.CredentialRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return r.List()
	}

	out := make([]models.CredentialRecord, 0, len(r.items))
	for _, rec := range r.items {
		if strings.Contains(strings.ToLower(rec.Label), term) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Repository) persist(ctx context.Context) error {
	if err := r.saver.SaveStore(ctx, r.items); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}
	return nil
}
