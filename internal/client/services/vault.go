// Package services contains the application services of the Altron client:
// the vault session state machine, the session token manager, the store
// codec, and password generation.
package services

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/altronvault/altron/internal/client/models"
	"github.com/altronvault/altron/internal/client/repositories/localstate"
	"github.com/altronvault/altron/internal/client/repositories/records"
	"github.com/altronvault/altron/internal/client/storage"
	"github.com/altronvault/altron/internal/common"
	"github.com/altronvault/altron/internal/cryptox"
	"github.com/altronvault/altron/internal/logging"
)

// Names of the files persisted inside the vault folder.
const (
	MasterKeyFileName = "master.key"
	StoreFileName     = "passwords.enc"
)

// MinSecretLength is the policy minimum for a master secret.
const MinSecretLength = 8

// Local-state slots owned by the vault service.
const (
	slotVaultFolder = "vault_folder"
	slotVaultKey    = "vault_key"
	slotDeviceKey   = "device_key"
)

// State is the lifecycle position of the vault session.
type State int

const (
	StateUninitialized State = iota
	StateLocked
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// VaultService is the state machine governing uninitialized -> locked ->
// unlocked. It is the only component that mutates the in-memory master key,
// the storage binding, and the session together; all three are dropped on
// lock.
type VaultService struct {
	mu        sync.Mutex
	state     State
	binding   storage.Binding
	masterKey []byte
	repo      *records.Repository
	session   *models.Session

	sessions *SessionManager
	registry localstate.Repository
	log      logging.Logger
	nowFn    func() time.Time
}

func NewVaultService(sessions *SessionManager, registry localstate.Repository, log logging.Logger) *VaultService {
	return &VaultService{
		state:    StateUninitialized,
		sessions: sessions,
		registry: registry,
		log:      log,
		nowFn:    time.Now,
	}
}

// Create initializes a brand-new vault in the given folder and enters the
// unlocked state. It refuses to touch a folder that already holds a master
// key file.
func (s *VaultService) Create(ctx context.Context, ownerLabel, secret, confirm string, binding storage.Binding) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateNewSecret(ownerLabel, secret, confirm); err != nil {
		return nil, err
	}

	exists, err := binding.FileExists(ctx, MasterKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("checking folder: %w", err)
	}
	if exists {
		return nil, common.ErrorVaultExists
	}

	salt := cryptox.NewSalt()
	record := models.MasterSecretRecord{
		Hash:       hex.EncodeToString(cryptox.DeriveVerificationHash(secret, salt)),
		Salt:       hex.EncodeToString(salt),
		OwnerLabel: ownerLabel,
		CreatedAt:  s.nowFn().UTC(),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := binding.WriteFile(ctx, MasterKeyFileName, data); err != nil {
		return nil, fmt.Errorf("writing master key file: %w", err)
	}

	key := cryptox.LegacyStoreKey(secret)
	if err := persistStore(ctx, binding, key, nil); err != nil {
		return nil, fmt.Errorf("writing empty store: %w", err)
	}

	sess, err := s.enterUnlocked(ctx, binding, key, ownerLabel, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "vault created", "folder", binding.Name())
	return sess, nil
}

// Unlock verifies the supplied secret against the folder's master key file,
// loads and decodes the store, and enters the unlocked state. No session is
// issued on failure.
func (s *VaultService) Unlock(ctx context.Context, secret string, binding storage.Binding) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := readMasterSecretRecord(ctx, binding)
	if err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(record.Salt)
	if err != nil {
		return nil, fmt.Errorf("corrupt master key file: %w", err)
	}
	storedHash, err := hex.DecodeString(record.Hash)
	if err != nil {
		return nil, fmt.Errorf("corrupt master key file: %w", err)
	}

	candidate := cryptox.DeriveVerificationHash(secret, salt)
	if subtle.ConstantTimeCompare(candidate, storedHash) == 0 {
		return nil, common.ErrorAuthentication
	}

	// The store file and the master key file are independent; a passing
	// hash check does not guarantee the store decrypts.
	key := cryptox.LegacyStoreKey(secret)
	recs, err := loadStore(ctx, binding, key)
	if err != nil {
		return nil, err
	}

	sess, err := s.enterUnlocked(ctx, binding, key, record.OwnerLabel, recs)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "vault unlocked", "folder", binding.Name(), "records", len(recs))
	return sess, nil
}

// Lock wipes the in-memory key material and record list, destroys the
// persisted session and folder binding, and enters the locked state.
// Idempotent: locking a locked vault is a no-op.
func (s *VaultService) Lock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockLocked(ctx)
}

func (s *VaultService) lockLocked(ctx context.Context) error {
	common.WipeByteArray(s.masterKey)
	s.masterKey = nil
	s.repo = nil
	s.binding = nil
	s.session = nil
	s.state = StateLocked

	var errs []error
	if err := s.sessions.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, slot := range []string{slotVaultFolder, slotVaultKey} {
		if err := s.registry.Delete(ctx, slot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Restore attempts the silent startup transition to unlocked: a valid
// persisted session plus a reacquirable folder binding and key material.
// Any failure falls back to locked without error.
func (s *VaultService) Restore(ctx context.Context, provider storage.Provider) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Read(ctx)
	if err != nil && !errors.Is(err, common.ErrInvalidToken) {
		return false, err
	}
	if !s.sessions.IsValid(sess, s.nowFn()) {
		s.state = StateLocked
		return false, nil
	}

	ref, err := s.registry.Get(ctx, slotVaultFolder)
	if err != nil {
		return false, err
	}
	if ref == nil {
		s.state = StateLocked
		return false, nil
	}

	binding, err := provider.Restore(ctx, string(ref))
	if err != nil {
		s.log.Warn(ctx, "stored folder binding could not be reacquired", "err", err)
		s.state = StateLocked
		return false, nil
	}
	if binding.Name() != sess.VaultID {
		s.log.Warn(ctx, "stored folder does not match the session's vault", "folder", binding.Name(), "vault", sess.VaultID)
		s.state = StateLocked
		return false, nil
	}

	key, err := s.restoreStoreKey(ctx)
	if err != nil {
		s.log.Warn(ctx, "stored key material unavailable", "err", err)
		s.state = StateLocked
		return false, nil
	}

	recs, err := loadStore(ctx, binding, key)
	if err != nil {
		common.WipeByteArray(key)
		s.state = StateLocked
		return false, nil
	}

	s.binding = binding
	s.masterKey = key
	s.repo = records.NewRepository(s, recs)
	s.session = sess
	s.state = StateUnlocked
	s.log.Info(ctx, "session restored", "folder", binding.Name(), "owner", sess.OwnerLabel)
	return true, nil
}

// CheckExpiry forces a lock when the persisted session has outlived its
// TTL. It reports whether an expiry was detected so callers can surface the
// "session expired" notice.
func (s *VaultService) CheckExpiry(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Read(ctx)
	if err != nil || sess == nil {
		return false, nil
	}
	if !now.After(sess.ExpiresAt) {
		return false, nil
	}

	s.log.Info(ctx, "session expired, locking vault", "owner", sess.OwnerLabel)
	return true, s.lockLocked(ctx)
}

// StartExpiryWatcher runs CheckExpiry once immediately and then on every
// tick until the context is canceled. onExpired is called outside the
// service lock whenever an expiry forced a transition to locked.
func (s *VaultService) StartExpiryWatcher(ctx context.Context, interval time.Duration, onExpired func()) {
	check := func() {
		expired, err := s.CheckExpiry(ctx, s.nowFn())
		if err != nil {
			s.log.Error(ctx, "expiry check failed", "err", err)
		}
		if expired && onExpired != nil {
			onExpired()
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

// SaveStore implements records.Saver. It snapshots the binding and key
// under the lock; a binding cleared by a concurrent lock makes the write a
// no-op rather than an error.
func (s *VaultService) SaveStore(ctx context.Context, recs []models.CredentialRecord) error {
	binding, key := s.snapshotStoreTarget()
	if binding == nil {
		return nil
	}
	defer common.WipeByteArray(key)
	return persistStore(ctx, binding, key, recs)
}

// snapshotStoreTarget returns the binding and a private copy of the store
// key. The copy matters: lockLocked wipes the live key's backing array in
// place, and a lock from the expiry watcher may land while a save is still
// encrypting. A write must never see half-zeroed key bytes.
func (s *VaultService) snapshotStoreTarget() (storage.Binding, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.binding == nil {
		return nil, nil
	}
	return s.binding, append([]byte(nil), s.masterKey...)
}

// State returns the current lifecycle state.
func (s *VaultService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the active session, or nil when locked.
func (s *VaultService) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Records returns the repository of the unlocked vault, or nil when locked.
func (s *VaultService) Records() *records.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo
}

// enterUnlocked installs the unlocked state: key material, repository,
// issued session, and the registry entries that make silent restore
// possible. Callers hold s.mu.
func (s *VaultService) enterUnlocked(ctx context.Context, binding storage.Binding, key []byte, ownerLabel string, recs []models.CredentialRecord) (*models.Session, error) {
	sess, err := s.sessions.Issue(ctx, ownerLabel, binding.Name())
	if err != nil {
		return nil, err
	}
	if err := s.persistBinding(ctx, binding, key); err != nil {
		return nil, err
	}

	s.binding = binding
	s.masterKey = key
	s.repo = records.NewRepository(s, recs)
	s.session = sess
	s.state = StateUnlocked
	return sess, nil
}

// persistBinding stores the folder ref and the sealed store key so a later
// Restore can re-enter unlocked without the secret. The key is sealed under
// a per-device key held in the same database; this matches the session
// token's trust level, not the master secret's.
func (s *VaultService) persistBinding(ctx context.Context, binding storage.Binding, key []byte) error {
	deviceKey, err := s.deviceKey(ctx)
	if err != nil {
		return err
	}
	sealedKey, err := cryptox.Seal(deviceKey, key)
	if err != nil {
		return err
	}

	return s.registry.SetMany(ctx, map[string][]byte{
		slotVaultFolder: []byte(binding.Ref()),
		slotVaultKey:    []byte(sealedKey),
	})
}

func (s *VaultService) restoreStoreKey(ctx context.Context) ([]byte, error) {
	sealed, err := s.registry.Get(ctx, slotVaultKey)
	if err != nil {
		return nil, err
	}
	if sealed == nil {
		return nil, common.ErrorNotFound
	}
	deviceKey, err := s.deviceKey(ctx)
	if err != nil {
		return nil, err
	}
	return cryptox.Open(deviceKey, string(sealed))
}

func (s *VaultService) deviceKey(ctx context.Context) ([]byte, error) {
	key, err := s.registry.Get(ctx, slotDeviceKey)
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}
	key = common.GenerateRandByteArray(32)
	if err := s.registry.Set(ctx, slotDeviceKey, key); err != nil {
		return nil, err
	}
	return key, nil
}

func validateNewSecret(ownerLabel, secret, confirm string) error {
	if strings.TrimSpace(ownerLabel) == "" {
		return fmt.Errorf("owner name is required: %w", common.ErrorValidation)
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("master key must be at least %d characters: %w", MinSecretLength, common.ErrorValidation)
	}
	if secret != confirm {
		return fmt.Errorf("master keys do not match: %w", common.ErrorValidation)
	}
	return nil
}

func readMasterSecretRecord(ctx context.Context, binding storage.Binding) (*models.MasterSecretRecord, error) {
	data, err := binding.ReadFile(ctx, MasterKeyFileName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNoVault
		}
		return nil, fmt.Errorf("reading master key file: %w", err)
	}

	var record models.MasterSecretRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt master key file: %w", err)
	}
	return &record, nil
}

func loadStore(ctx context.Context, binding storage.Binding, key []byte) ([]models.CredentialRecord, error) {
	data, err := binding.ReadFile(ctx, StoreFileName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []models.CredentialRecord{}, nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}
	return DecodeStore(key, string(data))
}

func persistStore(ctx context.Context, binding storage.Binding, key []byte, recs []models.CredentialRecord) error {
	envelope, err := EncodeStore(key, recs)
	if err != nil {
		return err
	}
	return binding.WriteFile(ctx, StoreFileName, []byte(envelope))
}
