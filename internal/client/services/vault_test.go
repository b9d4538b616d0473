package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/altronvault/altron/internal/client/models"
	"github.com/altronvault/altron/internal/common"
	"github.com/stretchr/testify/require"
)

func newVaultService(state *memState) *VaultService {
	return NewVaultService(NewSessionManager(state), state, discardLogger())
}

func TestVaultCreate(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())
	binding := newMemBinding("vault")

	sess, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "alice", sess.OwnerLabel)
	require.Equal(t, StateUnlocked, svc.State())

	// Both vault files exist after creation.
	for _, name := range []string{MasterKeyFileName, StoreFileName} {
		exists, err := binding.FileExists(ctx, name)
		require.NoError(t, err)
		require.True(t, exists, "expected %s to be written", name)
	}

	require.Empty(t, svc.Records().List())
}

func TestVaultCreate_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		owner   string
		secret  string
		confirm string
	}{
		{"blank owner", "   ", "correct horse", "correct horse"},
		{"short secret", "alice", "short", "short"},
		{"mismatched confirmation", "alice", "correct horse", "correct h0rse"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newVaultService(newMemState())
			binding := newMemBinding("vault")
			_, err := svc.Create(ctx, tc.owner, tc.secret, tc.confirm, binding)
			require.True(t, errors.Is(err, common.ErrorValidation))
			require.Equal(t, StateUninitialized, svc.State())
			require.Empty(t, binding.files)
		})
	}
}

func TestVaultCreate_ExistingVaultNotOverwritten(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())
	binding := newMemBinding("vault")

	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	original := append([]byte(nil), binding.files[MasterKeyFileName]...)

	_, err = svc.Create(ctx, "mallory", "different key", "different key", binding)
	require.True(t, errors.Is(err, common.ErrorVaultExists))
	require.Equal(t, original, binding.files[MasterKeyFileName])
}

func TestVaultUnlock(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	setup := newVaultService(state)
	_, err := setup.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	_, err = setup.Records().Add(ctx, "email", "hunter2")
	require.NoError(t, err)
	require.NoError(t, setup.Lock(ctx))

	svc := newVaultService(state)
	sess, err := svc.Unlock(ctx, "correct horse", binding)
	require.NoError(t, err)
	require.Equal(t, "alice", sess.OwnerLabel)
	require.Equal(t, StateUnlocked, svc.State())

	recs := svc.Records().List()
	require.Len(t, recs, 1)
	require.Equal(t, "email", recs[0].Label)
	require.Equal(t, "hunter2", recs[0].SecretValue)
}

func TestVaultUnlock_WrongSecret(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	setup := newVaultService(state)
	_, err := setup.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	require.NoError(t, setup.Lock(ctx))

	svc := newVaultService(state)
	_, err = svc.Unlock(ctx, "wrong secret", binding)
	require.True(t, errors.Is(err, common.ErrorAuthentication))
	require.NotEqual(t, StateUnlocked, svc.State())
	require.Nil(t, svc.Session())

	// No session token survives a failed unlock.
	sess, err := svc.sessions.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestVaultUnlock_NoVault(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())

	_, err := svc.Unlock(ctx, "correct horse", newMemBinding("empty"))
	require.True(t, errors.Is(err, common.ErrorNoVault))
}

func TestVaultUnlock_TamperedStore(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	setup := newVaultService(state)
	_, err := setup.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	require.NoError(t, setup.Lock(ctx))

	binding.files[StoreFileName] = []byte("not a valid envelope")

	svc := newVaultService(state)
	_, err = svc.Unlock(ctx, "correct horse", binding)
	require.True(t, errors.Is(err, common.ErrorDecryption))
	require.NotEqual(t, StateUnlocked, svc.State())
}

func TestVaultLock(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	svc := newVaultService(state)

	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", newMemBinding("vault"))
	require.NoError(t, err)

	require.NoError(t, svc.Lock(ctx))
	require.Equal(t, StateLocked, svc.State())
	require.Nil(t, svc.Session())
	require.Nil(t, svc.Records())

	sess, err := svc.sessions.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)

	folder, err := state.Get(ctx, slotVaultFolder)
	require.NoError(t, err)
	require.Nil(t, folder)

	// Locking again is a no-op.
	require.NoError(t, svc.Lock(ctx))
	require.Equal(t, StateLocked, svc.State())
}

func TestVaultRestore(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	first := newVaultService(state)
	_, err := first.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	_, err = first.Records().Add(ctx, "email", "hunter2")
	require.NoError(t, err)

	// A new service over the same state, as after a process restart.
	svc := newVaultService(state)
	ok, err := svc.Restore(ctx, newMemProvider(binding))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, StateUnlocked, svc.State())
	require.Equal(t, "alice", svc.Session().OwnerLabel)

	recs := svc.Records().List()
	require.Len(t, recs, 1)
	require.Equal(t, "email", recs[0].Label)
}

func TestVaultRestore_NoSession(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())

	ok, err := svc.Restore(ctx, newMemProvider())
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, StateLocked, svc.State())
}

func TestVaultRestore_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	first := newVaultService(state)
	_, err := first.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)

	svc := newVaultService(state)
	svc.nowFn = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }
	ok, err := svc.Restore(ctx, newMemProvider(binding))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, StateLocked, svc.State())
}

func TestVaultRestore_SwappedFolderRejected(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")
	other := newMemBinding("other")

	first := newVaultService(state)
	_, err := first.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)

	// Point the registry at a different folder than the session was
	// issued for. Restore must refuse the swap and fall back to locked.
	require.NoError(t, state.Set(ctx, slotVaultFolder, []byte(other.Ref())))

	svc := newVaultService(state)
	ok, err := svc.Restore(ctx, newMemProvider(binding, other))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, StateLocked, svc.State())
}

func TestVaultRestore_FolderGone(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	first := newVaultService(state)
	_, err := first.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)

	binding.revoked = true
	svc := newVaultService(state)
	ok, err := svc.Restore(ctx, newMemProvider(binding))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, StateLocked, svc.State())
}

func TestVaultCheckExpiry(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	svc := newVaultService(state)

	sess, err := svc.Create(ctx, "alice", "correct horse", "correct horse", newMemBinding("vault"))
	require.NoError(t, err)

	// Still inside the TTL.
	expired, err := svc.CheckExpiry(ctx, sess.ExpiresAt.Add(-time.Minute))
	require.NoError(t, err)
	require.False(t, expired)
	require.Equal(t, StateUnlocked, svc.State())

	// Past the TTL the vault locks itself.
	expired, err = svc.CheckExpiry(ctx, sess.ExpiresAt.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, expired)
	require.Equal(t, StateLocked, svc.State())
	require.Nil(t, svc.Records())

	// Nothing left to expire.
	expired, err = svc.CheckExpiry(ctx, sess.ExpiresAt.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, expired)
}

func TestVaultSaveStore_WriteSurvivesLockDuringSave(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	svc := newVaultService(state)
	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)

	recs := []models.CredentialRecord{{
		ID:          "r1",
		Label:       "email",
		SecretValue: "hunter2",
		CreatedAt:   time.Now().UTC(),
	}}

	// An expiry-driven lock can land between a save's snapshot and its
	// write. The lock wipes the live key in place, so the snapshot must
	// hold its own copy for the written store to stay decryptable.
	snapBinding, snapKey := svc.snapshotStoreTarget()
	require.NoError(t, svc.Lock(ctx))
	require.NoError(t, persistStore(ctx, snapBinding, snapKey, recs))

	again := newVaultService(state)
	_, err = again.Unlock(ctx, "correct horse", binding)
	require.NoError(t, err)
	got := again.Records().List()
	require.Len(t, got, 1)
	require.Equal(t, "hunter2", got[0].SecretValue)
}

func TestVaultSaveStore_NoopWhenLocked(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())
	binding := newMemBinding("vault")

	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)
	require.NoError(t, svc.Lock(ctx))

	before := append([]byte(nil), binding.files[StoreFileName]...)
	err = svc.SaveStore(ctx, []models.CredentialRecord{{ID: "x", Label: "email", SecretValue: "s"}})
	require.NoError(t, err)
	require.Equal(t, before, binding.files[StoreFileName])
}

func TestVaultRecordsPersistence(t *testing.T) {
	ctx := context.Background()
	state := newMemState()
	binding := newMemBinding("vault")

	svc := newVaultService(state)
	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.NoError(t, err)

	rec, err := svc.Records().Add(ctx, "email", "hunter2")
	require.NoError(t, err)

	// The write landed on disk: a fresh unlock sees the record.
	require.NoError(t, svc.Lock(ctx))
	again := newVaultService(state)
	_, err = again.Unlock(ctx, "correct horse", binding)
	require.NoError(t, err)

	got, err := again.Records().Get(rec.ID)
	require.NoError(t, err)
	require.Equal(t, "hunter2", got.SecretValue)
}

func TestVaultCreate_WriteFailure(t *testing.T) {
	ctx := context.Background()
	svc := newVaultService(newMemState())
	binding := newMemBinding("vault")
	binding.failWrites = true

	_, err := svc.Create(ctx, "alice", "correct horse", "correct horse", binding)
	require.Error(t, err)
	require.NotEqual(t, StateUnlocked, svc.State())
}
