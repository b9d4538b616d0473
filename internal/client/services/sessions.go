package services

import (
	"context"
	"fmt"
	"time"

	"github.com/altronvault/altron/internal/client/models"
	"github.com/altronvault/altron/internal/client/repositories/localstate"
	"github.com/altronvault/altron/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is the fixed lifetime of an issued session.
const SessionTTL = 7 * 24 * time.Hour

const (
	slotSession     = "session"
	slotSessionHMAC = "session_hmac"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	OwnerLabel    string `json:"ownerLabel"`
	VaultID       string `json:"vaultId"`
	Authenticated bool   `json:"authenticated"`
}

// SessionManager issues, persists, validates, and expires the single
// session credential. The session is stored as an HS256-signed token in the
// local state database; the signing secret is a random key generated once
// and kept alongside it.
type SessionManager struct {
	state localstate.Repository
	nowFn func() time.Time
}

func NewSessionManager(state localstate.Repository) *SessionManager {
	return &SessionManager{state: state, nowFn: time.Now}
}

// Issue creates a new authenticated session with the fixed TTL, persists it
// in the well-known slot (replacing any previous session), and returns it.
func (m *SessionManager) Issue(ctx context.Context, ownerLabel, vaultID string) (*models.Session, error) {
	now := m.nowFn()
	sess := &models.Session{
		ID:            uuid.NewString(),
		OwnerLabel:    ownerLabel,
		VaultID:       vaultID,
		Authenticated: true,
		IssuedAt:      now,
		ExpiresAt:     now.Add(SessionTTL),
	}

	key, err := m.signingKey(ctx)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		OwnerLabel:    sess.OwnerLabel,
		VaultID:       sess.VaultID,
		Authenticated: sess.Authenticated,
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}
	if err := m.state.Set(ctx, slotSession, []byte(signed)); err != nil {
		return nil, err
	}
	return sess, nil
}

// Read loads the persisted session. It returns (nil, nil) when no session
// is stored and ErrInvalidToken when the stored token fails signature
// verification. Expired sessions ARE returned: expiry is the caller's
// decision via IsValid, so the expiry watcher can tell "expired" apart
// from "absent".
func (m *SessionManager) Read(ctx context.Context) (*models.Session, error) {
	raw, err := m.state.Get(ctx, slotSession)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	key, err := m.signingKey(ctx)
	if err != nil {
		return nil, err
	}

	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	return &models.Session{
		ID:            claims.ID,
		OwnerLabel:    claims.OwnerLabel,
		VaultID:       claims.VaultID,
		Authenticated: claims.Authenticated,
		IssuedAt:      claims.IssuedAt.Time,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}

// IsValid reports whether sess allows silent re-entry at the given time.
func (m *SessionManager) IsValid(sess *models.Session, now time.Time) bool {
	return sess != nil && sess.Authenticated && !now.After(sess.ExpiresAt)
}

// Clear removes the persisted session.
func (m *SessionManager) Clear(ctx context.Context) error {
	return m.state.Delete(ctx, slotSession)
}

func (m *SessionManager) signingKey(ctx context.Context) ([]byte, error) {
	key, err := m.state.Get(ctx, slotSessionHMAC)
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}

	key = common.GenerateRandByteArray(32)
	if err := m.state.Set(ctx, slotSessionHMAC, key); err != nil {
		return nil, err
	}
	return key, nil
}
