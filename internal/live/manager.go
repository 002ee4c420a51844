// Package live pairs with a WhatsApp account over the multidevice protocol
// and feeds captured messages into the analytics pipeline.
package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"panion/internal/config"
	"panion/internal/model"
)

// Reporter persists generated snapshots.
type Reporter interface {
	SaveReport(id string, analytics *model.Analytics) error
}

// Manager tracks live sessions and the coupon each one is bound to. One
// coupon maps to at most one session.
type Manager struct {
	cfg      config.Config
	reporter Reporter
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	byCoupon map[string]string
}

// NewManager returns an empty session registry.
func NewManager(cfg config.Config, reporter Reporter, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		reporter: reporter,
		log:      log,
		sessions: make(map[string]*Session),
		byCoupon: make(map[string]string),
	}
}

// Connect returns the session bound to the coupon, creating and connecting
// a new one under sessionID when none exists.
func (m *Manager) Connect(ctx context.Context, sessionID, couponCode string) (*Session, error) {
	m.mu.Lock()
	if existingID, ok := m.byCoupon[couponCode]; ok {
		if session, ok := m.sessions[existingID]; ok {
			m.mu.Unlock()
			return session, nil
		}
	}

	session := &Session{
		ID:         sessionID,
		CouponCode: couponCode,
		reporter:   m.reporter,
		log:        m.log,
	}
	m.sessions[sessionID] = session
	m.byCoupon[couponCode] = sessionID
	m.mu.Unlock()

	if err := session.connect(ctx, m.cfg.AuthDir(sessionID)); err != nil {
		m.remove(session)
		return nil, fmt.Errorf("connect session %s: %w", sessionID, err)
	}
	return session, nil
}

// Session returns a session by id, or nil when unknown.
func (m *Manager) Session(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID]
}

// SessionForCoupon returns the session bound to a coupon along with its id,
// or ("", nil) when the coupon has no session.
func (m *Manager) SessionForCoupon(couponCode string) (string, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessionID, ok := m.byCoupon[couponCode]
	if !ok {
		return "", nil
	}
	return sessionID, m.sessions[sessionID]
}

// HasPairedSession reports whether the coupon is bound to a paired session.
func (m *Manager) HasPairedSession(couponCode string) bool {
	m.mu.Lock()
	sessionID, ok := m.byCoupon[couponCode]
	session := m.sessions[sessionID]
	m.mu.Unlock()

	return ok && session != nil && session.Paired()
}

// Disconnect tears down a session and releases its coupon binding.
// Disconnecting an unknown id is a no-op.
func (m *Manager) Disconnect(sessionID string) {
	m.mu.Lock()
	session := m.sessions[sessionID]
	m.mu.Unlock()

	if session == nil {
		return
	}
	session.disconnect()
	m.remove(session)
	m.log.Info().Str("session", sessionID).Msg("session disconnected")
}

// GenerateNow forces a snapshot for a session and returns the new id.
func (m *Manager) GenerateNow(sessionID string) (string, error) {
	m.mu.Lock()
	session := m.sessions[sessionID]
	m.mu.Unlock()

	if session == nil {
		return "", fmt.Errorf("unknown session %s", sessionID)
	}
	return session.generate()
}

func (m *Manager) remove(session *Session) {
	m.mu.Lock()
	delete(m.sessions, session.ID)
	if m.byCoupon[session.CouponCode] == session.ID {
		delete(m.byCoupon, session.CouponCode)
	}
	m.mu.Unlock()
}
