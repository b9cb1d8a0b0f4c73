// Package session persists per-driver, per-day attendance sessions. Every
// backend enforces at most one session per (driver, work date) with an atomic
// check-and-insert, which is what makes concurrent clock-ins idempotent.
package session

import (
	"context"
	"sync"

	"geoclock/internal/attendance/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

type dayKey struct {
	driverID id.DriverID
	workDate id.WorkDate
}

// InMemoryStore keeps sessions in process memory for dev mode and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[dayKey]*models.Session
	byID     map[id.SessionID]dayKey
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[dayKey]*models.Session),
		byID:     make(map[id.SessionID]dayKey),
	}
}

func (s *InMemoryStore) GetSession(_ context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[dayKey{driverID, workDate}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneSession(session), nil
}

func (s *InMemoryStore) GetOpenSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	session, err := s.GetSession(ctx, driverID, workDate)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *InMemoryStore) CreateClockIn(_ context.Context, in models.ClockIn) (*models.Session, error) {
	key := dayKey{in.DriverID, in.WorkDate}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[key]; exists {
		return nil, sentinel.ErrConflict
	}
	session := in.NewSession()
	s.sessions[key] = session
	s.byID[session.ID] = key
	return cloneSession(session), nil
}

func (s *InMemoryStore) CloseClockOut(_ context.Context, sessionID id.SessionID, out models.ClockOut) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byID[sessionID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	session := s.sessions[key]
	if !session.IsOpen() {
		return false, nil
	}
	punch := out.Punch
	session.ClockOut = &punch
	session.State = models.SessionClosed
	return true, nil
}

func cloneSession(s *models.Session) *models.Session {
	cp := *s
	if s.ClockOut != nil {
		out := *s.ClockOut
		cp.ClockOut = &out
	}
	return &cp
}
