package service

import (
	"context"
	"errors"

	"geoclock/internal/attendance/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

// Today is the driver's attendance state for the current work date. Session
// is nil when the driver has not clocked in.
type Today struct {
	WorkDate id.WorkDate
	Session  *models.Session
}

// State names the position in the day's state machine.
func (t Today) State() string {
	if t.Session == nil {
		return "no_session"
	}
	return string(t.Session.State)
}

// Status returns today's session for the driver without side effects.
func (s *Service) Status(ctx context.Context, driverID id.DriverID) (*Today, error) {
	workDate := id.WorkDateOf(s.now(ctx), s.loc)
	session, err := s.sessions.GetSession(ctx, driverID, workDate)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &Today{WorkDate: workDate}, nil
		}
		return nil, newError(KindPersistenceFailure, "", err)
	}
	return &Today{WorkDate: workDate, Session: session}, nil
}
