package testutil

import (
	"net/http"

	id "geoclock/pkg/domain"
	"geoclock/pkg/requestcontext"
)

// WithDriver sets the authenticated driver the way RequireAuth does, so a
// handler method can be called without the middleware.
func WithDriver(req *http.Request, driverID id.DriverID) *http.Request {
	return req.WithContext(requestcontext.WithDriverID(req.Context(), driverID))
}

// FromIP sets the client address the metadata middleware would record.
func FromIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
}
