// Package device tags requests with the client platform parsed from the
// User-Agent, so logs, metrics and audit events can be split by app build.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"geoclock/pkg/requestcontext"
)

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWeb     = "web"
	PlatformUnknown = "unknown"
)

// PlatformFromUserAgent classifies a User-Agent string.
func PlatformFromUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return PlatformUnknown
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		return PlatformUnknown
	}
	osName := strings.ToLower(ua.OS())
	switch {
	case strings.Contains(osName, "android"):
		return PlatformAndroid
	case strings.Contains(osName, "iphone"), strings.Contains(osName, "ipad"), strings.Contains(osName, "ios"):
		return PlatformIOS
	}
	if name, _ := ua.Browser(); name != "" && !ua.Mobile() {
		return PlatformWeb
	}
	return PlatformUnknown
}

// Platform stores the request's platform in the context.
func Platform(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		platform := PlatformFromUserAgent(r.UserAgent())
		next.ServeHTTP(w, r.WithContext(requestcontext.WithPlatform(r.Context(), platform)))
	})
}
