package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms, Connect-Content-Encoding, Connect-Accept-Encoding, X-User-Agent"
	corsExposeHeaders = "Connect-Content-Encoding, Connect-Accept-Encoding, Content-Length"
)

// CORS reflects the request Origin when it is allowed. An empty allow list
// admits every origin but never with credentials. Preflight requests are
// answered here.
func CORS(allowed []string, next http.Handler) http.Handler {
	allow := originSet(allowed)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		switch {
		case origin == "":
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case originAllowed(allow, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if len(allow) > 0 {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Add("Vary", "Origin")
		default:
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
		w.Header().Set("Access-Control-Expose-Headers", corsExposeHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OriginAllowed returns the origin check CORS applies for allowed, for
// transports such as websockets that do their own origin handling.
func OriginAllowed(allowed []string) func(origin string) bool {
	allow := originSet(allowed)
	return func(origin string) bool {
		return originAllowed(allow, strings.TrimRight(strings.TrimSpace(origin), "/"))
	}
}

func originSet(allowed []string) map[string]struct{} {
	allow := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allow[o] = struct{}{}
		}
	}
	return allow
}

func originAllowed(allow map[string]struct{}, origin string) bool {
	if len(allow) == 0 {
		return true
	}
	_, ok := allow[origin]
	return ok
}
