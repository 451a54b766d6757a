package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/vijay7733/roomgate/internal/access"
	"github.com/vijay7733/roomgate/internal/audit"
	auditrepo "github.com/vijay7733/roomgate/internal/audit/repo"
	"github.com/vijay7733/roomgate/internal/config"
	"github.com/vijay7733/roomgate/internal/identity"
	identityrepo "github.com/vijay7733/roomgate/internal/identity/repo"
	"github.com/vijay7733/roomgate/internal/room"
	roomrepo "github.com/vijay7733/roomgate/internal/room/repo"
	"github.com/vijay7733/roomgate/internal/session"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionMiddleware verifies the Bearer session credential and places the
// typed claims in the request context. Missing, malformed, tampered, and
// expired credentials all get the same 401.
func SessionMiddleware(issuer *session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w)
				return
			}
			claims, err := issuer.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// The transport stays thin; every decision lives in the services.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, cfg config.Config, guard access.ReplayGuard) http.Handler {
	mux := http.NewServeMux()

	issuer := session.NewIssuer(cfg.SessionSecret)
	codec := access.NewCodec(cfg.TokenSecret)

	identityRepo := identityrepo.NewIdentityRepo(db)
	roomRepo := roomrepo.NewRoomRepo(db)
	logRepo := auditrepo.NewLogRepo(db)

	identitySvc := identity.NewService(identityRepo, nil, issuer, logger)
	roomSvc := room.NewService(roomRepo)
	engine := access.NewEngine(codec, guard, identityRepo, roomRepo, logRepo, logger)

	identityHandler := identity.NewHandler(identitySvc, logger)
	accessHandler := access.NewHandler(engine, codec, logger)
	roomHandler := room.NewHandler(roomSvc, logger)
	auditHandler := audit.NewHandler(logRepo, logger)

	authed := SessionMiddleware(issuer)

	// health
	mux.HandleFunc("GET /roomgate/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth
	mux.HandleFunc("POST /roomgate/auth/login", identityHandler.Login)
	mux.HandleFunc("POST /roomgate/auth/register", identityHandler.Register)
	mux.Handle("POST /roomgate/auth/invite", authed(http.HandlerFunc(identityHandler.Invite)))

	// access checkpoint
	mux.Handle("GET /roomgate/access/token", authed(http.HandlerFunc(accessHandler.MintToken)))
	mux.Handle("POST /roomgate/access/request", authed(http.HandlerFunc(accessHandler.RequestAccess)))

	// rooms + reporting
	mux.Handle("GET /roomgate/rooms", authed(http.HandlerFunc(roomHandler.List)))
	mux.Handle("POST /roomgate/rooms", authed(http.HandlerFunc(roomHandler.Create)))
	mux.Handle("GET /roomgate/logs", authed(http.HandlerFunc(auditHandler.List)))

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
