package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/gadget"
	"gadgetry.org/internal/obs"
)

const serviceName = "gadgetry-api"

// ReadyProbe pings the database when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer drives.
type Deps struct {
	Gate         *auth.Gate
	Accounts     *auth.Accounts
	Gadgets      *gadget.Service
	Ready        readinessChecker
	Version      string
	CORSOrigin   string
	MaxBodyBytes int64
}

// API is the HTTP surface of the gadget inventory.
type API struct {
	mux          *http.ServeMux
	gate         *auth.Gate
	accounts     *auth.Accounts
	gadgets      *gadget.Service
	readyProbe   readinessChecker
	version      string
	corsOrigin   string
	maxBodyBytes int64
}

func New(d Deps) *API {
	a := &API{
		mux:          http.NewServeMux(),
		gate:         d.Gate,
		accounts:     d.Accounts,
		gadgets:      d.Gadgets,
		readyProbe:   d.Ready,
		version:      d.Version,
		corsOrigin:   d.CORSOrigin,
		maxBodyBytes: d.MaxBodyBytes,
	}
	if a.readyProbe == nil {
		a.readyProbe = ReadyProbe{}
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/signup", a.handleSignup)
	a.mux.HandleFunc("/signin", a.handleSignin)

	a.mux.Handle("/gadgets", a.withAuth(http.HandlerFunc(a.handleGadgetsCollection)))
	a.mux.Handle("/gadgets/", a.withAuth(http.HandlerFunc(a.handleGadgetResource)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h, a.corsOrigin)
	h = SecurityHeaders(h)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = Recover(h)
	return RequestID(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		obs.Error("readiness probe failed", err, map[string]any{"request_id": RequestIDFromContext(r.Context())})
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
