package server

import (
	"net/http"

	"github.com/skyexpress/courier/internal/utils"
	"github.com/skyexpress/courier/pkg/pickup"
	"github.com/skyexpress/courier/pkg/tracking"
	"github.com/skyexpress/courier/pkg/webhook"
)

type Server struct {
	Pipeline *pickup.Pipeline
	Tracking *tracking.Store
	Notifier *webhook.Notifier
	Username string
	Password string
}

func New(pipeline *pickup.Pipeline, store *tracking.Store, notifier *webhook.Notifier, user, pass string) *Server {
	return &Server{
		Pipeline: pipeline,
		Tracking: store,
		Notifier: notifier,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the route table. Split out of Start so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public API
	mux.HandleFunc("POST /api/pickup", s.handlePickup)
	mux.HandleFunc("GET /api/track", s.handleTrack)

	// Admin API
	mux.HandleFunc("GET /api/tracking", s.basicAuth(s.handleListTracking))
	mux.HandleFunc("POST /api/tracking", s.basicAuth(s.handleSaveTracking))
	mux.HandleFunc("DELETE /api/tracking", s.basicAuth(s.handleDeleteTracking))

	return mux
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
