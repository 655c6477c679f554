// Package service exposes the ledger over a JSON HTTP API.
package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
)

// Service holds the dependencies shared by the HTTP handlers.
type Service struct {
	store *ledger.Store
	jwt   *auth.JWTManager
}

// New creates a Service backed by store. Tokens are issued and checked with jwt.
func New(store *ledger.Store, jwt *auth.JWTManager) *Service {
	return &Service{store: store, jwt: jwt}
}

// Router registers the API routes. metrics, when non-nil, is served on /metrics.
func (s *Service) Router(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.OptionalAuth(s.jwt))

	r.Get("/healthz", s.healthz)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		// Sessions assert an identity rather than prove it: any known user ID
		// gets a token. RequireAuth below only makes the acting user explicit.
		r.Post("/session", s.createSession)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.With(middleware.RequireAuth).Patch("/users/{id}", s.updateProfile)

		r.Get("/groups", s.listGroups)
		r.Post("/groups", s.createGroup)
		r.Get("/groups/{id}", s.getGroup)
		r.Post("/groups/{id}/members", s.addMember)
		r.Post("/groups/{id}/invitations", s.inviteMember)
		r.Get("/groups/{id}/relations", s.groupRelations)
		r.Get("/groups/{id}/suggestions", s.groupSuggestions)

		r.Get("/current-group", s.getCurrentGroup)
		r.Put("/current-group", s.setCurrentGroup)

		r.Get("/expenses", s.listExpenses)
		r.Post("/expenses", s.createExpense)
		r.Delete("/expenses/{id}", s.deleteExpense)
		r.Post("/expenses/{id}/payments", s.markPaid)

		r.Post("/settlements", s.settleUp)
		r.Get("/balances", s.balances)
		r.Post("/splits/preview", s.previewSplit)
	})

	return r
}

func (s *Service) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// callerID is the authenticated user, or the ledger's current user when the
// request carries no token.
func (s *Service) callerID(r *http.Request) string {
	if id := middleware.GetUserID(r.Context()); id != "" {
		return id
	}
	if u, ok := s.store.CurrentUser(); ok {
		return u.ID
	}
	return ""
}
