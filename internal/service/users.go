package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitledger/internal/models"
)

type sessionRequest struct {
	UserID string `json:"userId"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// createSession issues a token for an existing user. There are no
// credentials in the ledger, so knowing the ID is enough: the token names the
// acting user, it does not authenticate them.
func (s *Service) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.User(req.UserID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	token, expires, err := s.jwt.Generate(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires, User: user})
}

func (s *Service) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"users": s.store.Users()})
}

func (s *Service) createUser(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeBody(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.AddUser(r.Context(), profile)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusCreated, user, err)
}

func (s *Service) updateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeBody(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.UpdateProfile(r.Context(), s.callerID(r), chi.URLParam(r, "id"), profile)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusOK, user, err)
}
