package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/splitledger/internal/models"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

type addMemberResponse struct {
	Added bool         `json:"added"`
	Group models.Group `json:"group"`
}

type currentGroupRequest struct {
	GroupID string `json:"groupId"`
}

func (s *Service) listGroups(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"groups": s.store.Groups()})
}

func (s *Service) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := s.store.AddGroup(r.Context(), req.Name, req.Members)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusCreated, group, err)
}

func (s *Service) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.store.Group(chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Service) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	groupID := chi.URLParam(r, "id")
	added, err := s.store.AddMemberToGroup(r.Context(), groupID, req.UserID)
	if mutationFailed(w, err) {
		return
	}
	group, gerr := s.store.Group(groupID)
	if gerr != nil {
		writeLedgerError(w, gerr)
		return
	}
	writeMutation(w, http.StatusOK, addMemberResponse{Added: added, Group: group}, err)
}

func (s *Service) inviteMember(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeBody(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.InviteMember(r.Context(), chi.URLParam(r, "id"), profile)
	if mutationFailed(w, err) {
		return
	}
	writeMutation(w, http.StatusCreated, user, err)
}

func (s *Service) groupRelations(w http.ResponseWriter, r *http.Request) {
	relations, err := s.store.Relations(s.callerID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relations": relations})
}

func (s *Service) groupSuggestions(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.store.SuggestedSettlements(chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}

func (s *Service) getCurrentGroup(w http.ResponseWriter, _ *http.Request) {
	group, ok := s.store.CurrentGroup()
	if !ok {
		writeError(w, http.StatusNotFound, "no current group selected")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Service) setCurrentGroup(w http.ResponseWriter, r *http.Request) {
	var req currentGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.store.SetCurrentGroup(r.Context(), req.GroupID)
	if mutationFailed(w, err) {
		return
	}
	group, _ := s.store.CurrentGroup()
	writeMutation(w, http.StatusOK, group, err)
}
