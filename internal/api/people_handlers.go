package api

import (
	"net/http"

	"github.com/spender-app/spender/internal/models"
)

type addPersonRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (a *API) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := a.ledger.ListPeople(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if people == nil {
		people = []models.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

// handleAddPerson registers a person and reports how many historical expenses
// already referenced them.
func (a *API) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var req addPersonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	person, reconciled, err := a.ledger.AddPerson(r.Context(), req.Name, req.Phone)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 person.ID,
		"name":               person.Name,
		"phone":              person.Phone,
		"createdAt":          person.CreatedAt,
		"historicalExpenses": reconciled,
	})
}

func (a *API) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}
	if err := a.ledger.DeletePerson(r.Context(), models.PersonID(id)); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type profileRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.store.GetProfile(r.Context())
	if err != nil {
		// Never saved yet: mirror an empty profile rather than erroring.
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *API) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile := &models.Profile{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
		Bio:    req.Bio,
	}
	if err := a.store.SaveProfile(r.Context(), profile); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
