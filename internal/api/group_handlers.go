package api

import (
	"net/http"

	"github.com/spender-app/spender/internal/models"
)

type createGroupRequest struct {
	Name    string      `json:"name"`
	Members []personRef `json:"members"`
}

func (a *API) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.groups.ListGroups(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (a *API) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	members := make([]models.PersonID, 0, len(req.Members))
	for _, ref := range req.Members {
		id, err := a.resolve(r, ref)
		if err != nil {
			serviceError(w, err)
			return
		}
		members = append(members, id)
	}

	group, err := a.groups.CreateGroup(r.Context(), req.Name, members)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type groupExpenseRequest struct {
	Description string    `json:"description"`
	Subtotal    float64   `json:"subtotal"`
	Tax         float64   `json:"tax"`
	Tip         float64   `json:"tip"`
	PaidBy      personRef `json:"paidBy"`
}

// handleAddGroupExpense splits a bill (including tax and tip) evenly across
// all group members.
func (a *API) handleAddGroupExpense(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req groupExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	paidBy, err := a.resolve(r, req.PaidBy)
	if err != nil {
		serviceError(w, err)
		return
	}

	expense, err := a.groups.AddGroupExpense(r.Context(), models.GroupID(groupID),
		req.Description, req.Subtotal, req.Tax, req.Tip, paidBy)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (a *API) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}
	if err := a.groups.DeleteGroup(r.Context(), models.GroupID(id)); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
