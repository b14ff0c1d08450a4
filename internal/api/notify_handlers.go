package api

import (
	"net/http"

	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/notify"
)

type sendReminderRequest struct {
	FromPersonID models.PersonID `json:"fromPersonId"`
	ToPersonID   models.PersonID `json:"toPersonId"`
	Amount       float64         `json:"amount"`
}

// handleSendReminder texts a payment request to the person who owes.
func (a *API) handleSendReminder(w http.ResponseWriter, r *http.Request) {
	var req sendReminderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	from, err := a.ledger.GetPerson(r.Context(), req.FromPersonID)
	if err != nil {
		serviceError(w, err)
		return
	}
	to, err := a.ledger.GetPerson(r.Context(), req.ToPersonID)
	if err != nil || to.Phone == "" {
		writeError(w, http.StatusBadRequest, "person not found or no phone number")
		return
	}

	message := notify.PaymentRequestMessage(from.Name, to.Name, req.Amount)
	if err := a.notifier.Send(r.Context(), to.Phone, message); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"phone":   to.Phone,
	})
}

type notifyExpenseRequest struct {
	To          string  `json:"to"`
	PersonName  string  `json:"personName"`
	Amount      float64 `json:"amount"`
	OwedTo      string  `json:"owedTo"`
	ExpenseName string  `json:"expenseName"`
}

// handleNotifyExpense texts someone their share of a new expense. The number
// must be E.164.
func (a *API) handleNotifyExpense(w http.ResponseWriter, r *http.Request) {
	var req notifyExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := notify.ValidatePhone(req.To); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	message := notify.ExpenseNotificationMessage(req.PersonName, req.Amount, req.OwedTo, req.ExpenseName)
	if err := a.notifier.Send(r.Context(), req.To, message); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send SMS: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"to":      req.To,
		"preview": message,
	})
}
