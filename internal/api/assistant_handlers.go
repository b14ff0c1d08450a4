package api

import (
	"errors"
	"net/http"

	"github.com/spender-app/spender/internal/assistant"
	"github.com/spender-app/spender/internal/scanner"
)

type chatRequest struct {
	Message  string `json:"message"`
	UserName string `json:"userName"`
}

func (a *API) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := a.assistant.Chat(r.Context(), req.Message, req.UserName)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}

type parseReceiptRequest struct {
	Text string `json:"text"`
}

// handleParseReceipt extracts line items from OCR'd receipt text, for the
// itemized-expense flow.
func (a *API) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	var req parseReceiptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := scanner.ExtractLineItems(req.Text)
	if items == nil {
		items = []scanner.LineItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
