package reconcile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/payload"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Post("/propose", h.propose)
}

// preview backs the live suggestion shown while a transaction is typed.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	proposal, err := h.svc.Preview(r.Context(), req.Params())
	if err != nil {
		slog.Error("previewing match", "company", req.Company, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusOK, ToProposal(proposal))
}

// propose runs the submit decision without storing anything.
func (h *Handler) propose(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	choice, err := ParseChoice(req.ObligationRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	proposal, err := h.svc.Propose(r.Context(), req.Params(), choice)
	if err != nil {
		slog.Error("proposing match", "company", req.Company, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusOK, ToProposal(proposal))
}
