package transaction

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/payload"
	httpreconcile "github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc       *transaction.Service
	reconcile *reconcile.Service
}

func NewHandler(svc *transaction.Service, reconcileSvc *reconcile.Service) *Handler {
	return &Handler{svc: svc, reconcile: reconcileSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/link", h.link)
	r.Delete("/{id}/link", h.unlink)
}

type createTransactionRequest struct {
	Company        string           `json:"company" validate:"required"`
	Amount         int64            `json:"amount" validate:"gt=0"`
	Type           transaction.Type `json:"type" validate:"oneof=income expense"`
	Description    string           `json:"description" validate:"required"`
	Category       string           `json:"category"`
	Subcategory    string           `json:"subcategory"`
	Date           time.Time        `json:"date" validate:"required"`
	ObligationRef  string           `json:"obligation_ref,omitempty"`
	AllowDuplicate bool             `json:"allow_duplicate"`
}

// create stores a transaction and runs the link decision for it. An explicit
// obligation_ref is linked right away; otherwise a strong enough candidate is
// returned as pending confirmation and is linked through POST /{id}/link.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	choice, err := httpreconcile.ParseChoice(req.ObligationRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		Company:     req.Company,
		Amount:      req.Amount,
		Type:        req.Type,
		Status:      transaction.StatusCommitted,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Date:        req.Date,
	}

	if !req.AllowDuplicate {
		dupID, found, err := h.svc.FindDuplicate(r.Context(), params)
		if err != nil {
			// The duplicate check is advisory; a failed lookup does not block entry.
			slog.Warn("duplicate check failed", "company", params.Company, "error", err)
		}

		if found {
			payload.JSON(w, http.StatusConflict, duplicateResponse{Error: "duplicate transaction", DuplicateOf: dupID})
			return
		}
	}

	proposal, err := h.reconcile.Propose(r.Context(), params, choice)
	if err != nil {
		slog.Error("proposing match", "company", params.Company, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := createResponse{Proposal: httpreconcile.ToProposal(proposal)}

	if proposal.Decision.State == reconcile.StateLinked {
		linked, settlement, err := h.reconcile.Accept(r.Context(), tx.ID, *proposal.Decision.Ref)
		if err != nil {
			if delErr := h.svc.Delete(r.Context(), tx.ID); delErr != nil {
				slog.Error("rolling back unlinked transaction", "transaction_id", tx.ID, "error", delErr)
			}

			writeLinkError(w, err)

			return
		}

		tx = linked
		resp.Settlement = new(toSettlement(settlement))
	}

	resp.Transaction = toResponse(tx)

	payload.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("company"); s != "" {
		filter.Company = new(s)
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("linked"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			filter.Linked = new(b)
		}
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusOK, toResponse(tx))
}

// delete releases the transaction's settlement before removing it.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if tx.Linked() {
		if _, err := h.reconcile.Reopen(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Description *string           `json:"description,omitempty" validate:"omitnil,min=1"`
	Amount      *int64            `json:"amount,omitempty" validate:"omitnil,gt=0"`
	Type        *transaction.Type `json:"type,omitempty" validate:"omitnil,oneof=income expense"`
	Category    *string           `json:"category,omitempty"`
	Subcategory *string           `json:"subcategory,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Description != nil {
		tx.Description = *req.Description
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
	}

	if req.Type != nil {
		tx.Type = *req.Type
	}

	if req.Category != nil {
		tx.Category = *req.Category
	}

	if req.Subcategory != nil {
		tx.Subcategory = *req.Subcategory
	}

	if req.Date != nil {
		tx.Date = *req.Date
	}

	if err := h.svc.Update(r.Context(), tx); err != nil {
		if errors.Is(err, transaction.ErrImmutable) || errors.Is(err, transaction.ErrLinked) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusOK, toResponse(tx))
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status" validate:"oneof=draft committed"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, transaction.ErrNotFound):
			http.Error(w, "transaction not found", http.StatusNotFound)
		case errors.Is(err, transaction.ErrImmutable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type linkRequest struct {
	ObligationRef string `json:"obligation_ref" validate:"required"`
}

// link accepts a proposed or hand-picked obligation for a stored transaction.
func (h *Handler) link(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req linkRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref, err := obligation.ParseRef(req.ObligationRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, settlement, err := h.reconcile.Accept(r.Context(), id, ref)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	payload.JSON(w, http.StatusOK, linkResponse{Transaction: toResponse(tx), Settlement: toSettlement(settlement)})
}

// unlink reopens a transaction's link so it can be matched again.
func (h *Handler) unlink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.reconcile.Reopen(r.Context(), id)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	payload.JSON(w, http.StatusOK, toResponse(tx))
}

func writeLinkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound), errors.Is(err, obligation.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, obligation.ErrAlreadyLinked), errors.Is(err, obligation.ErrNotLinked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, obligation.ErrMismatch), errors.Is(err, obligation.ErrNotSettleable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("updating obligation link", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
