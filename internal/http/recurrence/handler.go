package recurrence

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/payload"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/recurrence"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc *recurrence.Service
	now func() time.Time
}

func NewHandler(svc *recurrence.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/accept-pending", h.acceptPending)
	r.Get("/{id}", h.get)
	r.Get("/{id}/preview", h.preview)
	r.Post("/{id}/accept", h.accept)
	r.Post("/{id}/reject", h.reject)
}

type patternResponse struct {
	ID           uuid.UUID           `json:"id"`
	Company      string              `json:"company"`
	Description  string              `json:"description"`
	Amount       int64               `json:"amount"`
	Variable     bool                `json:"variable"`
	Type         transaction.Type    `json:"type"`
	Interval     recurrence.Interval `json:"interval"`
	EstimatedDay int                 `json:"estimated_day"`
	AnchorMonth  int                 `json:"anchor_month"`
	Category     string              `json:"category,omitempty"`
	Subcategory  string              `json:"subcategory,omitempty"`
	SourceIDs    []uuid.UUID         `json:"source_ids,omitempty"`
	Status       recurrence.Status   `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

func toResponse(p *recurrence.Pattern) patternResponse {
	return patternResponse{
		ID:           p.ID,
		Company:      p.Company,
		Description:  p.Description,
		Amount:       p.Amount,
		Variable:     p.Variable,
		Type:         p.Type,
		Interval:     p.Interval,
		EstimatedDay: p.EstimatedDay,
		AnchorMonth:  int(p.AnchorMonth),
		Category:     p.Category,
		Subcategory:  p.Subcategory,
		SourceIDs:    p.SourceIDs,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
}

type draftResponse struct {
	Kind        obligation.Kind `json:"kind"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Amount      int64           `json:"amount"`
	Estimated   bool            `json:"estimated"`
}

type acceptResponse struct {
	Pattern    patternResponse `json:"pattern"`
	Created    []string        `json:"created"`
	Duplicates []draftResponse `json:"duplicates"`
}

type failureResponse struct {
	PatternID uuid.UUID `json:"pattern_id"`
	Error     string    `json:"error"`
}

type runResponse struct {
	Accepted []acceptResponse  `json:"accepted"`
	Failed   []failureResponse `json:"failed"`
}

func toAcceptResponse(res *recurrence.AcceptResult) acceptResponse {
	resp := acceptResponse{
		Pattern:    toResponse(res.Pattern),
		Created:    make([]string, len(res.Created)),
		Duplicates: make([]draftResponse, len(res.Duplicates)),
	}

	for i, ref := range res.Created {
		resp.Created[i] = ref.String()
	}

	for i, d := range res.Duplicates {
		resp.Duplicates[i] = toDraft(d.Draft)
	}

	return resp
}

func toDraft(d obligation.Draft) draftResponse {
	return draftResponse{
		Kind:        d.Kind,
		Description: d.Description,
		Date:        d.Date,
		Amount:      d.Amount,
		Estimated:   d.Estimated,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var status *recurrence.Status
	if s := r.URL.Query().Get("status"); s != "" {
		status = new(recurrence.Status(s))
	}

	patterns, err := h.svc.List(r.Context(), status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]patternResponse, len(patterns))
	for i, p := range patterns {
		resp[i] = toResponse(p)
	}

	payload.JSON(w, http.StatusOK, resp)
}

type createPatternRequest struct {
	Company      string              `json:"company" validate:"required"`
	Description  string              `json:"description" validate:"required"`
	Amount       int64               `json:"amount" validate:"gt=0"`
	Variable     bool                `json:"variable"`
	Type         transaction.Type    `json:"type" validate:"oneof=income expense"`
	Interval     recurrence.Interval `json:"interval" validate:"oneof=monthly bimonthly quarterly four_monthly semiannual annual"`
	EstimatedDay int                 `json:"estimated_day" validate:"gte=0,lte=31"`
	AnchorMonth  int                 `json:"anchor_month" validate:"gte=1,lte=12"`
	Category     string              `json:"category"`
	Subcategory  string              `json:"subcategory"`
	SourceIDs    []uuid.UUID         `json:"source_ids"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPatternRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := &recurrence.Pattern{
		Company:      req.Company,
		Description:  req.Description,
		Amount:       req.Amount,
		Variable:     req.Variable,
		Type:         req.Type,
		Interval:     req.Interval,
		EstimatedDay: req.EstimatedDay,
		AnchorMonth:  time.Month(req.AnchorMonth),
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		SourceIDs:    req.SourceIDs,
	}

	if err := h.svc.Create(r.Context(), p); err != nil {
		if errors.Is(err, recurrence.ErrUnknownInterval) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	payload.JSON(w, http.StatusOK, toResponse(p))
}

// preview shows the forecasts accepting the pattern would create, without storing them.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	year := h.now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			http.Error(w, "year must be a number", http.StatusBadRequest)
			return
		}
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	drafts, err := recurrence.Expand(*p, year)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]draftResponse, len(drafts))
	for i, d := range drafts {
		resp[i] = toDraft(d)
	}

	payload.JSON(w, http.StatusOK, resp)
}

type yearRequest struct {
	Year int `json:"year" validate:"omitempty,gte=1900,lte=9999"`
}

// decodeYear reads an optional {"year": N} body; the current year is the default.
func (h *Handler) decodeYear(w http.ResponseWriter, r *http.Request) (int, error) {
	var req yearRequest

	if r.ContentLength != 0 {
		if err := payload.Decode(w, r, &req); err != nil {
			return 0, err
		}
	}

	if req.Year == 0 {
		return h.now().Year(), nil
	}

	return req.Year, nil
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	year, err := h.decodeYear(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Accept(r.Context(), id, year)
	if err != nil {
		writeError(w, err)
		return
	}

	payload.JSON(w, http.StatusOK, toAcceptResponse(res))
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Reject(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) acceptPending(w http.ResponseWriter, r *http.Request) {
	year, err := h.decodeYear(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.AcceptPending(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := runResponse{
		Accepted: make([]acceptResponse, len(res.Accepted)),
		Failed:   make([]failureResponse, len(res.Failed)),
	}

	for i, a := range res.Accepted {
		resp.Accepted[i] = toAcceptResponse(a)
	}

	for i, f := range res.Failed {
		resp.Failed[i] = failureResponse{PatternID: f.Pattern.ID, Error: f.Err.Error()}
	}

	payload.JSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recurrence.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, recurrence.ErrNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, recurrence.ErrUnknownInterval), errors.Is(err, recurrence.ErrInvalidPattern):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
