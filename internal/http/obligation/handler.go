package obligation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/payload"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
)

type Handler struct {
	svc *obligation.Service
}

func NewHandler(svc *obligation.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/forecasts", h.createForecasts)
	r.Get("/{collection}/{id}", h.get)
	r.Delete("/{collection}/{id}", h.delete)
}

type obligationResponse struct {
	Ref         string            `json:"ref"`
	Kind        obligation.Kind   `json:"kind"`
	Company     string            `json:"company"`
	Description string            `json:"description"`
	Category    string            `json:"category,omitempty"`
	Subcategory string            `json:"subcategory,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Amount      int64             `json:"amount"`
	Outstanding int64             `json:"outstanding"`
	Status      obligation.Status `json:"status"`
}

func toResponse(o obligation.Obligation) obligationResponse {
	resp := obligationResponse{
		Ref:         o.Ref().String(),
		Kind:        o.Kind,
		Company:     o.Company,
		Description: o.Description,
		Category:    o.Category,
		Subcategory: o.Subcategory,
		Amount:      o.Amount,
		Outstanding: o.Outstanding,
		Status:      o.Status,
	}

	if !o.DueDate.IsZero() {
		resp.DueDate = new(o.DueDate)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := obligation.Filter{}

	if s := q.Get("company"); s != "" {
		filter.Company = new(s)
	}

	for _, s := range q["kind"] {
		kind := obligation.Kind(s)
		if kind.Collection() == "" {
			http.Error(w, "unknown kind: "+s, http.StatusBadRequest)
			return
		}

		filter.Kinds = append(filter.Kinds, kind)
	}

	if s := q.Get("open"); s != "" {
		open, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "open must be a boolean", http.StatusBadRequest)
			return
		}

		filter.OpenOnly = open
	}

	obligations, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]obligationResponse, len(obligations))
	for i, o := range obligations {
		resp[i] = toResponse(o)
	}

	payload.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ref, err := refParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), ref)
	if err != nil {
		if errors.Is(err, obligation.ErrNotFound) {
			http.Error(w, "obligation not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	payload.JSON(w, http.StatusOK, toResponse(o))
}

// delete removes the obligation and clears the reference on any transaction
// that settled it.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ref, err := refParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), ref); err != nil {
		if errors.Is(err, obligation.ErrNotFound) {
			http.Error(w, "obligation not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type forecastRequest struct {
	Kind        obligation.Kind `json:"kind" validate:"oneof=expense_forecast income_forecast"`
	Company     string          `json:"company" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Date        time.Time       `json:"date" validate:"required"`
	Amount      int64           `json:"amount" validate:"gt=0"`
	Estimated   bool            `json:"estimated"`
}

type createForecastsRequest struct {
	Forecasts []forecastRequest `json:"forecasts" validate:"required,min=1,dive"`
}

type duplicateResponse struct {
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	DuplicateOf string    `json:"duplicate_of"`
}

type createForecastsResponse struct {
	Created    []string            `json:"created"`
	Duplicates []duplicateResponse `json:"duplicates"`
}

// createForecasts stores hand-entered forecasts, skipping any that repeat an
// existing obligation.
func (h *Handler) createForecasts(w http.ResponseWriter, r *http.Request) {
	var req createForecastsRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drafts := make([]obligation.Draft, len(req.Forecasts))
	for i, f := range req.Forecasts {
		drafts[i] = obligation.Draft{
			Kind:        f.Kind,
			Company:     f.Company,
			Description: f.Description,
			Category:    f.Category,
			Subcategory: f.Subcategory,
			Date:        f.Date,
			Amount:      f.Amount,
			Estimated:   f.Estimated,
		}
	}

	result, err := h.svc.CommitDrafts(r.Context(), drafts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := createForecastsResponse{
		Created:    make([]string, len(result.Created)),
		Duplicates: make([]duplicateResponse, len(result.Duplicates)),
	}

	for i, ref := range result.Created {
		resp.Created[i] = ref.String()
	}

	for i, d := range result.Duplicates {
		resp.Duplicates[i] = duplicateResponse{
			Description: d.Draft.Description,
			Date:        d.Draft.Date,
			DuplicateOf: d.DuplicateOf,
		}
	}

	payload.JSON(w, http.StatusCreated, resp)
}

func refParam(r *http.Request) (obligation.Ref, error) {
	kind, ok := obligation.KindOf(chi.URLParam(r, "collection"))
	if !ok {
		return obligation.Ref{}, obligation.ErrInvalidRef
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return obligation.Ref{}, obligation.ErrInvalidRef
	}

	return obligation.Ref{Kind: kind, ID: id}, nil
}
