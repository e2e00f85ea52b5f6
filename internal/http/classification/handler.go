package classification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	"github.com/MrJamesThe3rd/tally/internal/http/payload"
)

type Handler struct {
	svc *classification.Service
}

func NewHandler(svc *classification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string              `json:"raw_description"`
	PreferredDescription string              `json:"preferred_description,omitempty"`
	Category             string              `json:"category,omitempty"`
	Subcategory          string              `json:"subcategory,omitempty"`
	VATRate              decimal.NullDecimal `json:"vat_rate"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	s, err := h.svc.Suggest(r.Context(), rawDesc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload.JSON(w, http.StatusOK, suggestResponse{
		RawDescription:       rawDesc,
		PreferredDescription: s.Description,
		Category:             s.Category,
		Subcategory:          s.Subcategory,
		VATRate:              s.VATRate,
	})
}

type learnRequest struct {
	RawPattern           string              `json:"raw_pattern" validate:"required"`
	PreferredDescription string              `json:"preferred_description" validate:"required"`
	Category             string              `json:"category"`
	Subcategory          string              `json:"subcategory"`
	VATRate              decimal.NullDecimal `json:"vat_rate"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.svc.Learn(r.Context(), classification.Mapping{
		RawPattern: req.RawPattern,
		Suggestion: classification.Suggestion{
			Description: req.PreferredDescription,
			Category:    req.Category,
			Subcategory: req.Subcategory,
			VATRate:     req.VATRate,
		},
	})
	if err != nil {
		if errors.Is(err, classification.ErrInvalidMapping) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
