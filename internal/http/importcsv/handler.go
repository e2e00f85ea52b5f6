package importcsv

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	"github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/http/payload"
	httpreconcile "github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	importSvc    *importer.Service
	txSvc        *transaction.Service
	classifySvc  *classification.Service
	reconcileSvc *reconcile.Service
}

func NewHandler(
	importSvc *importer.Service,
	txSvc *transaction.Service,
	classifySvc *classification.Service,
	reconcileSvc *reconcile.Service,
) *Handler {
	return &Handler{
		importSvc:    importSvc,
		txSvc:        txSvc,
		classifySvc:  classifySvc,
		reconcileSvc: reconcileSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/banks", h.banks)
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Company        string             `json:"company"`
	Amount         int64              `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Description    string             `json:"description"`
	RawDescription string             `json:"raw_description,omitempty"`
	Category       string             `json:"category,omitempty"`
	Subcategory    string             `json:"subcategory,omitempty"`
	Date           time.Time          `json:"date"`
	CreatedAt      time.Time          `json:"created_at"`
}

type importedTransaction struct {
	transactionResponse
	Proposal *httpreconcile.ProposalResponse `json:"proposal,omitempty"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []importedTransaction `json:"transactions"`
}

type createParamsDTO struct {
	Company        string           `json:"company" validate:"required"`
	Amount         int64            `json:"amount" validate:"gt=0"`
	Type           transaction.Type `json:"type" validate:"oneof=income expense"`
	Description    string           `json:"description" validate:"required"`
	RawDescription string           `json:"raw_description"`
	Category       string           `json:"category,omitempty"`
	Subcategory    string           `json:"subcategory,omitempty"`
	Date           time.Time        `json:"date" validate:"required"`
}

type conflictDTO struct {
	Incoming createParamsDTO      `json:"incoming"`
	Existing *transactionResponse `json:"existing,omitempty"`
	// OtherRow is set when the incoming row repeats another row of the same file.
	OtherRow *int `json:"other_row,omitempty"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params" validate:"required,min=1,dive"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	payload.JSON(w, http.StatusOK, h.importSvc.Banks())
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(bank, r.FormValue("company"), file)
	if err != nil {
		if errors.Is(err, encoding.ErrNotText) {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	h.classify(r, params)

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			dto := conflictDTO{Incoming: toParamsDTO(c.Incoming)}
			if c.Existing != nil {
				dto.Existing = new(toTxResponse(c.Existing))
			} else {
				dto.OtherRow = new(c.OtherRow)
			}

			resp.Conflicts = append(resp.Conflicts, dto)
		}

		payload.JSON(w, http.StatusConflict, resp)

		return
	}

	payload.JSON(w, http.StatusCreated, h.toSuccessResponse(r, result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := payload.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Company:        p.Company,
			Amount:         p.Amount,
			Type:           p.Type,
			Status:         transaction.StatusDraft,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Category:       p.Category,
			Subcategory:    p.Subcategory,
			Date:           p.Date,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload.JSON(w, http.StatusCreated, h.toSuccessResponse(r, txs))
}

// classify applies learned mappings to the parsed rows. A failed lookup leaves
// the row as the bank wrote it.
func (h *Handler) classify(r *http.Request, params []transaction.CreateParams) {
	for i, p := range params {
		s, err := h.classifySvc.Suggest(r.Context(), p.RawDescription)
		if err != nil {
			slog.Warn("classification lookup failed", "raw_description", p.RawDescription, "error", err)
			continue
		}

		if s.Empty() {
			continue
		}

		if s.Description != "" {
			params[i].Description = s.Description
		}

		if s.Category != "" {
			params[i].Category = s.Category
		}

		if s.Subcategory != "" {
			params[i].Subcategory = s.Subcategory
		}
	}
}

// toSuccessResponse attaches a link proposal to each stored row. The rows are
// already committed, so a matching failure only drops the proposals.
func (h *Handler) toSuccessResponse(r *http.Request, txs []*transaction.Transaction) importSuccessResponse {
	params := make([]transaction.CreateParams, len(txs))
	for i, tx := range txs {
		params[i] = tx.Params()
	}

	proposals, err := h.reconcileSvc.ProposeBatch(r.Context(), params)
	if err != nil {
		slog.Warn("matching imported transactions failed", "count", len(txs), "error", err)
	}

	out := importSuccessResponse{
		Imported:     len(txs),
		Transactions: make([]importedTransaction, 0, len(txs)),
	}

	for i, tx := range txs {
		item := importedTransaction{transactionResponse: toTxResponse(tx)}
		if proposals != nil {
			item.Proposal = new(httpreconcile.ToProposal(proposals[i]))
		}

		out.Transactions = append(out.Transactions, item)
	}

	return out
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Company:        tx.Company,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Status:         tx.Status,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Category:       tx.Category,
		Subcategory:    tx.Subcategory,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Company:        p.Company,
		Amount:         p.Amount,
		Type:           p.Type,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Date:           p.Date,
	}
}
