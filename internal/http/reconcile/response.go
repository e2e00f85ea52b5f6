package reconcile

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// maxCandidates caps how many ranked obligations a response lists.
const maxCandidates = 5

type DecisionResponse struct {
	State           reconcile.State `json:"state"`
	ObligationRef   string          `json:"obligation_ref,omitempty"`
	Score           *float64        `json:"score,omitempty"`
	OverduePriority bool            `json:"overdue_priority,omitempty"`
}

type CandidateResponse struct {
	ObligationRef string              `json:"obligation_ref"`
	Kind          obligation.Kind     `json:"kind"`
	Description   string              `json:"description"`
	DueDate       time.Time           `json:"due_date"`
	Outstanding   int64               `json:"outstanding"`
	Status        obligation.Status   `json:"status"`
	Score         float64             `json:"score"`
	Breakdown     reconcile.Breakdown `json:"breakdown"`
}

type ProposalResponse struct {
	Decision   DecisionResponse    `json:"decision"`
	Candidates []CandidateResponse `json:"candidates"`
}

func ToDecision(d reconcile.Decision) DecisionResponse {
	resp := DecisionResponse{State: d.State, OverduePriority: d.OverduePriority}

	if d.Ref != nil {
		resp.ObligationRef = d.Ref.String()
	}

	if d.Candidate != nil {
		resp.Score = new(d.Candidate.Score)
	}

	return resp
}

func ToProposal(p reconcile.Proposal) ProposalResponse {
	candidates := p.Candidates[:min(len(p.Candidates), maxCandidates)]

	resp := ProposalResponse{
		Decision:   ToDecision(p.Decision),
		Candidates: make([]CandidateResponse, len(candidates)),
	}

	for i, c := range candidates {
		resp.Candidates[i] = CandidateResponse{
			ObligationRef: c.Ref().String(),
			Kind:          c.Obligation.Kind,
			Description:   c.Obligation.Description,
			DueDate:       c.Obligation.DueDate,
			Outstanding:   c.Obligation.Outstanding,
			Status:        c.Obligation.Status,
			Score:         c.Score,
			Breakdown:     c.Breakdown,
		}
	}

	return resp
}

// DraftRequest is a transaction as typed so far. Description may still be empty.
type DraftRequest struct {
	Company       string           `json:"company" validate:"required"`
	Amount        int64            `json:"amount" validate:"gte=0"`
	Type          transaction.Type `json:"type" validate:"oneof=income expense"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory"`
	Date          time.Time        `json:"date" validate:"required"`
	ObligationRef string           `json:"obligation_ref,omitempty"`
}

func (d DraftRequest) Params() transaction.CreateParams {
	return transaction.CreateParams{
		Company:     d.Company,
		Amount:      d.Amount,
		Type:        d.Type,
		Description: d.Description,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Date:        d.Date,
	}
}

// ParseChoice parses an explicitly chosen obligation reference; empty means none.
func ParseChoice(s string) (*obligation.Ref, error) {
	if s == "" {
		return nil, nil
	}

	ref, err := obligation.ParseRef(s)
	if err != nil {
		return nil, err
	}

	return &ref, nil
}
