package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/importer/csvbank"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Bank identifies a supported statement layout.
type Bank string

const (
	BankCGD       Bank = "cgd"
	BankIntesa    Bank = "intesa"
	BankUniCredit Bank = "unicredit"
	BankFineco    Bank = "fineco"
)

// Importer turns a bank statement into draft transactions.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

var (
	ErrUnknownBank    = errors.New("unknown bank")
	ErrMissingCompany = errors.New("company is required")
)

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankCGD:       csvbank.NewParser(string(BankCGD), csvbank.CGD),
			BankIntesa:    csvbank.NewParser(string(BankIntesa), csvbank.Intesa),
			BankUniCredit: csvbank.NewParser(string(BankUniCredit), csvbank.UniCredit),
			BankFineco:    csvbank.NewParser(string(BankFineco), csvbank.Fineco),
		},
	}
}

// Import parses a statement from bank and attributes every row to company.
func (s *Service) Import(bank Bank, company string, r io.Reader) ([]transaction.CreateParams, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, ErrMissingCompany
	}

	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].Company = company
	}

	return params, nil
}

// Banks lists the supported banks in a stable order.
func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.importers))
	for b := range s.importers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}
