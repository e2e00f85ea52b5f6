package csvbank

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Importo" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Addebiti"/"Accrediti").
	amountSplit
)

// Profile describes the column layout of one bank CSV export format.
type Profile struct {
	Name       string
	DateCol    string
	DateLayout string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

const (
	layoutDash  = "02-01-2006"
	layoutSlash = "02/01/2006"
)

// Each bank's profiles are tried in order; more specific ones come first.
var (
	CGD = []Profile{
		{
			Name:       "cgd cartão",
			DateCol:    "Data",
			DateLayout: layoutDash,
			DescCol:    "Descrição",
			AmountMode: amountSplit,
			DebitCol:   "Débito",
			CreditCol:  "Crédito",
		},
		{
			Name:       "cgd extrato",
			DateCol:    "Data mov.",
			DateLayout: layoutDash,
			DescCol:    "Descrição",
			AmountMode: amountSingle,
			AmountCol:  "Movimento",
		},
		{
			Name:       "cgd conta",
			DateCol:    "Data mov.",
			DateLayout: layoutDash,
			DescCol:    "Descrição",
			AmountMode: amountSingle,
			AmountCol:  "Montante",
		},
	}

	Intesa = []Profile{
		{
			Name:       "intesa movimenti",
			DateCol:    "Data contabile",
			DateLayout: layoutSlash,
			DescCol:    "Descrizione",
			AmountMode: amountSplit,
			DebitCol:   "Addebiti",
			CreditCol:  "Accrediti",
		},
	}

	UniCredit = []Profile{
		{
			Name:       "unicredit lista movimenti",
			DateCol:    "Data Registrazione",
			DateLayout: layoutSlash,
			DescCol:    "Descrizione",
			AmountMode: amountSingle,
			AmountCol:  "Importo (EUR)",
		},
	}

	Fineco = []Profile{
		{
			Name:       "fineco movimenti",
			DateCol:    "Data Operazione",
			DateLayout: layoutSlash,
			DescCol:    "Descrizione Completa",
			AmountMode: amountSplit,
			DebitCol:   "Uscite",
			CreditCol:  "Entrate",
		},
	}
)
