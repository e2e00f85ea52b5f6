package csvbank_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/tally/internal/importer/csvbank"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type wantRow struct {
	date   time.Time
	desc   string
	amount int64
	typ    transaction.Type
}

func TestParser_Formats(t *testing.T) {
	type testCase struct {
		name     string
		bank     string
		profiles []csvbank.Profile
		csv      string
		want     []wantRow
	}

	tests := []testCase{
		{
			name:     "IntesaMovimenti",
			bank:     "intesa",
			profiles: csvbank.Intesa,
			csv: `Lista movimenti
Conto;IT60X0542811101000000123456

Data contabile;Data valuta;Descrizione;Accrediti;Addebiti;Descrizione estesa
03/03/2025;03/03/2025;Bonifico a vostro favore;1.250,00;;Disposto da CLIENTE SPA
10/03/2025;10/03/2025;Pagamento fattura Alfa;;-500,00;Bonifico SEPA a ALFA SRL
`,
			want: []wantRow{
				{date(2025, 3, 3), "Bonifico a vostro favore", 125000, transaction.TypeIncome},
				{date(2025, 3, 10), "Pagamento fattura Alfa", 50000, transaction.TypeExpense},
			},
		},
		{
			name:     "UniCreditSignedAmounts",
			bank:     "unicredit",
			profiles: csvbank.UniCredit,
			csv: `Data Registrazione;Data valuta;Descrizione;Importo (EUR)
16/01/2025;16/01/2025;ADDEBITO SDD ENEL ENERGIA;-84,20
31/01/2025;31/01/2025;ACCREDITO STIPENDIO;2.100,00 EUR
`,
			want: []wantRow{
				{date(2025, 1, 16), "ADDEBITO SDD ENEL ENERGIA", 8420, transaction.TypeExpense},
				{date(2025, 1, 31), "ACCREDITO STIPENDIO", 210000, transaction.TypeIncome},
			},
		},
		{
			name:     "FinecoColumnOrder",
			bank:     "fineco",
			profiles: csvbank.Fineco,
			csv: `Data Operazione;Data Valuta;Entrate;Uscite;Descrizione;Descrizione Completa
05/02/2025;05/02/2025;;35,00;Pagobancomat;Pagamento POS CAFFE ROMA
`,
			want: []wantRow{
				{date(2025, 2, 5), "Pagamento POS CAFFE ROMA", 3500, transaction.TypeExpense},
			},
		},
		{
			name:     "CGDConta",
			bank:     "cgd",
			profiles: csvbank.CGD,
			csv: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`,
			want: []wantRow{
				{date(2026, 1, 30), "INSTITUTO GESTAO FINA", 58874, transaction.TypeExpense},
				{date(2026, 1, 9), "TFI Wise", 860852, transaction.TypeIncome},
			},
		},
		{
			name:     "CGDCartao",
			bank:     "cgd",
			profiles: csvbank.CGD,
			csv: `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`,
			want: []wantRow{
				{date(2025, 12, 16), "PA GONDOMAR", 6400, transaction.TypeExpense},
				{date(2025, 12, 31), "REFUND AMAZON", 2500, transaction.TypeIncome},
			},
		},
		{
			name:     "SkipsFooterRows",
			bank:     "unicredit",
			profiles: csvbank.UniCredit,
			csv: `Data Registrazione;Data valuta;Descrizione;Importo (EUR)
16/01/2025;16/01/2025;TEST;-10,00
Saldo finale;;;1.000,00
`,
			want: []wantRow{
				{date(2025, 1, 16), "TEST", 1000, transaction.TypeExpense},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := csvbank.NewParser(tt.bank, tt.profiles).Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			require.Len(t, txs, len(tt.want))

			for i, w := range tt.want {
				assert.Equal(t, w.date, txs[i].Date)
				assert.Equal(t, w.desc, txs[i].Description)
				assert.Equal(t, w.desc, txs[i].RawDescription)
				assert.Equal(t, w.amount, txs[i].Amount)
				assert.Equal(t, w.typ, txs[i].Type)
				assert.Equal(t, transaction.StatusDraft, txs[i].Status)
			}
		})
	}
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Data Registrazione;Descrizione;Importo (EUR)\n30/01/2026;CAFFÈ SOCIETÀ;-10,00\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	txs, err := csvbank.NewParser("unicredit", csvbank.UniCredit).Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFFÈ SOCIETÀ", txs[0].RawDescription)
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantMsg string
	}

	tests := []testCase{
		{name: "EmptyFile", csv: "", wantMsg: "no matching intesa format"},
		{name: "OtherBankExport", csv: "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n", wantMsg: "no matching intesa format"},
		{
			name:    "MissingDescription",
			csv:     "Data contabile;Descrizione;Accrediti;Addebiti\n03/03/2025;;;-10,00\n",
			wantMsg: "row 2: missing description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvbank.NewParser("intesa", csvbank.Intesa).Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParser_HeaderOnly(t *testing.T) {
	txs, err := csvbank.NewParser("unicredit", csvbank.UniCredit).
		Parse(strings.NewReader("Data Registrazione;Data valuta;Descrizione;Importo (EUR)"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParser_LargeAmounts(t *testing.T) {
	csv := "Data Registrazione;Descrizione;Importo (EUR)\n30/01/2026;BIG TRANSFER;-1.234.567,89\n"

	txs, err := csvbank.NewParser("unicredit", csvbank.UniCredit).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, int64(123456789), txs[0].Amount)
}
