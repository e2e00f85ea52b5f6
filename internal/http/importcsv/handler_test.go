package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const statement = `Data Registrazione;Data valuta;Descrizione;Importo (EUR)
16/01/2025;16/01/2025;ADDEBITO SDD ENEL ENERGIA;-84,20
31/01/2025;31/01/2025;ACCREDITO CLIENTE;2.100,00
`

type fixture struct {
	txRepo   *transaction.MockRepository
	importTx *transaction.MockImportTx
	mappings *classification.MockRepository
	source   *reconcile.MockObligationSource
	handler  http.Handler
}

func setup(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		txRepo:   transaction.NewMockRepository(ctrl),
		importTx: transaction.NewMockImportTx(ctrl),
		mappings: classification.NewMockRepository(ctrl),
		source:   reconcile.NewMockObligationSource(ctrl),
	}

	reconcileSvc := reconcile.NewService(
		f.source,
		reconcile.NewMockLinker(ctrl),
		reconcile.NewMockTransactionGetter(ctrl),
		reconcile.DefaultWeights(),
		reconcile.DefaultThresholds(),
	)

	h := importcsv.NewHandler(
		importer.NewService(),
		transaction.NewService(f.txRepo),
		classification.NewService(f.mappings),
		reconcileSvc,
	)

	r := chi.NewRouter()
	r.Route("/import", h.Routes)
	f.handler = r

	return f
}

func upload(t *testing.T, h http.Handler, bank, company, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("bank", bank))
	require.NoError(t, mw.WriteField("company", company))

	part, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestImport_ClassifiesAndProposes(t *testing.T) {
	f := setup(t)

	f.mappings.EXPECT().
		FindMatch(gomock.Any(), "ADDEBITO SDD ENEL ENERGIA").
		Return(classification.Suggestion{Description: "Enel luce", Category: "utilities"}, nil)
	f.mappings.EXPECT().
		FindMatch(gomock.Any(), "ACCREDITO CLIENTE").
		Return(classification.Suggestion{}, nil)

	f.txRepo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.importTx, nil)
	f.importTx.EXPECT().ListExisting(gomock.Any()).Return(nil, nil)
	f.importTx.EXPECT().
		CreateTransactions(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			for _, tx := range txs {
				tx.ID = uuid.New()
			}

			return nil
		})
	f.importTx.EXPECT().Commit().Return(nil)
	f.importTx.EXPECT().Rollback().Return(nil).AnyTimes()

	f.source.EXPECT().ListOpen(gomock.Any(), "LNC", gomock.Any()).Return(nil, nil).Times(2)

	w := upload(t, f.handler, "unicredit", "LNC", statement)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got struct {
		Imported     int `json:"imported"`
		Transactions []struct {
			Company     string `json:"company"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Proposal    *struct {
				Decision struct {
					State reconcile.State `json:"state"`
				} `json:"decision"`
			} `json:"proposal"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, 2, got.Imported)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "Enel luce", got.Transactions[0].Description)
	assert.Equal(t, "utilities", got.Transactions[0].Category)
	assert.Equal(t, "ACCREDITO CLIENTE", got.Transactions[1].Description)

	for _, tx := range got.Transactions {
		assert.Equal(t, "LNC", tx.Company)
		require.NotNil(t, tx.Proposal)
		assert.Equal(t, reconcile.StateUnlinked, tx.Proposal.Decision.State)
	}
}

func TestImport_Conflicts(t *testing.T) {
	f := setup(t)

	f.mappings.EXPECT().FindMatch(gomock.Any(), gomock.Any()).Return(classification.Suggestion{}, nil).Times(2)

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		Company:     "LNC",
		Amount:      8420,
		Type:        transaction.TypeExpense,
		Description: "ADDEBITO SDD ENEL ENERGIA",
		Date:        time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
	}

	f.txRepo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(f.importTx, nil)
	f.importTx.EXPECT().ListExisting(gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
	f.importTx.EXPECT().Rollback().Return(nil)

	w := upload(t, f.handler, "unicredit", "LNC", statement)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var got struct {
		New       []json.RawMessage `json:"new"`
		Conflicts []struct {
			Existing *struct {
				ID uuid.UUID `json:"id"`
			} `json:"existing"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Len(t, got.New, 1)
	require.Len(t, got.Conflicts, 1)
	require.NotNil(t, got.Conflicts[0].Existing)
	assert.Equal(t, existing.ID, got.Conflicts[0].Existing.ID)
}

func TestImport_BadInput(t *testing.T) {
	type testCase struct {
		name     string
		bank     string
		company  string
		content  string
		wantCode int
	}

	tests := []testCase{
		{name: "UnknownBank", bank: "bpm", company: "LNC", content: statement, wantCode: http.StatusBadRequest},
		{name: "MissingCompany", bank: "unicredit", company: "", content: statement, wantCode: http.StatusBadRequest},
		{name: "WrongFormat", bank: "fineco", company: "LNC", content: statement, wantCode: http.StatusBadRequest},
		{name: "NotText", bank: "unicredit", company: "LNC", content: "%PDF-1.7\n%\xe2\xe3\xcf\xd3\n", wantCode: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			w := upload(t, f.handler, tt.bank, tt.company, tt.content)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestConfirm_RejectsInvalidRows(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/import/confirm",
		bytes.NewBufferString(`{"params":[{"company":"LNC","amount":0,"type":"expense","description":"x","date":"2025-01-16T00:00:00Z"}]}`))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "amount")
}

func TestBanks(t *testing.T) {
	f := setup(t)

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/import/banks", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["cgd","fineco","intesa","unicredit"]`, w.Body.String())
}
