package classification_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	httpclass "github.com/MrJamesThe3rd/tally/internal/http/classification"
)

func setup(t *testing.T) (*classification.MockRepository, http.Handler) {
	ctrl := gomock.NewController(t)
	repo := classification.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/classification", httpclass.NewHandler(classification.NewService(repo)).Routes)

	return repo, r
}

func TestSuggest(t *testing.T) {
	repo, h := setup(t)

	repo.EXPECT().
		FindMatch(gomock.Any(), "PAG POS ESSELUNGA 123").
		Return(classification.Suggestion{
			Description: "Esselunga",
			Category:    "groceries",
			VATRate:     decimal.NewNullDecimal(decimal.NewFromInt(10)),
		}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classification/suggest?raw_description=PAG+POS+ESSELUNGA+123", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"raw_description":"PAG POS ESSELUNGA 123","preferred_description":"Esselunga","category":"groceries","vat_rate":"10"}`,
		w.Body.String())
}

func TestSuggest_MissingQuery(t *testing.T) {
	_, h := setup(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classification/suggest", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLearn(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		setupMock func(repo *classification.MockRepository)
		wantCode  int
	}

	tests := []testCase{
		{
			name: "Stored",
			body: `{"raw_pattern":"ESSELUNGA","preferred_description":"Esselunga","category":"groceries","vat_rate":"10"}`,
			setupMock: func(repo *classification.MockRepository) {
				repo.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "MissingDescription",
			body:     `{"raw_pattern":"ESSELUNGA"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "VATOutOfRange",
			body:     `{"raw_pattern":"ESSELUNGA","preferred_description":"Esselunga","vat_rate":"122"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, h := setup(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/classification/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
