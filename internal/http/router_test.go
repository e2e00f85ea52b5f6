package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tallyhttp "github.com/MrJamesThe3rd/tally/internal/http"
	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/classification"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/obligation"
	"github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/http/recurrence"
	"github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

func newRouter() http.Handler {
	return newRouterWith(tallyhttp.Options{AllowedOrigins: []string{"https://dashboard.example"}})
}

func newRouterWith(opts tallyhttp.Options) http.Handler {
	return tallyhttp.New(tallyhttp.Handlers{
		Transactions:   transaction.NewHandler(nil, nil),
		Import:         importcsv.NewHandler(nil, nil, nil, nil),
		Classification: classification.NewHandler(nil),
		Obligations:    obligation.NewHandler(nil),
		Reconcile:      reconcile.NewHandler(nil),
		Recurrence:     recurrence.NewHandler(nil),
	}, opts)
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions/", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, "https://dashboard.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RejectsNonJSONBodies(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile/preview", nil)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 1

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_RequiresTokenWhenSecretSet(t *testing.T) {
	secret := []byte("s3cret")
	router := newRouterWith(tallyhttp.Options{JWTSecret: secret})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/import/banks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := auth.Issue(secret, "dashboard", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile/preview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 1

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
