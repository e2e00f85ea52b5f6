package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
)

var secret = []byte("test-secret")

func TestMiddleware(t *testing.T) {
	valid, err := auth.Issue(secret, "dashboard", time.Hour)
	require.NoError(t, err)

	expired, err := auth.Issue(secret, "dashboard", -time.Minute)
	require.NoError(t, err)

	otherKey, err := auth.Issue([]byte("other"), "dashboard", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "dashboard"}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"Valid", "Bearer " + valid, http.StatusOK},
		{"Missing", "", http.StatusUnauthorized},
		{"NotBearer", "Basic " + valid, http.StatusUnauthorized},
		{"Expired", "Bearer " + expired, http.StatusUnauthorized},
		{"WrongKey", "Bearer " + otherKey, http.StatusUnauthorized},
		{"NoExpiry", "Bearer " + noExpiry, http.StatusUnauthorized},
		{"Garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = auth.Subject(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			auth.Middleware(secret)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "dashboard", gotSubject)
			}
		})
	}
}

func TestVerify_MissingToken(t *testing.T) {
	_, err := auth.Verify("Bearer ", secret)
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}
