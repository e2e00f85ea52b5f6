package payload_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/http/payload"
)

type sample struct {
	Company string `json:"company" validate:"required"`
	Amount  int64  `json:"amount" validate:"gt=0"`
	Type    string `json:"type" validate:"oneof=income expense"`
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name    string
		body    string
		wantErr string
	}

	tests := []testCase{
		{name: "Valid", body: `{"company":"LNC","amount":100,"type":"income"}`},
		{name: "MissingCompany", body: `{"amount":100,"type":"income"}`, wantErr: "company is required"},
		{name: "BadType", body: `{"company":"LNC","amount":100,"type":"transfer"}`, wantErr: "type must be one of [income expense]"},
		{name: "ZeroAmount", body: `{"company":"LNC","amount":0,"type":"income"}`, wantErr: "amount must satisfy gt=0"},
		{name: "UnknownField", body: `{"company":"LNC","amount":1,"type":"income","x":1}`, wantErr: "invalid request body"},
		{name: "Malformed", body: `{`, wantErr: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var got sample

			err := payload.Decode(w, r, &got)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, sample{Company: "LNC", Amount: 100, Type: "income"}, got)
		})
	}
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload.JSON(w, 201, map[string]int{"imported": 2})

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"imported":2}`, w.Body.String())
}
