package classification_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/classification"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := classification.Suggestion{
		Description: "Enel energia",
		Category:    "utilities",
		Subcategory: "electricity",
		VATRate:     decimal.NewNullDecimal(decimal.NewFromInt(22)),
	}

	repo := classification.NewMockRepository(ctrl)
	repo.EXPECT().FindMatch(gomock.Any(), "ADDEBITO SDD ENEL ENERGIA").Return(want, nil)

	got, err := classification.NewService(repo).Suggest(context.Background(), "  ADDEBITO SDD ENEL ENERGIA ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, got.Empty())
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name    string
		mapping classification.Mapping
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Valid",
			mapping: classification.Mapping{
				RawPattern: " ENEL ",
				Suggestion: classification.Suggestion{
					Description: "Enel energia",
					VATRate:     decimal.NewNullDecimal(decimal.RequireFromString("22")),
				},
			},
		},
		{
			name:    "MissingPattern",
			mapping: classification.Mapping{Suggestion: classification.Suggestion{Description: "Enel energia"}},
			wantErr: true,
		},
		{
			name:    "MissingDescription",
			mapping: classification.Mapping{RawPattern: "ENEL"},
			wantErr: true,
		},
		{
			name: "VATOutOfRange",
			mapping: classification.Mapping{
				RawPattern: "ENEL",
				Suggestion: classification.Suggestion{
					Description: "Enel energia",
					VATRate:     decimal.NewNullDecimal(decimal.RequireFromString("122.5")),
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := classification.NewMockRepository(ctrl)
			if !tt.wantErr {
				repo.EXPECT().
					CreateMapping(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m classification.Mapping) error {
						assert.Equal(t, "ENEL", m.RawPattern)
						return nil
					})
			}

			err := classification.NewService(repo).Learn(context.Background(), tt.mapping)
			if tt.wantErr {
				assert.ErrorIs(t, err, classification.ErrInvalidMapping)
				return
			}

			assert.NoError(t, err)
		})
	}
}
