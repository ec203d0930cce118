package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "taxonomy-console/pkg/errors"
)

type sampleRequest struct {
	Name   string   `json:"name" validate:"required,max=10"`
	Status []string `json:"status" validate:"dive,oneof=Draft Live"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     sampleRequest
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid",
			input: sampleRequest{Name: "math", Status: []string{"Draft"}},
		},
		{
			name:      "missing name",
			input:     sampleRequest{},
			wantField: "name",
			wantMsg:   "name is required",
		},
		{
			name:      "name too long",
			input:     sampleRequest{Name: "mathematics-framework"},
			wantField: "name",
			wantMsg:   "name must be at most 10 characters",
		},
		{
			name:      "bad status",
			input:     sampleRequest{Name: "math", Status: []string{"Retired"}},
			wantField: "status[0]",
			wantMsg:   "status[0] must be one of: Draft Live",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs *appErrors.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, []string{tt.wantMsg}, verrs.ToMap()[tt.wantField])
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input  string
		want   time.Time
		wantOK bool
	}{
		{"2024-03-01T10:15:30.123+0000", time.Date(2024, 3, 1, 10, 15, 30, 123000000, time.UTC), true},
		{"2024-03-01T10:15:30Z", time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC), true},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got))
		})
	}
}
