package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssociationKey(t *testing.T) {
	tests := []struct {
		name     string
		category string
		term     string
		want     AssociationKey
		wantErr  string
	}{
		{
			name:     "trims codes",
			category: " board ",
			term:     "cbse\t",
			want:     AssociationKey{CategoryCode: "board", TermCode: "cbse"},
		},
		{
			name:     "codes containing separators stay intact",
			category: "grade:level",
			term:     "class_1/2",
			want:     AssociationKey{CategoryCode: "grade:level", TermCode: "class_1/2"},
		},
		{
			name:    "blank category",
			term:    "cbse",
			wantErr: "association category code cannot be empty",
		},
		{
			name:     "blank term",
			category: "board",
			term:     "   ",
			wantErr:  "association term code cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewAssociationKey(tt.category, tt.term)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				assert.True(t, key.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
			assert.True(t, key.Equals(tt.want))
		})
	}
}

func TestTermIdentifier(t *testing.T) {
	key := AssociationKey{CategoryCode: "subject", TermCode: "geometry"}
	assert.Equal(t, "math_fw_subject_geometry", TermIdentifier("math_fw", key))
}

func TestDraftID(t *testing.T) {
	id := NewDraftID()
	assert.False(t, id.IsZero())

	parsed, err := NewDraftIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))

	_, err = NewDraftIDFromString("")
	assert.EqualError(t, err, "draft ID cannot be empty")
	_, err = NewDraftIDFromString("not-a-uuid")
	assert.EqualError(t, err, "draft ID must be a valid UUID")

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	_, err = uuid.Parse(s)
	assert.NoError(t, err)
}
