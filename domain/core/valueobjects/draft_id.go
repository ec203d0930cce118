package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// DraftID is a value object identifying one in-progress framework draft.
// Wizard sessions are addressed by the ID of the draft they own.
type DraftID struct {
	value string
}

// NewDraftID creates a new random DraftID
func NewDraftID() DraftID {
	return DraftID{value: uuid.New().String()}
}

// NewDraftIDFromString creates a DraftID from an existing string
func NewDraftIDFromString(id string) (DraftID, error) {
	if id == "" {
		return DraftID{}, errors.New("draft ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return DraftID{}, errors.New("draft ID must be a valid UUID")
	}
	return DraftID{value: id}, nil
}

// String returns the string representation of the DraftID
func (id DraftID) String() string {
	return id.value
}

// Equals checks if two DraftIDs are equal
func (id DraftID) Equals(other DraftID) bool {
	return id.value == other.value
}

// IsZero checks if the DraftID is the zero value
func (id DraftID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DraftID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}
