package valueobjects

import (
	"errors"
	"strings"
)

// AssociationKey identifies an association target by category code and term
// code. The two parts are kept separate and never joined into a single
// delimited string, since codes may contain any character.
type AssociationKey struct {
	CategoryCode string `json:"categoryCode"`
	TermCode     string `json:"termCode"`
}

// NewAssociationKey creates a key from trimmed, non-blank codes
func NewAssociationKey(categoryCode, termCode string) (AssociationKey, error) {
	categoryCode = strings.TrimSpace(categoryCode)
	termCode = strings.TrimSpace(termCode)
	if categoryCode == "" {
		return AssociationKey{}, errors.New("association category code cannot be empty")
	}
	if termCode == "" {
		return AssociationKey{}, errors.New("association term code cannot be empty")
	}
	return AssociationKey{CategoryCode: categoryCode, TermCode: termCode}, nil
}

// Equals checks if two keys point at the same term
func (k AssociationKey) Equals(other AssociationKey) bool {
	return k.CategoryCode == other.CategoryCode && k.TermCode == other.TermCode
}

// IsZero checks if the key is the zero value
func (k AssociationKey) IsZero() bool {
	return k.CategoryCode == "" && k.TermCode == ""
}

// String renders the key for logs only; it is not meant to be parsed back.
func (k AssociationKey) String() string {
	return k.CategoryCode + "/" + k.TermCode
}

// TermIdentifier builds the identifier the taxonomy service assigns to a term:
// <frameworkCode>_<categoryCode>_<termCode>.
func TermIdentifier(frameworkCode string, key AssociationKey) string {
	return frameworkCode + "_" + key.CategoryCode + "_" + key.TermCode
}
