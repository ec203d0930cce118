package editors

import (
	"strings"

	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
)

// TermEditor adds terms to categories
type TermEditor struct {
	validator *validators.DraftValidator
}

// NewTermEditor creates a term editor
func NewTermEditor(validator *validators.DraftValidator) *TermEditor {
	return &TermEditor{validator: validator}
}

// Add validates a candidate and appends it to the category at categoryIndex
func (e *TermEditor) Add(draft *aggregates.Draft, categoryIndex int, candidate entities.Term) error {
	term := entities.Term{
		Name:             strings.TrimSpace(candidate.Name),
		Code:             strings.TrimSpace(candidate.Code),
		Description:      strings.TrimSpace(candidate.Description),
		AssociationsWith: []entities.AssociationRef{},
	}
	if err := e.validator.ValidateTerm(draft, categoryIndex, term); err != nil {
		return err
	}
	return draft.AddTermToCategory(categoryIndex, term)
}
