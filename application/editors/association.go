package editors

import (
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/domain/core/valueobjects"
	"taxonomy-console/domain/wizard"
	"taxonomy-console/pkg/errors"
)

// Candidate is a term the selected source term can be associated with
type Candidate struct {
	Key          valueobjects.AssociationKey `json:"key"`
	CategoryName string                      `json:"categoryName"`
	TermName     string                      `json:"termName"`
	Selected     bool                        `json:"selected"`
}

// AssociationEditor toggles the associations of one source term against the
// terms of every other category, then saves the result wholesale
type AssociationEditor struct {
	validator *validators.DraftValidator
}

// NewAssociationEditor creates an association editor
func NewAssociationEditor(validator *validators.DraftValidator) *AssociationEditor {
	return &AssociationEditor{validator: validator}
}

// SelectCategory picks the source category. The term selection and the
// toggle buffer are cleared.
func (e *AssociationEditor) SelectCategory(draft *aggregates.Draft, state *wizard.AssociationState, categoryIndex int) error {
	if _, err := draft.Category(categoryIndex); err != nil {
		return err
	}
	state.Reset()
	state.CategoryIndex = categoryIndex
	return nil
}

// SelectTerm picks the source term inside the selected category and loads its
// saved associations into the buffer, dropping anything left from a
// previous source term
func (e *AssociationEditor) SelectTerm(draft *aggregates.Draft, state *wizard.AssociationState, termIndex int) error {
	if !state.HasCategory() {
		return errors.ErrNoSourceSelected
	}
	term, err := draft.Term(state.CategoryIndex, termIndex)
	if err != nil {
		return err
	}

	state.TermIndex = termIndex
	state.Buffer = make([]valueobjects.AssociationKey, 0, len(term.AssociationsWith))
	for _, ref := range term.AssociationsWith {
		state.Buffer = append(state.Buffer, ref.Key())
	}
	return nil
}

// Candidates lists the terms of every category other than the source
// category, in category then term order. Without a source category the list is empty.
func (e *AssociationEditor) Candidates(draft *aggregates.Draft, state *wizard.AssociationState) []Candidate {
	if !state.HasCategory() {
		return []Candidate{}
	}
	categories := draft.Categories()
	if state.CategoryIndex >= len(categories) {
		return []Candidate{}
	}

	out := make([]Candidate, 0)
	for ci, c := range categories {
		if ci == state.CategoryIndex || c.Code == categories[state.CategoryIndex].Code {
			continue
		}
		for _, t := range c.Terms {
			key := valueobjects.AssociationKey{CategoryCode: c.Code, TermCode: t.Code}
			out = append(out, Candidate{
				Key:          key,
				CategoryName: c.Name,
				TermName:     t.Name,
				Selected:     state.HasTerm() && state.IndexOf(key) >= 0,
			})
		}
	}
	return out
}

// Toggle adds key to the buffer when absent and removes it when present.
// It reports whether key is selected afterwards.
func (e *AssociationEditor) Toggle(draft *aggregates.Draft, state *wizard.AssociationState, key valueobjects.AssociationKey) (bool, error) {
	if !state.HasTerm() {
		return false, errors.ErrNoSourceSelected
	}
	candidates := e.Candidates(draft, state)
	if len(candidates) == 0 {
		return false, errors.ErrNoCandidates
	}
	if !containsKey(candidates, key) {
		return false, errors.UnknownCandidate(key.CategoryCode, key.TermCode)
	}

	if i := state.IndexOf(key); i >= 0 {
		state.Buffer = append(state.Buffer[:i:i], state.Buffer[i+1:]...)
		return false, nil
	}
	state.Buffer = append(state.Buffer, key)
	return true, nil
}

// Save replaces the source term's associations with the buffer
func (e *AssociationEditor) Save(draft *aggregates.Draft, state *wizard.AssociationState) error {
	if !state.HasTerm() {
		return errors.ErrNoSourceSelected
	}
	if err := e.validator.ValidateAssociationCount(len(state.Buffer)); err != nil {
		return err
	}

	frameworkCode := draft.Framework().Code
	refs := make([]entities.AssociationRef, 0, len(state.Buffer))
	for _, key := range state.Buffer {
		refs = append(refs, entities.AssociationRef{
			Category:                 key.CategoryCode,
			Code:                     key.TermCode,
			AssociatedTermIdentifier: valueobjects.TermIdentifier(frameworkCode, key),
		})
	}
	return draft.SetTermAssociations(state.CategoryIndex, state.TermIndex, refs)
}

func containsKey(candidates []Candidate, key valueobjects.AssociationKey) bool {
	for _, c := range candidates {
		if c.Key.Equals(key) {
			return true
		}
	}
	return false
}
