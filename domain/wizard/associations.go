package wizard

import "taxonomy-console/domain/core/valueobjects"

// AssociationState is the association editor's working state: the selected
// source term and the unsaved toggle buffer for it.
type AssociationState struct {
	CategoryIndex int                           `json:"categoryIndex"`
	TermIndex     int                           `json:"termIndex"`
	Buffer        []valueobjects.AssociationKey `json:"buffer"`
}

// NewAssociationState creates a state with nothing selected
func NewAssociationState() *AssociationState {
	s := &AssociationState{}
	s.Reset()
	return s
}

// Reset clears the selection and the buffer
func (s *AssociationState) Reset() {
	s.CategoryIndex = -1
	s.TermIndex = -1
	s.Buffer = []valueobjects.AssociationKey{}
}

// HasCategory reports whether a source category is selected
func (s *AssociationState) HasCategory() bool {
	return s.CategoryIndex >= 0
}

// HasTerm reports whether a source term is selected
func (s *AssociationState) HasTerm() bool {
	return s.HasCategory() && s.TermIndex >= 0
}

// IndexOf returns the buffer position of key, or -1
func (s *AssociationState) IndexOf(key valueobjects.AssociationKey) int {
	for i, k := range s.Buffer {
		if k.Equals(key) {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares nothing with s
func (s *AssociationState) Clone() *AssociationState {
	c := *s
	c.Buffer = append([]valueobjects.AssociationKey{}, s.Buffer...)
	return &c
}
