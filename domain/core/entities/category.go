package entities

import "taxonomy-console/domain/core/valueobjects"

// Category is a named grouping of terms owned by a framework draft
type Category struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Terms       []Term `json:"terms"`
}

// Term is a leaf value inside a category
type Term struct {
	Name             string           `json:"name"`
	Code             string           `json:"code"`
	Description      string           `json:"description,omitempty"`
	AssociationsWith []AssociationRef `json:"associationsWith"`
}

// AssociationRef is a directed reference from a term to a term in another category
type AssociationRef struct {
	Category                 string `json:"category"`
	Code                     string `json:"code"`
	AssociatedTermIdentifier string `json:"associatedTermIdentifier"`
}

// Key returns the structured key of the referenced term
func (r AssociationRef) Key() valueobjects.AssociationKey {
	return valueobjects.AssociationKey{CategoryCode: r.Category, TermCode: r.Code}
}

// Clone returns a deep copy of the category and its terms
func (c Category) Clone() Category {
	out := c
	if c.Terms != nil {
		out.Terms = make([]Term, len(c.Terms))
		for i, t := range c.Terms {
			out.Terms[i] = t.Clone()
		}
	}
	return out
}

// TermIndex returns the position of the term with the given code, or -1
func (c Category) TermIndex(code string) int {
	for i, t := range c.Terms {
		if t.Code == code {
			return i
		}
	}
	return -1
}

// HasTerm reports whether a term with the given code exists
func (c Category) HasTerm(code string) bool {
	return c.TermIndex(code) >= 0
}

// Clone returns a deep copy of the term
func (t Term) Clone() Term {
	out := t
	if t.AssociationsWith != nil {
		out.AssociationsWith = append([]AssociationRef(nil), t.AssociationsWith...)
	}
	return out
}

// HasAssociation reports whether the term already references key
func (t Term) HasAssociation(key valueobjects.AssociationKey) bool {
	for _, ref := range t.AssociationsWith {
		if ref.Key().Equals(key) {
			return true
		}
	}
	return false
}

// CloneCategories deep-copies a category list
func CloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
