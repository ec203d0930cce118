package editors

import (
	"strings"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/pkg/errors"
)

// CategoryEditor adds and removes categories
type CategoryEditor struct {
	validator *validators.DraftValidator
	defaults  []config.CategoryTemplate
}

// NewCategoryEditor creates a category editor offering the configured default categories
func NewCategoryEditor(validator *validators.DraftValidator, cfg *config.DomainConfig) *CategoryEditor {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &CategoryEditor{
		validator: validator,
		defaults:  append([]config.CategoryTemplate(nil), cfg.DefaultCategories...),
	}
}

// Add validates a candidate and appends it. The index of the new category is returned.
func (e *CategoryEditor) Add(draft *aggregates.Draft, candidate entities.Category) (int, error) {
	category := entities.Category{
		Name:        strings.TrimSpace(candidate.Name),
		Code:        strings.TrimSpace(candidate.Code),
		Description: strings.TrimSpace(candidate.Description),
		Terms:       []entities.Term{},
	}
	if err := e.validator.ValidateCategory(draft, category); err != nil {
		return -1, err
	}
	if err := draft.AddCategory(category); err != nil {
		return -1, err
	}
	return draft.CategoryCount() - 1, nil
}

// AvailableDefaults lists the default categories whose code is not in the draft yet
func (e *CategoryEditor) AvailableDefaults(draft *aggregates.Draft) []config.CategoryTemplate {
	out := make([]config.CategoryTemplate, 0, len(e.defaults))
	for _, tpl := range e.defaults {
		if !draft.HasCategory(tpl.Code) {
			out = append(out, tpl)
		}
	}
	return out
}

// AddDefault appends the default category with the given code
func (e *CategoryEditor) AddDefault(draft *aggregates.Draft, code string) (int, error) {
	code = strings.TrimSpace(code)
	for _, tpl := range e.defaults {
		if tpl.Code == code {
			return e.Add(draft, entities.Category{Name: tpl.Name, Code: tpl.Code, Description: tpl.Description})
		}
	}
	return -1, errors.DefaultCategoryNotFound(code)
}

// Remove deletes the category at index together with the associations pointing at it
func (e *CategoryEditor) Remove(draft *aggregates.Draft, index int) (entities.Category, error) {
	return draft.RemoveCategory(index)
}
