package validators

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/pkg/errors"
)

// DraftValidator validates editor input before it reaches the draft
type DraftValidator struct {
	maxNameLength        int
	maxCodeLength        int
	maxDescriptionLength int
	maxCategories        int
	maxTerms             int
	maxAssociations      int
}

// NewDraftValidator creates a validator with the limits from cfg
func NewDraftValidator(cfg *config.DomainConfig) *DraftValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &DraftValidator{
		maxNameLength:        cfg.MaxNameLength,
		maxCodeLength:        cfg.MaxCodeLength,
		maxDescriptionLength: cfg.MaxDescriptionLength,
		maxCategories:        cfg.MaxCategoriesPerDraft,
		maxTerms:             cfg.MaxTermsPerCategory,
		maxAssociations:      cfg.MaxAssociationsPerTerm,
	}
}

// ValidateChannel checks a channel. The wizard only needs the code; the
// standalone channel page also requires a name.
func (v *DraftValidator) ValidateChannel(channel entities.Channel, requireName bool) error {
	verrs := errors.NewValidationErrors()
	if requireName {
		v.required(verrs, "channel", "name", channel.Name)
	}
	v.required(verrs, "channel", "code", channel.Code)
	v.maxLen(verrs, "name", channel.Name, v.maxNameLength)
	v.maxLen(verrs, "code", channel.Code, v.maxCodeLength)
	return verrs.ErrOrNil()
}

// ValidateChannelFields checks field lengths only. The wizard lets the
// channel code stay blank until the user tries to leave the channel step.
func (v *DraftValidator) ValidateChannelFields(channel entities.Channel) error {
	verrs := errors.NewValidationErrors()
	v.maxLen(verrs, "name", channel.Name, v.maxNameLength)
	v.maxLen(verrs, "code", channel.Code, v.maxCodeLength)
	return verrs.ErrOrNil()
}

// ValidateFrameworkPatch checks the fields a patch sets. Name and code may
// not be cleared once provided.
func (v *DraftValidator) ValidateFrameworkPatch(patch entities.FrameworkPatch) error {
	verrs := errors.NewValidationErrors()
	if patch.Name != nil {
		v.required(verrs, "framework", "name", *patch.Name)
		v.maxLen(verrs, "name", *patch.Name, v.maxNameLength)
	}
	if patch.Code != nil {
		v.required(verrs, "framework", "code", *patch.Code)
		v.maxLen(verrs, "code", *patch.Code, v.maxCodeLength)
	}
	if patch.Description != nil {
		v.maxLen(verrs, "description", *patch.Description, v.maxDescriptionLength)
	}
	if patch.Channels != nil {
		if len(patch.Channels) == 0 {
			verrs.Add("channels", "framework needs at least one channel")
		}
		for i, ref := range patch.Channels {
			if strings.TrimSpace(ref.Identifier) == "" {
				verrs.Add(fmt.Sprintf("channels[%d].identifier", i), "channel identifier is required")
			}
		}
	}
	return verrs.ErrOrNil()
}

// ValidateCategory checks a candidate category against the current draft:
// name and code present, code unique among categories (case-sensitive), and
// the draft below its category limit.
func (v *DraftValidator) ValidateCategory(draft *aggregates.Draft, category entities.Category) error {
	verrs := errors.NewValidationErrors()
	v.required(verrs, "category", "name", category.Name)
	v.required(verrs, "category", "code", category.Code)
	v.maxLen(verrs, "name", category.Name, v.maxNameLength)
	v.maxLen(verrs, "code", category.Code, v.maxCodeLength)
	v.maxLen(verrs, "description", category.Description, v.maxDescriptionLength)
	if verrs.HasErrors() {
		return verrs
	}

	if draft.HasCategory(category.Code) {
		verrs.AddError(errors.DuplicateCode("category", category.Code))
	}
	if draft.CategoryCount() >= v.maxCategories {
		verrs.AddError(errors.LimitExceeded("categories", v.maxCategories))
	}
	return verrs.ErrOrNil()
}

// ValidateTerm checks a candidate term against the category it goes into
func (v *DraftValidator) ValidateTerm(draft *aggregates.Draft, categoryIndex int, term entities.Term) error {
	category, err := draft.Category(categoryIndex)
	if err != nil {
		return err
	}

	verrs := errors.NewValidationErrors()
	v.required(verrs, "term", "name", term.Name)
	v.required(verrs, "term", "code", term.Code)
	v.maxLen(verrs, "name", term.Name, v.maxNameLength)
	v.maxLen(verrs, "code", term.Code, v.maxCodeLength)
	v.maxLen(verrs, "description", term.Description, v.maxDescriptionLength)
	if verrs.HasErrors() {
		return verrs
	}

	if category.HasTerm(term.Code) {
		verrs.AddError(errors.DuplicateCode("term", term.Code))
	}
	if len(category.Terms) >= v.maxTerms {
		verrs.AddError(errors.LimitExceeded("terms", v.maxTerms))
	}
	return verrs.ErrOrNil()
}

// ValidateAssociationCount checks the size of a term's association list
func (v *DraftValidator) ValidateAssociationCount(count int) error {
	if count > v.maxAssociations {
		return errors.LimitExceeded("associations", v.maxAssociations)
	}
	return nil
}

func (v *DraftValidator) required(verrs *errors.ValidationErrors, scope, field, value string) {
	if strings.TrimSpace(value) == "" {
		e := errors.RequiredField(field)
		e.Message = fmt.Sprintf("%s %s is required", scope, field)
		verrs.AddError(e)
	}
}

func (v *DraftValidator) maxLen(verrs *errors.ValidationErrors, field, value string, limit int) {
	if limit > 0 && utf8.RuneCountInString(value) > limit {
		verrs.AddError(errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_TOO_LONG",
			fmt.Sprintf("%s must be at most %d characters", field, limit),
		).WithDetail("field", field).WithDetail("max_length", limit))
	}
}
