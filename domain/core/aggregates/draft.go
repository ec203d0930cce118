package aggregates

import (
	"time"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/valueobjects"
	"taxonomy-console/domain/events"
	"taxonomy-console/pkg/errors"
)

// Draft is the aggregate root for one framework being authored.
// It owns the channel, the framework fields, and the category/term tree with
// its associations. A draft only lives in memory for the duration of a
// wizard session.
type Draft struct {
	id         valueobjects.DraftID
	channel    entities.Channel
	framework  entities.Framework
	categories []entities.Category
	createdAt  time.Time
	updatedAt  time.Time
	version    int
	events     []events.DomainEvent
}

// Summary holds the counts shown on the review and publish steps
type Summary struct {
	Categories   int `json:"categories"`
	Terms        int `json:"terms"`
	Associations int `json:"associations"`
}

// DraftView is the serializable state of a draft
type DraftView struct {
	ID         string              `json:"id"`
	Channel    entities.Channel    `json:"channel"`
	Framework  entities.Framework  `json:"framework"`
	Categories []entities.Category `json:"categories"`
	Version    int                 `json:"version"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// NewDraft creates an empty draft whose framework points at the configured
// default channel
func NewDraft(cfg *config.DomainConfig) *Draft {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	now := time.Now()
	d := &Draft{
		id: valueobjects.NewDraftID(),
		framework: entities.Framework{
			Channels: []entities.ChannelRef{{Identifier: cfg.DefaultChannelIdentifier}},
			Status:   entities.FrameworkStatusDraft,
		},
		categories: []entities.Category{},
		createdAt:  now,
		updatedAt:  now,
		version:    1,
		events:     []events.DomainEvent{},
	}

	d.addEvent(events.NewDraftStarted(d.id.String(), cfg.DefaultChannelIdentifier, now))
	return d
}

// ID returns the draft's unique identifier
func (d *Draft) ID() valueobjects.DraftID {
	return d.id
}

// Version returns the number of applied mutations plus one
func (d *Draft) Version() int {
	return d.version
}

// CreatedAt returns when the draft was started
func (d *Draft) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the draft was last mutated
func (d *Draft) UpdatedAt() time.Time {
	return d.updatedAt
}

// Channel returns the channel entered on the first step
func (d *Draft) Channel() entities.Channel {
	return d.channel
}

// Framework returns a copy of the framework fields
func (d *Draft) Framework() entities.Framework {
	return d.framework.Clone()
}

// Categories returns a deep copy of the category list in insertion order
func (d *Draft) Categories() []entities.Category {
	return entities.CloneCategories(d.categories)
}

// CategoryCount returns the number of categories
func (d *Draft) CategoryCount() int {
	return len(d.categories)
}

// Category returns a copy of the category at index
func (d *Draft) Category(index int) (entities.Category, error) {
	if err := d.checkCategoryIndex(index); err != nil {
		return entities.Category{}, err
	}
	return d.categories[index].Clone(), nil
}

// Term returns a copy of one term
func (d *Draft) Term(categoryIndex, termIndex int) (entities.Term, error) {
	if err := d.checkTermIndex(categoryIndex, termIndex); err != nil {
		return entities.Term{}, err
	}
	return d.categories[categoryIndex].Terms[termIndex].Clone(), nil
}

// CategoryIndex returns the position of the category with the given code, or -1
func (d *Draft) CategoryIndex(code string) int {
	for i, c := range d.categories {
		if c.Code == code {
			return i
		}
	}
	return -1
}

// HasCategory reports whether a category with the given code exists
func (d *Draft) HasCategory(code string) bool {
	return d.CategoryIndex(code) >= 0
}

// SetChannel replaces the channel
func (d *Draft) SetChannel(channel entities.Channel) {
	d.channel = channel
	d.touch()
	d.addEvent(events.NewChannelSet(d.id.String(), d.version, channel.Code, d.updatedAt))
}

// SetFramework merges the non-nil fields of the patch into the framework
func (d *Draft) SetFramework(patch entities.FrameworkPatch) {
	if patch.IsEmpty() {
		return
	}
	d.framework = patch.Apply(d.framework)
	d.touch()
	d.addEvent(events.NewFrameworkUpdated(d.id.String(), d.version, patchedFields(patch), d.updatedAt))
}

// SetCategories replaces the whole category list with a deep copy of categories.
// Duplicates and dangling references are not rejected here; Validate reports them.
func (d *Draft) SetCategories(categories []entities.Category) {
	d.categories = make([]entities.Category, 0, len(categories))
	for _, c := range categories {
		d.categories = append(d.categories, normalizeCategory(c.Clone()))
	}
	d.touch()
	d.addEvent(events.NewCategoriesReplaced(d.id.String(), d.version, len(d.categories), d.updatedAt))
}

// AddCategory appends a category; its code must be unique within the draft
func (d *Draft) AddCategory(category entities.Category) error {
	if d.HasCategory(category.Code) {
		return errors.DuplicateCode("category", category.Code)
	}

	d.categories = append(d.categories, normalizeCategory(category.Clone()))
	d.touch()
	d.addEvent(events.NewCategoryAdded(d.id.String(), d.version, category.Code, len(d.categories)-1, d.updatedAt))
	return nil
}

// RemoveCategory removes the category at index and every association, on any
// remaining term, that points at one of its terms. The removed category is returned.
func (d *Draft) RemoveCategory(index int) (entities.Category, error) {
	if err := d.checkCategoryIndex(index); err != nil {
		return entities.Category{}, err
	}

	removed := d.categories[index]
	d.categories = append(d.categories[:index:index], d.categories[index+1:]...)

	dropped := 0
	for ci := range d.categories {
		terms := d.categories[ci].Terms
		for ti := range terms {
			kept := terms[ti].AssociationsWith[:0]
			for _, ref := range terms[ti].AssociationsWith {
				if ref.Category == removed.Code {
					dropped++
					continue
				}
				kept = append(kept, ref)
			}
			terms[ti].AssociationsWith = kept
		}
	}

	d.touch()
	d.addEvent(events.NewCategoryRemoved(d.id.String(), d.version, removed.Code, dropped, d.updatedAt))
	return removed, nil
}

// AddTermToCategory appends a term to the category at categoryIndex; its code
// must be unique within that category
func (d *Draft) AddTermToCategory(categoryIndex int, term entities.Term) error {
	if err := d.checkCategoryIndex(categoryIndex); err != nil {
		return err
	}

	category := &d.categories[categoryIndex]
	if category.HasTerm(term.Code) {
		return errors.DuplicateCode("term", term.Code)
	}

	term = term.Clone()
	if term.AssociationsWith == nil {
		term.AssociationsWith = []entities.AssociationRef{}
	}
	category.Terms = append(category.Terms, term)

	d.touch()
	d.addEvent(events.NewTermAdded(d.id.String(), d.version, category.Code, term.Code, d.updatedAt))
	return nil
}

// SetTermAssociations replaces the association list of one term wholesale.
// References must name a category other than the term's own; repeated keys
// are collapsed to their first occurrence.
func (d *Draft) SetTermAssociations(categoryIndex, termIndex int, refs []entities.AssociationRef) error {
	if err := d.checkTermIndex(categoryIndex, termIndex); err != nil {
		return err
	}

	category := &d.categories[categoryIndex]
	cleaned := make([]entities.AssociationRef, 0, len(refs))
	seen := make(map[valueobjects.AssociationKey]bool, len(refs))
	for _, ref := range refs {
		if ref.Category == "" {
			return errors.RequiredField("category")
		}
		if ref.Code == "" {
			return errors.RequiredField("code")
		}
		if ref.Category == category.Code {
			return errors.SelfAssociation(category.Code)
		}
		key := ref.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, ref)
	}

	term := &category.Terms[termIndex]
	term.AssociationsWith = cleaned

	d.touch()
	d.addEvent(events.NewTermAssociationsSet(d.id.String(), d.version, category.Code, term.Code, len(cleaned), d.updatedAt))
	return nil
}

// AssignIdentifier records the identifier the taxonomy service gave the framework
func (d *Draft) AssignIdentifier(identifier string) {
	d.framework.Identifier = identifier
	d.touch()
	channel := ""
	if len(d.framework.Channels) > 0 {
		channel = d.framework.Channels[0].Identifier
	}
	d.addEvent(events.NewFrameworkCreated(d.id.String(), d.version, identifier, d.framework.Code, channel, d.updatedAt))
}

// RecordCategoryCreated notes that the category at index was created remotely
func (d *Draft) RecordCategoryCreated(index int) error {
	if err := d.checkCategoryIndex(index); err != nil {
		return err
	}
	c := d.categories[index]
	d.addEvent(events.NewCategoryCreated(d.id.String(), d.version, d.framework.Identifier, c.Code, len(c.Terms), time.Now()))
	return nil
}

// MarkPublished flips the framework status to published
func (d *Draft) MarkPublished() {
	d.framework.Status = entities.FrameworkStatusPublished
	d.touch()
	summary := d.Summary()
	d.addEvent(events.NewFrameworkPublished(d.id.String(), d.version, d.framework.Identifier, summary.Categories, summary.Terms, d.updatedAt))
}

// Summary counts categories, terms and associations
func (d *Draft) Summary() Summary {
	s := Summary{Categories: len(d.categories)}
	for _, c := range d.categories {
		s.Terms += len(c.Terms)
		for _, t := range c.Terms {
			s.Associations += len(t.AssociationsWith)
		}
	}
	return s
}

// View returns a serializable copy of the draft
func (d *Draft) View() DraftView {
	return DraftView{
		ID:         d.id.String(),
		Channel:    d.channel,
		Framework:  d.Framework(),
		Categories: d.Categories(),
		Version:    d.version,
		UpdatedAt:  d.updatedAt,
	}
}

// Clone returns a deep copy, pending events included. The wizard applies
// remote submissions to a clone and only swaps it in once they succeed.
func (d *Draft) Clone() *Draft {
	c := *d
	c.framework = d.framework.Clone()
	c.categories = entities.CloneCategories(d.categories)
	c.events = append([]events.DomainEvent(nil), d.events...)
	return &c
}

// Validate checks the draft invariants: unique category codes, unique term
// codes per category, no self associations and no dangling references.
func (d *Draft) Validate() error {
	verrs := errors.NewValidationErrors()

	categoryCodes := make(map[string]bool, len(d.categories))
	for _, c := range d.categories {
		if categoryCodes[c.Code] {
			verrs.AddError(errors.DuplicateCode("category", c.Code))
		}
		categoryCodes[c.Code] = true

		termCodes := make(map[string]bool, len(c.Terms))
		for _, t := range c.Terms {
			if termCodes[t.Code] {
				verrs.AddError(errors.DuplicateCode("term", t.Code))
			}
			termCodes[t.Code] = true
		}
	}

	for _, c := range d.categories {
		for _, t := range c.Terms {
			for _, ref := range t.AssociationsWith {
				if ref.Category == c.Code {
					verrs.AddError(errors.SelfAssociation(c.Code))
					continue
				}
				target := d.CategoryIndex(ref.Category)
				if target < 0 || !d.categories[target].HasTerm(ref.Code) {
					verrs.AddError(errors.NewDomainError(
						errors.DomainValidationError,
						"DANGLING_ASSOCIATION",
						"association points at a term that is not in the draft",
					).WithDetail("field", "associationsWith").
						WithDetail("term", t.Code).
						WithDetail("category", ref.Category).
						WithDetail("code", ref.Code))
				}
			}
		}
	}

	return verrs.ErrOrNil()
}

// GetUncommittedEvents returns all uncommitted domain events
func (d *Draft) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(d.events))
	copy(out, d.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (d *Draft) MarkEventsAsCommitted() {
	d.events = []events.DomainEvent{}
}

// Private helper methods

func (d *Draft) addEvent(event events.DomainEvent) {
	d.events = append(d.events, event)
}

func (d *Draft) touch() {
	d.updatedAt = time.Now()
	d.version++
}

func (d *Draft) checkCategoryIndex(index int) error {
	if index < 0 || index >= len(d.categories) {
		return errors.IndexOutOfRange("categoryIndex", index, len(d.categories))
	}
	return nil
}

func (d *Draft) checkTermIndex(categoryIndex, termIndex int) error {
	if err := d.checkCategoryIndex(categoryIndex); err != nil {
		return err
	}
	terms := d.categories[categoryIndex].Terms
	if termIndex < 0 || termIndex >= len(terms) {
		return errors.IndexOutOfRange("termIndex", termIndex, len(terms))
	}
	return nil
}

func normalizeCategory(c entities.Category) entities.Category {
	if c.Terms == nil {
		c.Terms = []entities.Term{}
	}
	for i := range c.Terms {
		if c.Terms[i].AssociationsWith == nil {
			c.Terms[i].AssociationsWith = []entities.AssociationRef{}
		}
	}
	return c
}

func patchedFields(p entities.FrameworkPatch) []string {
	fields := make([]string, 0, 4)
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Code != nil {
		fields = append(fields, "code")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Channels != nil {
		fields = append(fields, "channels")
	}
	return fields
}
