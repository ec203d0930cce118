package editors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/aggregates"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/core/validators"
	"taxonomy-console/domain/core/valueobjects"
	"taxonomy-console/domain/wizard"
	"taxonomy-console/pkg/errors"
)

type editorSet struct {
	framework    *FrameworkEditor
	category     *CategoryEditor
	term         *TermEditor
	associations *AssociationEditor
}

func newEditors() editorSet {
	cfg := config.DefaultDomainConfig()
	v := validators.NewDraftValidator(cfg)
	return editorSet{
		framework:    NewFrameworkEditor(v),
		category:     NewCategoryEditor(v, cfg),
		term:         NewTermEditor(v),
		associations: NewAssociationEditor(v),
	}
}

func key(category, term string) valueobjects.AssociationKey {
	return valueobjects.AssociationKey{CategoryCode: category, TermCode: term}
}

// abDraft builds: A{algebra, calculus}, B{geometry}
func abDraft(t *testing.T, e editorSet) *aggregates.Draft {
	t.Helper()
	d := aggregates.NewDraft(nil)
	name, code := "Math", "math_fw"
	require.NoError(t, e.framework.UpdateFramework(d, entities.FrameworkPatch{Name: &name, Code: &code}))
	_, err := e.category.Add(d, entities.Category{Name: "A", Code: "A"})
	require.NoError(t, err)
	_, err = e.category.Add(d, entities.Category{Name: "B", Code: "B"})
	require.NoError(t, err)
	require.NoError(t, e.term.Add(d, 0, entities.Term{Name: "Algebra", Code: "algebra"}))
	require.NoError(t, e.term.Add(d, 0, entities.Term{Name: "Calculus", Code: "calculus"}))
	require.NoError(t, e.term.Add(d, 1, entities.Term{Name: "Geometry", Code: "geometry"}))
	return d
}

func TestFrameworkEditor(t *testing.T) {
	e := newEditors()
	d := aggregates.NewDraft(nil)

	require.NoError(t, e.framework.SetChannel(d, entities.Channel{Name: " Test Channel ", Code: " test-channel "}))
	assert.Equal(t, entities.Channel{Name: "Test Channel", Code: "test-channel"}, d.Channel())

	// blank code is allowed while the user is still on the channel step
	require.NoError(t, e.framework.SetChannel(d, entities.Channel{Name: "Test Channel"}))

	blank := "  "
	err := e.framework.UpdateFramework(d, entities.FrameworkPatch{Name: &blank})
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, d.Framework().Name)
}

func TestCategoryEditor_Add(t *testing.T) {
	e := newEditors()
	d := aggregates.NewDraft(nil)

	idx, err := e.category.Add(d, entities.Category{Name: " Subject ", Code: " subject "})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = e.category.Add(d, entities.Category{Name: "Subject", Code: "subject"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateCode))
	assert.Equal(t, 1, d.CategoryCount())

	_, err = e.category.Add(d, entities.Category{Name: "", Code: "board"})
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 1, d.CategoryCount())

	c, err := d.Category(0)
	require.NoError(t, err)
	assert.Equal(t, "subject", c.Code)
	assert.Equal(t, "Subject", c.Name)
}

func TestCategoryEditor_Defaults(t *testing.T) {
	e := newEditors()
	d := aggregates.NewDraft(nil)

	assert.Len(t, e.category.AvailableDefaults(d), 4)

	idx, err := e.category.AddDefault(d, "subject")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	codes := []string{}
	for _, tpl := range e.category.AvailableDefaults(d) {
		codes = append(codes, tpl.Code)
	}
	assert.Equal(t, []string{"board", "medium", "courseType"}, codes)

	_, err = e.category.AddDefault(d, "subject")
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateCode))

	_, err = e.category.AddDefault(d, "grade")
	assert.True(t, stderrors.Is(err, errors.ErrDefaultCategoryUnknown))
}

func TestCategoryEditor_RemoveOutOfRange(t *testing.T) {
	e := newEditors()
	d := aggregates.NewDraft(nil)

	_, err := e.category.Remove(d, 0)

	assert.True(t, stderrors.Is(err, errors.ErrIndexOutOfRange))
}

func TestTermEditor_Add(t *testing.T) {
	e := newEditors()
	d := abDraft(t, e)

	err := e.term.Add(d, 0, entities.Term{Name: "Algebra", Code: "algebra"})
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateCode))

	err = e.term.Add(d, 9, entities.Term{Name: "X", Code: "x"})
	assert.True(t, stderrors.Is(err, errors.ErrIndexOutOfRange))

	require.NoError(t, e.term.Add(d, 1, entities.Term{Name: "Trig", Code: " trig "}))
	term, err := d.Term(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "trig", term.Code)
}

func TestAssociationEditor_Candidates(t *testing.T) {
	e := newEditors()
	d := abDraft(t, e)
	state := wizard.NewAssociationState()

	assert.Empty(t, e.associations.Candidates(d, state))

	require.NoError(t, e.associations.SelectCategory(d, state, 0))
	candidates := e.associations.Candidates(d, state)
	require.Len(t, candidates, 1)
	assert.Equal(t, key("B", "geometry"), candidates[0].Key)
	assert.False(t, candidates[0].Selected)

	require.NoError(t, e.associations.SelectCategory(d, state, 1))
	candidates = e.associations.Candidates(d, state)
	require.Len(t, candidates, 2)
	assert.Equal(t, key("A", "algebra"), candidates[0].Key)
	assert.Equal(t, key("A", "calculus"), candidates[1].Key)
}

func TestAssociationEditor_SaveDoesNotMirror(t *testing.T) {
	e := newEditors()
	d := abDraft(t, e)
	state := wizard.NewAssociationState()

	require.NoError(t, e.associations.SelectCategory(d, state, 0))
	require.NoError(t, e.associations.SelectTerm(d, state, 0))
	selected, err := e.associations.Toggle(d, state, key("B", "geometry"))
	require.NoError(t, err)
	assert.True(t, selected)
	require.NoError(t, e.associations.Save(d, state))

	algebra, _ := d.Term(0, 0)
	geometry, _ := d.Term(1, 0)
	assert.Equal(t, []entities.AssociationRef{{
		Category:                 "B",
		Code:                     "geometry",
		AssociatedTermIdentifier: "math_fw_B_geometry",
	}}, algebra.AssociationsWith)
	assert.Empty(t, geometry.AssociationsWith)
}

func TestAssociationEditor_ToggleIsInvolution(t *testing.T) {
	e := newEditors()
	d := abDraft(t, e)
	state := wizard.NewAssociationState()

	require.NoError(t, e.associations.SelectCategory(d, state, 1))
	require.NoError(t, e.associations.SelectTerm(d, state, 0))
	_, err := e.associations.Toggle(d, state, key("A", "calculus"))
	require.NoError(t, err)
	require.NoError(t, e.associations.Save(d, state))
	before, _ := d.Term(1, 0)

	for _, k := range []valueobjects.AssociationKey{key("A", "algebra"), key("A", "calculus")} {
		_, err := e.associations.Toggle(d, state, k)
		require.NoError(t, err)
		_, err = e.associations.Toggle(d, state, k)
		require.NoError(t, err)
	}
	require.NoError(t, e.associations.Save(d, state))

	after, _ := d.Term(1, 0)
	assert.Equal(t, before.AssociationsWith, after.AssociationsWith)
}

func TestAssociationEditor_SelectionResetsBuffer(t *testing.T) {
	e := newEditors()
	d := abDraft(t, e)
	state := wizard.NewAssociationState()

	require.NoError(t, e.associations.SelectCategory(d, state, 0))
	require.NoError(t, e.associations.SelectTerm(d, state, 0))
	_, err := e.associations.Toggle(d, state, key("B", "geometry"))
	require.NoError(t, err)

	// switching term without saving discards the toggle
	require.NoError(t, e.associations.SelectTerm(d, state, 1))
	assert.Empty(t, state.Buffer)
	require.NoError(t, e.associations.SelectTerm(d, state, 0))
	assert.Empty(t, state.Buffer)

	// switching category clears the term selection
	require.NoError(t, e.associations.SelectCategory(d, state, 1))
	assert.False(t, state.HasTerm())
	assert.Empty(t, state.Buffer)
}

func TestAssociationEditor_Errors(t *testing.T) {
	e := newEditors()

	t.Run("save without selection", func(t *testing.T) {
		d := abDraft(t, e)
		state := wizard.NewAssociationState()

		err := e.associations.Save(d, state)

		require.Error(t, err)
		assert.Equal(t, "select a category and term", errors.AsDomainError(err).Message)
	})

	t.Run("no candidates", func(t *testing.T) {
		d := aggregates.NewDraft(nil)
		_, err := e.category.Add(d, entities.Category{Name: "A", Code: "A"})
		require.NoError(t, err)
		_, err = e.category.Add(d, entities.Category{Name: "B", Code: "B"})
		require.NoError(t, err)
		require.NoError(t, e.term.Add(d, 0, entities.Term{Name: "Algebra", Code: "algebra"}))
		state := wizard.NewAssociationState()
		require.NoError(t, e.associations.SelectCategory(d, state, 0))
		require.NoError(t, e.associations.SelectTerm(d, state, 0))

		_, err = e.associations.Toggle(d, state, key("B", "geometry"))

		assert.True(t, stderrors.Is(err, errors.ErrNoCandidates))
	})

	t.Run("unknown candidate", func(t *testing.T) {
		d := abDraft(t, e)
		state := wizard.NewAssociationState()
		require.NoError(t, e.associations.SelectCategory(d, state, 0))
		require.NoError(t, e.associations.SelectTerm(d, state, 0))

		_, err := e.associations.Toggle(d, state, key("A", "calculus"))

		assert.True(t, stderrors.Is(err, errors.ErrUnknownCandidate))
		assert.Empty(t, state.Buffer)
	})

	t.Run("select term before category", func(t *testing.T) {
		d := abDraft(t, e)
		state := wizard.NewAssociationState()

		err := e.associations.SelectTerm(d, state, 0)

		assert.True(t, stderrors.Is(err, errors.ErrNoSourceSelected))
	})

	t.Run("out of range selection", func(t *testing.T) {
		d := abDraft(t, e)
		state := wizard.NewAssociationState()

		assert.True(t, stderrors.Is(e.associations.SelectCategory(d, state, 7), errors.ErrIndexOutOfRange))
		require.NoError(t, e.associations.SelectCategory(d, state, 1))
		assert.True(t, stderrors.Is(e.associations.SelectTerm(d, state, 3), errors.ErrIndexOutOfRange))
	})
}
