package aggregates

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy-console/domain/config"
	"taxonomy-console/domain/core/entities"
	"taxonomy-console/domain/events"
	"taxonomy-console/pkg/errors"
)

func strPtr(s string) *string { return &s }

// twoCategoryDraft builds: A{algebra}, B{geometry}
func twoCategoryDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft(nil)
	require.NoError(t, d.AddCategory(entities.Category{Name: "A", Code: "A"}))
	require.NoError(t, d.AddCategory(entities.Category{Name: "B", Code: "B"}))
	require.NoError(t, d.AddTermToCategory(0, entities.Term{Name: "Algebra", Code: "algebra"}))
	require.NoError(t, d.AddTermToCategory(1, entities.Term{Name: "Geometry", Code: "geometry"}))
	return d
}

func TestNewDraft(t *testing.T) {
	t.Run("uses default channel identifier", func(t *testing.T) {
		d := NewDraft(nil)

		assert.False(t, d.ID().IsZero())
		assert.True(t, d.Channel().IsZero())
		fw := d.Framework()
		assert.Equal(t, []entities.ChannelRef{{Identifier: "in.ekstep"}}, fw.Channels)
		assert.Equal(t, entities.FrameworkStatusDraft, fw.Status)
		assert.Empty(t, d.Categories())
		assert.Len(t, d.GetUncommittedEvents(), 1)
	})

	t.Run("honours configured channel", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		cfg.DefaultChannelIdentifier = "tenant.channel"

		d := NewDraft(cfg)

		assert.Equal(t, "tenant.channel", d.Framework().Channels[0].Identifier)
	})
}

func TestDraft_SetFramework_PartialMerge(t *testing.T) {
	d := NewDraft(nil)
	d.SetFramework(entities.FrameworkPatch{Name: strPtr("Math"), Code: strPtr("math_fw")})
	d.SetFramework(entities.FrameworkPatch{Description: strPtr("Maths taxonomy")})

	fw := d.Framework()
	assert.Equal(t, "Math", fw.Name)
	assert.Equal(t, "math_fw", fw.Code)
	assert.Equal(t, "Maths taxonomy", fw.Description)
	assert.Equal(t, "in.ekstep", fw.Channels[0].Identifier)

	version := d.Version()
	d.SetFramework(entities.FrameworkPatch{})
	assert.Equal(t, version, d.Version(), "empty patch is a no-op")
}

func TestDraft_AddCategory_RejectsDuplicateCode(t *testing.T) {
	d := NewDraft(nil)
	require.NoError(t, d.AddCategory(entities.Category{Name: "Subject", Code: "subject"}))

	err := d.AddCategory(entities.Category{Name: "Subject", Code: "subject"})

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateCode))
	assert.Equal(t, 1, d.CategoryCount())

	// case-sensitive
	require.NoError(t, d.AddCategory(entities.Category{Name: "Subject", Code: "Subject"}))
	assert.Equal(t, 2, d.CategoryCount())
}

func TestDraft_AddTermToCategory(t *testing.T) {
	tests := []struct {
		name          string
		categoryIndex int
		term          entities.Term
		wantErr       error
	}{
		{"appends", 0, entities.Term{Name: "Calculus", Code: "calculus"}, nil},
		{"duplicate sibling code", 0, entities.Term{Name: "Algebra 2", Code: "algebra"}, errors.ErrDuplicateCode},
		{"same code in another category is fine", 1, entities.Term{Name: "Algebra", Code: "algebra"}, nil},
		{"negative index", -1, entities.Term{Name: "X", Code: "x"}, errors.ErrIndexOutOfRange},
		{"index past end", 2, entities.Term{Name: "X", Code: "x"}, errors.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := twoCategoryDraft(t)
			before := d.Summary()

			err := d.AddTermToCategory(tt.categoryIndex, tt.term)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, tt.wantErr))
				assert.Equal(t, before, d.Summary())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before.Terms+1, d.Summary().Terms)
			term, err := d.Term(tt.categoryIndex, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.term.Code, term.Code)
			assert.NotNil(t, term.AssociationsWith)
		})
	}
}

func TestDraft_SetTermAssociations(t *testing.T) {
	geometry := entities.AssociationRef{Category: "B", Code: "geometry", AssociatedTermIdentifier: "fw_B_geometry"}

	t.Run("no auto mirroring", func(t *testing.T) {
		d := twoCategoryDraft(t)

		require.NoError(t, d.SetTermAssociations(0, 0, []entities.AssociationRef{geometry}))

		t1, _ := d.Term(0, 0)
		t2, _ := d.Term(1, 0)
		assert.Equal(t, []entities.AssociationRef{geometry}, t1.AssociationsWith)
		assert.Empty(t, t2.AssociationsWith)
	})

	t.Run("replaces wholesale", func(t *testing.T) {
		d := twoCategoryDraft(t)
		require.NoError(t, d.SetTermAssociations(0, 0, []entities.AssociationRef{geometry}))

		require.NoError(t, d.SetTermAssociations(0, 0, nil))

		t1, _ := d.Term(0, 0)
		assert.Empty(t, t1.AssociationsWith)
	})

	t.Run("collapses repeated keys", func(t *testing.T) {
		d := twoCategoryDraft(t)

		require.NoError(t, d.SetTermAssociations(0, 0, []entities.AssociationRef{geometry, geometry}))

		t1, _ := d.Term(0, 0)
		assert.Len(t, t1.AssociationsWith, 1)
	})

	errCases := []struct {
		name    string
		ci, ti  int
		refs    []entities.AssociationRef
		wantErr error
	}{
		{"self association", 0, 0, []entities.AssociationRef{{Category: "A", Code: "algebra"}}, errors.ErrSelfAssociation},
		{"blank category", 0, 0, []entities.AssociationRef{{Code: "geometry"}}, errors.ErrRequiredField},
		{"blank code", 0, 0, []entities.AssociationRef{{Category: "B"}}, errors.ErrRequiredField},
		{"term index out of range", 0, 3, []entities.AssociationRef{geometry}, errors.ErrIndexOutOfRange},
		{"category index out of range", 5, 0, []entities.AssociationRef{geometry}, errors.ErrIndexOutOfRange},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			d := twoCategoryDraft(t)
			version := d.Version()

			err := d.SetTermAssociations(tt.ci, tt.ti, tt.refs)

			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr))
			assert.Equal(t, version, d.Version())
		})
	}
}

func TestDraft_RemoveCategory_CascadesAssociations(t *testing.T) {
	d := twoCategoryDraft(t)
	require.NoError(t, d.AddCategory(entities.Category{Name: "C", Code: "C"}))
	require.NoError(t, d.AddTermToCategory(2, entities.Term{Name: "Hindi", Code: "hindi"}))
	require.NoError(t, d.SetTermAssociations(0, 0, []entities.AssociationRef{
		{Category: "B", Code: "geometry"},
		{Category: "C", Code: "hindi"},
	}))

	removed, err := d.RemoveCategory(1)

	require.NoError(t, err)
	assert.Equal(t, "B", removed.Code)
	assert.Equal(t, 2, d.CategoryCount())
	t1, _ := d.Term(0, 0)
	assert.Equal(t, []entities.AssociationRef{{Category: "C", Code: "hindi"}}, t1.AssociationsWith)
	assert.NoError(t, d.Validate())

	evts := d.GetUncommittedEvents()
	last, ok := evts[len(evts)-1].(events.CategoryRemoved)
	require.True(t, ok)
	assert.Equal(t, 1, last.DroppedAssociations)

	_, err = d.RemoveCategory(2)
	assert.True(t, stderrors.Is(err, errors.ErrIndexOutOfRange))
}

func TestDraft_CloneIsIndependent(t *testing.T) {
	d := twoCategoryDraft(t)
	clone := d.Clone()

	require.NoError(t, clone.AddTermToCategory(0, entities.Term{Name: "Calculus", Code: "calculus"}))
	require.NoError(t, clone.SetTermAssociations(0, 0, []entities.AssociationRef{{Category: "B", Code: "geometry"}}))
	clone.AssignIdentifier("fw-1")

	assert.Equal(t, 2, d.Summary().Terms)
	t1, _ := d.Term(0, 0)
	assert.Empty(t, t1.AssociationsWith)
	assert.Empty(t, d.Framework().Identifier)
	assert.Len(t, d.GetUncommittedEvents(), len(clone.GetUncommittedEvents())-3)
}

func TestDraft_Validate(t *testing.T) {
	d := NewDraft(nil)
	d.SetCategories([]entities.Category{
		{Name: "A", Code: "A", Terms: []entities.Term{
			{Name: "Algebra", Code: "algebra", AssociationsWith: []entities.AssociationRef{{Category: "Z", Code: "zeta"}}},
			{Name: "Algebra", Code: "algebra"},
		}},
		{Name: "A again", Code: "A"},
	})

	err := d.Validate()

	require.Error(t, err)
	var verrs *errors.ValidationErrors
	require.True(t, stderrors.As(err, &verrs))
	codes := make([]string, 0, len(verrs.Errors))
	for _, e := range verrs.Errors {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []string{"DUPLICATE_CODE", "DUPLICATE_CODE", "DANGLING_ASSOCIATION"}, codes)
}

func TestDraft_SummaryAndPublish(t *testing.T) {
	d := twoCategoryDraft(t)
	require.NoError(t, d.SetTermAssociations(0, 0, []entities.AssociationRef{{Category: "B", Code: "geometry"}}))
	d.AssignIdentifier("math_fw")

	d.MarkPublished()

	assert.Equal(t, Summary{Categories: 2, Terms: 2, Associations: 1}, d.Summary())
	assert.True(t, d.Framework().IsPublished())

	evts := d.GetUncommittedEvents()
	published, ok := evts[len(evts)-1].(events.FrameworkPublished)
	require.True(t, ok)
	assert.Equal(t, "math_fw", published.Identifier)
	assert.Equal(t, 2, published.Terms)

	d.MarkEventsAsCommitted()
	assert.Empty(t, d.GetUncommittedEvents())
}
