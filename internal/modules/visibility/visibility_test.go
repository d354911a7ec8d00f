package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items() []Item {
	return []Item{
		{ID: "a", Published: true},
		{ID: "b", Published: false},
		{ID: "c", Published: true},
	}
}

func TestResolveAuthPending(t *testing.T) {
	d := Resolve(Input{AuthPending: true, Admin: true, Items: items()})
	assert.Equal(t, StateChecking, d.State)
	assert.Nil(t, d.Current)
	assert.Empty(t, d.Visible)
}

func TestResolveAdminRouteGates(t *testing.T) {
	d := Resolve(Input{AdminRoute: true, Items: items()})
	assert.Equal(t, StateUnauthenticated, d.State)

	d = Resolve(Input{AdminRoute: true, IdentityID: "u1", Items: items()})
	assert.Equal(t, StateUnauthorized, d.State)

	d = Resolve(Input{AdminRoute: true, IdentityID: "u1", Admin: true, Items: items()})
	assert.Equal(t, StateViewing, d.State)
}

func TestResolveViewerSeesPublishedOnly(t *testing.T) {
	d := Resolve(Input{Items: items()})

	require.Equal(t, StateViewing, d.State)
	require.Len(t, d.Visible, 2)
	for _, item := range d.Visible {
		assert.True(t, item.Published)
	}
	require.NotNil(t, d.Current)
	assert.Equal(t, "a", d.Current.ID)
	assert.False(t, d.CanEdit)
}

func TestResolveAdminSeesDrafts(t *testing.T) {
	d := Resolve(Input{IdentityID: "u1", Admin: true, Items: items()})

	require.Len(t, d.Visible, 3)
	assert.True(t, d.CanEdit)
}

func TestResolveEmptySet(t *testing.T) {
	d := Resolve(Input{Items: nil})
	assert.Equal(t, StateEmpty, d.State)
	assert.Nil(t, d.Current)

	// all drafts looks empty to a viewer, not permission denied
	d = Resolve(Input{Items: []Item{{ID: "x"}, {ID: "y"}}})
	assert.Equal(t, StateEmpty, d.State)
}

func TestResolveEditIntent(t *testing.T) {
	d := Resolve(Input{IdentityID: "u1", Admin: true, EditIntent: true, Items: items()})
	assert.Equal(t, StateEditing, d.State)
	require.NotNil(t, d.Current)

	// non-admin edit intent is ignored
	d = Resolve(Input{IdentityID: "u2", EditIntent: true, Items: items()})
	assert.Equal(t, StateViewing, d.State)
}

func TestSelectCurrentRequested(t *testing.T) {
	visible := []Item{{ID: "a", Published: true}, {ID: "c", Published: true}}

	current, ok := SelectCurrent(visible, "c")
	require.True(t, ok)
	assert.Equal(t, "c", current.ID)
}

func TestSelectCurrentFallsBackToFirst(t *testing.T) {
	visible := []Item{{ID: "a", Published: true}, {ID: "c", Published: true}}

	// requested item no longer in the set, e.g. just deleted
	current, ok := SelectCurrent(visible, "gone")
	require.True(t, ok)
	assert.Equal(t, "a", current.ID)

	current, ok = SelectCurrent(visible, "")
	require.True(t, ok)
	assert.Equal(t, "a", current.ID)
}

func TestSelectCurrentEmpty(t *testing.T) {
	_, ok := SelectCurrent(nil, "a")
	assert.False(t, ok)
}

func TestVisibleSetDoesNotAliasInput(t *testing.T) {
	src := items()
	out := VisibleSet(src, true)
	out[0].ID = "mutated"
	assert.Equal(t, "a", src[0].ID)
}

// A draft never appears in a non-admin set regardless of position or count.
func TestVisibleSetNeverLeaksDrafts(t *testing.T) {
	src := []Item{
		{ID: "1"}, {ID: "2", Published: true}, {ID: "3"},
		{ID: "4"}, {ID: "5", Published: true}, {ID: "6"},
	}
	out := VisibleSet(src, false)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "5", out[1].ID)
}
