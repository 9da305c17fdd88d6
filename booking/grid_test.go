package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLabel(t *testing.T) {
	cases := []struct {
		row  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RowLabel(tc.row), "row %d", tc.row)
	}
}

func TestGridSeatIDs_RowMajor(t *testing.T) {
	ids := GridSeatIDs(2, 3)
	require.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, ids)
}

func TestGridSeatIDs_UniquePerGrid(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {8, 12}, {26, 30}, {3, 1}} {
		ids := GridSeatIDs(dims[0], dims[1])
		require.Len(t, ids, dims[0]*dims[1])
		seen := map[string]bool{}
		for _, id := range ids {
			require.False(t, seen[id], "duplicate seat %s in %dx%d grid", id, dims[0], dims[1])
			seen[id] = true
		}
	}
}

func TestGridSeatIDs_EmptyDimensions(t *testing.T) {
	assert.Nil(t, GridSeatIDs(0, 5))
	assert.Nil(t, GridSeatIDs(5, 0))
	assert.Nil(t, GridSeatIDs(-1, 3))
}

func TestClassify(t *testing.T) {
	taken := map[string]bool{"A1": true}
	var sel Selection
	sel.Toggle("B2", taken)

	assert.Equal(t, SeatTaken, Classify("A1", taken, &sel))
	assert.Equal(t, SeatSelected, Classify("B2", taken, &sel))
	assert.Equal(t, SeatAvailable, Classify("C3", taken, &sel))
}

func TestSelection_DoubleToggleIsIdempotent(t *testing.T) {
	var sel Selection
	taken := map[string]bool{}

	sel.Toggle("C7", taken)
	require.Equal(t, []string{"C7"}, sel.Seats())

	sel.Toggle("C7", taken)
	assert.Empty(t, sel.Seats())
}

func TestSelection_TakenSeatNeverToggles(t *testing.T) {
	var sel Selection
	taken := map[string]bool{"A1": true}

	sel.Toggle("A1", taken)
	assert.Empty(t, sel.Seats())
	assert.False(t, sel.Has("A1"))
}

func TestSelection_PreservesToggleOrder(t *testing.T) {
	var sel Selection
	taken := map[string]bool{}

	sel.Toggle("B3", taken)
	sel.Toggle("A1", taken)
	sel.Toggle("C2", taken)
	sel.Toggle("A1", taken)

	assert.Equal(t, []string{"B3", "C2"}, sel.Seats())
}
