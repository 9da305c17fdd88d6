// Package booking holds the interaction state for building a cinema
// booking: the seat grid derived from a showtime, the user's seat
// selection, contact details and the submission gate. It performs no I/O.
package booking

import "strconv"

// SeatStatus classifies a single seat within a showtime grid.
type SeatStatus int

const (
	SeatAvailable SeatStatus = iota
	SeatSelected
	SeatTaken
)

// RowLabel converts a 0-indexed row into its letter label. Rows past Z
// continue spreadsheet style: AA, AB, and so on.
func RowLabel(row int) string {
	if row < 0 {
		return ""
	}
	label := ""
	for {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
		if row < 0 {
			return label
		}
	}
}

// SeatID builds the identifier for a 0-indexed row and 1-based column,
// e.g. row 2 column 7 is "C7".
func SeatID(row int, col int) string {
	return RowLabel(row) + strconv.Itoa(col)
}

// GridSeatIDs returns every seat identifier of a rows×cols auditorium in
// row-major order. Non-positive dimensions yield an empty grid.
func GridSeatIDs(rows int, cols int) []string {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	ids := make([]string, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 1; c <= cols; c++ {
			ids = append(ids, SeatID(r, c))
		}
	}
	return ids
}

// Classify reports the status of one seat given the showtime's taken set
// and the user's current selection. Taken wins over selected.
func Classify(id string, taken map[string]bool, selection *Selection) SeatStatus {
	if taken[id] {
		return SeatTaken
	}
	if selection.Has(id) {
		return SeatSelected
	}
	return SeatAvailable
}

// Selection is the set of seats picked for the active showtime. Toggle
// order is preserved because the submission payload is an ordered
// sequence.
type Selection struct {
	ids []string
}

// Has reports whether the seat is currently selected.
func (s *Selection) Has(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Toggle adds the seat if absent or removes it if present. Seats in the
// taken set are never touched.
func (s *Selection) Toggle(id string, taken map[string]bool) {
	if taken[id] {
		return
	}
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Seats returns the selected identifiers in toggle order.
func (s *Selection) Seats() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len reports how many seats are selected.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
}
