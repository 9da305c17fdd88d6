package booking

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"neon-cinema-cli/model"
)

// Stage is where the user is in the booking flow. Stages are derived
// from the session state, never stored.
type Stage int

const (
	StageIdle Stage = iota
	StageMovieChosen
	StageShowtimeChosen
	StageSeatsSelected
	StageSubmitting
	StageConfirmed
)

// Contact is the customer detail pair required before submission. Only
// presence is enforced; email format is a hint, not a gate.
type Contact struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

var validate = validator.New()

// Valid reports whether both fields are filled in.
func (c Contact) Valid() bool {
	return validate.Struct(c) == nil
}

// EmailLooksValid reports whether the email passes format validation.
// Submission does not depend on it; the UI may surface it as a warning.
func (c Contact) EmailLooksValid() bool {
	return validate.Var(c.Email, "required,email") == nil
}

// Session owns all user-editable booking state: the fetched catalog, the
// active movie and showtime, the seat selection, the contact details and
// the latest confirmation. Every mutator that invalidates downstream
// state resets it in the same call, so the session is never observed
// half-updated between events.
type Session struct {
	Movies    []model.Movie
	Showtimes []model.Showtime

	ActiveMovie    *model.Movie
	ActiveShowtime *model.Showtime

	Selection Selection
	Contact   Contact

	ConfirmationId string
	Submitting     bool

	showtimeToken uint64
}

// SetMovies replaces the catalog wholesale. The first movie becomes
// active; everything downstream resets. Returns the new active movie, or
// nil for an empty catalog.
func (s *Session) SetMovies(movies []model.Movie) *model.Movie {
	s.Movies = movies
	s.ActiveMovie = nil
	s.resetShowtimes()
	if len(movies) > 0 {
		s.ActiveMovie = &s.Movies[0]
	}
	return s.ActiveMovie
}

// SetActiveMovie switches the active movie and discards the showtime
// list, the active showtime and the seat selection in the same step. The
// caller is expected to start a showtime load next.
func (s *Session) SetActiveMovie(movie model.Movie) {
	for i := range s.Movies {
		if s.Movies[i].Id == movie.Id {
			s.ActiveMovie = &s.Movies[i]
			s.resetShowtimes()
			return
		}
	}
	s.Movies = append(s.Movies, movie)
	s.ActiveMovie = &s.Movies[len(s.Movies)-1]
	s.resetShowtimes()
}

// BeginShowtimeLoad issues a token for a new showtime fetch. Tokens are
// monotonic; only the most recently issued one is accepted back, so a
// late response from a superseded fetch can never clobber a newer one.
func (s *Session) BeginShowtimeLoad() uint64 {
	s.showtimeToken++
	return s.showtimeToken
}

// ApplyShowtimes installs a fetched showtime list if the token is still
// current. The first entry (or none) becomes active and the selection is
// cleared atomically with the swap. Reports whether the result was
// applied.
func (s *Session) ApplyShowtimes(token uint64, showtimes []model.Showtime) bool {
	if token != s.showtimeToken {
		return false
	}
	s.Showtimes = showtimes
	s.ActiveShowtime = nil
	s.Selection.Clear()
	s.dropConfirmation()
	if len(showtimes) > 0 {
		s.ActiveShowtime = &s.Showtimes[0]
	}
	return true
}

// SetActiveShowtime switches the active showtime and clears the seat
// selection with it.
func (s *Session) SetActiveShowtime(showtime model.Showtime) {
	for i := range s.Showtimes {
		if s.Showtimes[i].Id == showtime.Id {
			s.ActiveShowtime = &s.Showtimes[i]
			s.Selection.Clear()
			s.dropConfirmation()
			return
		}
	}
}

// TakenSeats returns the active showtime's taken set, keyed for lookup.
func (s *Session) TakenSeats() map[string]bool {
	taken := map[string]bool{}
	if s.ActiveShowtime == nil {
		return taken
	}
	for _, id := range s.ActiveShowtime.TakenSeats {
		taken[id] = true
	}
	return taken
}

// SeatStatus classifies a seat of the active showtime's grid.
func (s *Session) SeatStatus(id string) SeatStatus {
	return Classify(id, s.TakenSeats(), &s.Selection)
}

// ToggleSeat flips a seat in the selection. Taken seats are ignored.
// Any stored confirmation belongs to the previous selection and is
// dropped.
func (s *Session) ToggleSeat(id string) {
	if s.ActiveShowtime == nil {
		return
	}
	s.Selection.Toggle(id, s.TakenSeats())
	s.dropConfirmation()
}

// SetName updates the contact name for the next booking.
func (s *Session) SetName(name string) {
	s.Contact.Name = strings.TrimSpace(name)
	s.dropConfirmation()
}

// SetEmail updates the contact email for the next booking.
func (s *Session) SetEmail(email string) {
	s.Contact.Email = strings.TrimSpace(email)
	s.dropConfirmation()
}

// CanSubmit reports whether every submission precondition holds: an
// active showtime, both contact fields, at least one seat, and no
// submission already in flight.
func (s *Session) CanSubmit() bool {
	return s.ActiveShowtime != nil &&
		s.Contact.Valid() &&
		s.Selection.Len() > 0 &&
		!s.Submitting
}

// Total is the price for the current selection: unit price times seat
// count. Always recomputed from the live state.
func (s *Session) Total() decimal.Decimal {
	if s.ActiveShowtime == nil {
		return decimal.Zero
	}
	unit := decimal.NewFromFloat(s.ActiveShowtime.Price)
	return unit.Mul(decimal.NewFromInt(int64(s.Selection.Len())))
}

// TotalDisplay renders the total with two decimals, e.g. "20.00".
func (s *Session) TotalDisplay() string {
	return s.Total().StringFixed(2)
}

// Payload builds the submission body from the current state. Callers
// must check CanSubmit first.
func (s *Session) Payload() model.BookingRequest {
	req := model.BookingRequest{
		CustomerName:  s.Contact.Name,
		CustomerEmail: s.Contact.Email,
		Seats:         s.Selection.Seats(),
	}
	if s.ActiveShowtime != nil {
		req.ShowtimeId = s.ActiveShowtime.Id
	}
	return req
}

// BeginSubmit marks a submission in flight so a second one cannot start.
func (s *Session) BeginSubmit() {
	s.Submitting = true
}

// ApplyConfirmation records the server-issued booking identifier. An
// empty identifier leaves the session untouched beyond clearing the
// in-flight flag, so user input survives a failed submission.
func (s *Session) ApplyConfirmation(id string) {
	s.Submitting = false
	if id == "" {
		return
	}
	s.ConfirmationId = id
}

// Stage derives the current flow stage.
func (s *Session) Stage() Stage {
	switch {
	case s.Submitting:
		return StageSubmitting
	case s.ConfirmationId != "":
		return StageConfirmed
	case s.Selection.Len() > 0:
		return StageSeatsSelected
	case s.ActiveShowtime != nil:
		return StageShowtimeChosen
	case s.ActiveMovie != nil:
		return StageMovieChosen
	default:
		return StageIdle
	}
}

func (s *Session) resetShowtimes() {
	s.Showtimes = nil
	s.ActiveShowtime = nil
	s.Selection.Clear()
	s.dropConfirmation()
}

// A confirmation only ever applies to the exact state it was issued for;
// any later edit starts a fresh booking.
func (s *Session) dropConfirmation() {
	s.ConfirmationId = ""
}

// FilterByTitle returns the movies whose title contains the query,
// case-insensitively. An empty query returns the input unchanged.
func FilterByTitle(movies []model.Movie, query string) []model.Movie {
	if query == "" {
		return movies
	}
	needle := strings.ToLower(query)
	var out []model.Movie
	for _, movie := range movies {
		if strings.Contains(strings.ToLower(movie.Title), needle) {
			out = append(out, movie)
		}
	}
	return out
}
