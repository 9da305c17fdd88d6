package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neon-cinema-cli/model"
)

func testShowtime(id string, price float64) model.Showtime {
	return model.Showtime{
		Id:         id,
		MovieId:    "m1",
		StartTime:  time.Date(2026, 9, 1, 19, 30, 0, 0, time.UTC),
		Auditorium: "Sala 1",
		Rows:       2,
		Cols:       3,
		Price:      price,
	}
}

func TestSetMovies_FirstBecomesActive(t *testing.T) {
	var s Session
	active := s.SetMovies([]model.Movie{{Id: "m1", Title: "Nova"}, {Id: "m2", Title: "Arrival"}})

	require.NotNil(t, active)
	assert.Equal(t, "m1", active.Id)
	assert.Equal(t, StageMovieChosen, s.Stage())
}

func TestSetMovies_EmptyCatalog(t *testing.T) {
	var s Session
	assert.Nil(t, s.SetMovies(nil))
	assert.Equal(t, StageIdle, s.Stage())
}

func TestApplyShowtimes_FirstBecomesActive(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1", Title: "Nova"}})

	token := s.BeginShowtimeLoad()
	applied := s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})

	require.True(t, applied)
	require.NotNil(t, s.ActiveShowtime)
	assert.Equal(t, "s1", s.ActiveShowtime.Id)
	assert.Equal(t, StageShowtimeChosen, s.Stage())
}

func TestApplyShowtimes_StaleTokenDropped(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}, {Id: "m2"}})

	stale := s.BeginShowtimeLoad()
	fresh := s.BeginShowtimeLoad()

	require.True(t, s.ApplyShowtimes(fresh, []model.Showtime{testShowtime("s2", 12)}))
	require.False(t, s.ApplyShowtimes(stale, []model.Showtime{testShowtime("s1", 10)}))

	require.NotNil(t, s.ActiveShowtime)
	assert.Equal(t, "s2", s.ActiveShowtime.Id)
}

func TestSetActiveMovie_ClearsDownstreamState(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1", Title: "Nova"}, {Id: "m2", Title: "Arrival"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
	s.ToggleSeat("A1")
	require.Equal(t, 1, s.Selection.Len())

	s.SetActiveMovie(model.Movie{Id: "m2", Title: "Arrival"})

	assert.Equal(t, "m2", s.ActiveMovie.Id)
	assert.Nil(t, s.ActiveShowtime)
	assert.Zero(t, s.Selection.Len())
}

func TestSetActiveShowtime_ClearsSelection(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10), testShowtime("s2", 12)})
	s.ToggleSeat("A1")

	s.SetActiveShowtime(s.Showtimes[1])

	assert.Equal(t, "s2", s.ActiveShowtime.Id)
	assert.Zero(t, s.Selection.Len())
}

func TestSeatStatus_TakenFromShowtime(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	st := testShowtime("s1", 10)
	st.TakenSeats = []string{"B2"}
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{st})

	s.ToggleSeat("A1")
	s.ToggleSeat("B2")

	assert.Equal(t, SeatSelected, s.SeatStatus("A1"))
	assert.Equal(t, SeatTaken, s.SeatStatus("B2"))
	assert.Equal(t, SeatAvailable, s.SeatStatus("A2"))
	assert.Equal(t, []string{"A1"}, s.Selection.Seats())
}

func TestTotal(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})

	assert.Equal(t, "0.00", s.TotalDisplay())

	s.ToggleSeat("A1")
	s.ToggleSeat("B3")
	assert.Equal(t, "20.00", s.TotalDisplay())

	s.ToggleSeat("A2")
	assert.Equal(t, "30.00", s.TotalDisplay())
}

func TestTotal_NoActiveShowtime(t *testing.T) {
	var s Session
	assert.Equal(t, "0.00", s.TotalDisplay())
}

func TestCanSubmit_RequiresEveryPrecondition(t *testing.T) {
	build := func(mutate func(*Session)) *Session {
		s := &Session{}
		s.SetMovies([]model.Movie{{Id: "m1"}})
		token := s.BeginShowtimeLoad()
		s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
		s.ToggleSeat("A1")
		s.SetName("Jane")
		s.SetEmail("j@x.com")
		mutate(s)
		return s
	}

	assert.True(t, build(func(*Session) {}).CanSubmit())
	assert.False(t, build(func(s *Session) { s.ActiveShowtime = nil }).CanSubmit())
	assert.False(t, build(func(s *Session) { s.SetName("") }).CanSubmit())
	assert.False(t, build(func(s *Session) { s.SetEmail("") }).CanSubmit())
	assert.False(t, build(func(s *Session) { s.ToggleSeat("A1") }).CanSubmit())
	assert.False(t, build(func(s *Session) { s.BeginSubmit() }).CanSubmit())
}

func TestPayload(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1", Title: "Nova"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
	s.ToggleSeat("A1")
	s.ToggleSeat("B3")
	s.SetName("Jane")
	s.SetEmail("j@x.com")

	req := s.Payload()
	assert.Equal(t, model.BookingRequest{
		ShowtimeId:    "s1",
		CustomerName:  "Jane",
		CustomerEmail: "j@x.com",
		Seats:         []string{"A1", "B3"},
	}, req)
}

func TestApplyConfirmation(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
	s.ToggleSeat("A1")
	s.SetName("Jane")
	s.SetEmail("j@x.com")

	s.BeginSubmit()
	assert.Equal(t, StageSubmitting, s.Stage())

	s.ApplyConfirmation("bk1")
	assert.Equal(t, "bk1", s.ConfirmationId)
	assert.Equal(t, StageConfirmed, s.Stage())
}

func TestApplyConfirmation_FailureLeavesStateIntact(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
	s.ToggleSeat("A1")
	s.SetName("Jane")
	s.SetEmail("j@x.com")

	s.BeginSubmit()
	s.ApplyConfirmation("")

	assert.Empty(t, s.ConfirmationId)
	assert.Equal(t, []string{"A1"}, s.Selection.Seats())
	assert.Equal(t, "Jane", s.Contact.Name)
	assert.True(t, s.CanSubmit(), "user input must survive a failed submission")
}

func TestConfirmationDroppedOnLaterEdits(t *testing.T) {
	var s Session
	s.SetMovies([]model.Movie{{Id: "m1"}})
	token := s.BeginShowtimeLoad()
	s.ApplyShowtimes(token, []model.Showtime{testShowtime("s1", 10)})
	s.ToggleSeat("A1")
	s.SetName("Jane")
	s.SetEmail("j@x.com")
	s.BeginSubmit()
	s.ApplyConfirmation("bk1")

	s.ToggleSeat("A2")

	assert.Empty(t, s.ConfirmationId, "confirmation must not apply to an altered selection")
	assert.Equal(t, StageSeatsSelected, s.Stage())
}

func TestContact_EmailHint(t *testing.T) {
	assert.True(t, Contact{Name: "Jane", Email: "j@x.com"}.EmailLooksValid())
	assert.False(t, Contact{Name: "Jane", Email: "not-an-email"}.EmailLooksValid())
	// A malformed email still passes the submission gate.
	assert.True(t, Contact{Name: "Jane", Email: "not-an-email"}.Valid())
}

func TestFilterByTitle(t *testing.T) {
	movies := []model.Movie{{Id: "m1", Title: "Nova"}, {Id: "m2", Title: "Arrival"}}

	got := FilterByTitle(movies, "nov")
	require.Len(t, got, 1)
	assert.Equal(t, "Nova", got[0].Title)

	assert.Equal(t, movies, FilterByTitle(movies, ""))
	assert.Empty(t, FilterByTitle(movies, "zzz"))
	assert.Len(t, FilterByTitle(movies, "A"), 2)
}
