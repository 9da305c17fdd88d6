package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"neon-cinema-cli/booking"
	"neon-cinema-cli/history"
	"neon-cinema-cli/model"
	"neon-cinema-cli/service"
	"neon-cinema-cli/store"
)

type appState int

const (
	stateLoadingMovies appState = iota
	stateSelectMovie
	stateLoadingShowtimes
	stateSelectShowtime
	stateSelectSeats
	stateEnterDetails
	stateSummary
	stateSubmitting
	stateConfirmed
	stateError
)

type appModel struct {
	client   *service.Client
	bookings *history.Store
	logger   *log.Logger

	state     appState
	lastState appState
	err       error
	submitErr error

	width  int
	height int

	session booking.Session

	movieList    list.Model
	showtimeList list.Model

	cursorRow int
	cursorCol int

	nameInput   textinput.Model
	emailInput  textinput.Model
	detailFocus int

	showSeatIDs bool

	spinner spinner.Model
}

type errMsg struct {
	err error
}

type moviesMsg struct {
	movies []model.Movie
	err    error
}

type showtimesMsg struct {
	token     uint64
	movieID   string
	showtimes []model.Showtime
	err       error
}

type bookingMsg struct {
	confirmation model.BookingConfirmation
	err          error
}

// New builds the interactive booking application. bookings may be nil;
// confirmed bookings are then simply not recorded locally.
func New(client *service.Client, bookings *history.Store, logger *log.Logger) tea.Model {
	if logger == nil {
		logger = log.Default()
	}
	m := appModel{
		client:   client,
		bookings: bookings,
		logger:   logger,
		state:    stateLoadingMovies,
	}

	m.movieList = newList("Now Showing")
	m.showtimeList = newList("Showtimes")

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Full name"
	m.nameInput.CharLimit = 120
	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "Email"
	m.emailInput.CharLimit = 254
	if contact, err := store.LoadRecentContact(); err == nil {
		m.nameInput.SetValue(contact.Name)
		m.emailInput.SetValue(contact.Email)
	}

	m.showSeatIDs = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchMoviesCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateEnterDetails {
			return m.updateDetails(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.lastState = recoverStateFrom(m.state)
		m.state = stateError
		return m, nil

	case moviesMsg:
		if msg.err != nil {
			// An unreachable backend degrades to an empty catalog; the
			// list view reports "no movies" instead of failing.
			m.logger.Warn("could not load movie catalog", "err", msg.err)
		}
		active := m.session.SetMovies(msg.movies)
		m.movieList.SetItems(buildMovieItems(msg.movies))
		m.state = stateSelectMovie
		if active != nil {
			token := m.session.BeginShowtimeLoad()
			return m, m.fetchShowtimesCmd(active.Id, token)
		}
		return m, nil

	case showtimesMsg:
		if msg.err != nil {
			m.logger.Warn("could not load showtimes", "movie_id", msg.movieID, "err", msg.err)
		}
		if !m.session.ApplyShowtimes(msg.token, msg.showtimes) {
			// A newer fetch was started after this one; drop the result.
			return m, nil
		}
		m.showtimeList.SetItems(buildShowtimeItems(msg.showtimes))
		m.showtimeList.Select(0)
		if m.state == stateLoadingShowtimes {
			m.state = stateSelectShowtime
		}
		return m, nil

	case bookingMsg:
		if msg.err != nil {
			m.session.ApplyConfirmation("")
			m.submitErr = msg.err
			m.logger.Warn("booking submission failed", "err", msg.err)
			m.state = stateSummary
			return m, nil
		}
		m.submitErr = nil
		m.session.ApplyConfirmation(msg.confirmation.Id)
		m.recordConfirmedBooking()
		m.state = stateConfirmed
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingMovies, stateLoadingShowtimes:
		return header + "\n\n" + m.loadingView()
	case stateSelectMovie:
		if len(m.movieList.Items()) == 0 {
			return header + "\n\n" + hint("No movies available.") + "\n" + hint("Press r to retry or ctrl+c to quit.")
		}
		return header + "\n\n" + m.movieList.View()
	case stateSelectShowtime:
		if len(m.showtimeList.Items()) == 0 {
			return header + "\n\n" + hint("No showtimes yet for this movie.") + "\n" + hint("Press esc to pick another movie.")
		}
		return header + "\n\n" + m.showtimeList.View()
	case stateSelectSeats:
		return header + "\n\n" + m.renderSeatGrid()
	case stateEnterDetails:
		return header + "\n\n" + m.detailsView()
	case stateSummary:
		return header + "\n\n" + m.summaryView()
	case stateSubmitting:
		return header + "\n\n" + fmt.Sprintf("%s Submitting booking...", m.spinner.View())
	case stateConfirmed:
		return header + "\n\n" + m.confirmedView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Neon Cinema")
	sub := []string{}
	if m.session.ActiveMovie != nil {
		sub = append(sub, fmt.Sprintf("Movie: %s", m.session.ActiveMovie.Title))
	}
	if st := m.session.ActiveShowtime; st != nil {
		sub = append(sub, fmt.Sprintf("Showtime: %s • %s", st.StartTime.Local().Format("Mon 02/01 15:04"), st.Auditorium))
	}
	if n := m.session.Selection.Len(); n > 0 {
		sub = append(sub, fmt.Sprintf("Seats: %s", strings.Join(m.session.Selection.Seats(), ", ")))
		sub = append(sub, fmt.Sprintf("Total: $%s", m.session.TotalDisplay()))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back"
	switch m.state {
	case stateSelectMovie:
		hints = "ctrl+c quit • type to search • enter select movie • r reload"
	case stateSelectShowtime:
		hints = "ctrl+c quit • esc back • type to filter • enter select showtime"
	case stateSelectSeats:
		hints = "ctrl+c quit • esc back • arrows move • space/enter toggle seat • n toggle labels • c continue"
	case stateSummary:
		hints = "ctrl+c quit • esc back • enter confirm booking"
	case stateConfirmed:
		hints = "ctrl+c quit • esc edit seats for a new booking"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Search: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		return m.goBack()
	case "r":
		if m.state == stateSelectMovie {
			m.state = stateLoadingMovies
			return m, tea.Batch(m.fetchMoviesCmd(), m.spinner.Tick), true
		}
	case "n":
		if m.state == stateSelectSeats {
			m.showSeatIDs = !m.showSeatIDs
			return m, nil, true
		}
	case "c":
		if m.state == stateSelectSeats {
			if m.session.Selection.Len() == 0 {
				return m, nil, true
			}
			m.detailFocus = 0
			m.nameInput.Focus()
			m.emailInput.Blur()
			m.state = stateEnterDetails
			return m, textinput.Blink, true
		}
	case " ":
		if m.state == stateSelectSeats {
			m.toggleSeatUnderCursor()
			return m, nil, true
		}
	case "up", "k":
		if m.state == stateSelectSeats {
			m.moveCursor(-1, 0)
			return m, nil, true
		}
	case "down", "j":
		if m.state == stateSelectSeats {
			m.moveCursor(1, 0)
			return m, nil, true
		}
	case "left", "h":
		if m.state == stateSelectSeats {
			m.moveCursor(0, -1)
			return m, nil, true
		}
	case "right", "l":
		if m.state == stateSelectSeats {
			m.moveCursor(0, 1)
			return m, nil, true
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectMovie:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.session.SetActiveMovie(item.movie)
			m.showtimeList.SetItems(nil)
			token := m.session.BeginShowtimeLoad()
			m.state = stateLoadingShowtimes
			return m, tea.Batch(m.fetchShowtimesCmd(item.movie.Id, token), m.spinner.Tick), true
		case stateSelectShowtime:
			item, ok := m.showtimeList.SelectedItem().(showtimeItem)
			if !ok {
				return m, nil, true
			}
			m.session.SetActiveShowtime(item.showtime)
			m.cursorRow, m.cursorCol = 0, 1
			m.state = stateSelectSeats
			return m, nil, true
		case stateSelectSeats:
			m.toggleSeatUnderCursor()
			return m, nil, true
		case stateSummary:
			return m.submitFromSummary()
		case stateConfirmed:
			m.state = stateSelectSeats
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m appModel) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectSeats
		return m, nil
	case "tab", "shift+tab":
		if m.detailFocus == 0 {
			m.detailFocus = 1
			m.nameInput.Blur()
			m.emailInput.Focus()
		} else {
			m.detailFocus = 0
			m.emailInput.Blur()
			m.nameInput.Focus()
		}
		return m, textinput.Blink
	case "enter":
		if m.detailFocus == 0 {
			m.detailFocus = 1
			m.nameInput.Blur()
			m.emailInput.Focus()
			return m, textinput.Blink
		}
		m.session.SetName(m.nameInput.Value())
		m.session.SetEmail(m.emailInput.Value())
		m.submitErr = nil
		m.state = stateSummary
		return m, nil
	}

	var cmd tea.Cmd
	if m.detailFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) submitFromSummary() (appModel, tea.Cmd, bool) {
	m.session.SetName(m.nameInput.Value())
	m.session.SetEmail(m.emailInput.Value())
	if !m.session.CanSubmit() {
		return m, nil, true
	}
	payload := m.session.Payload()
	m.session.BeginSubmit()
	m.state = stateSubmitting
	return m, tea.Batch(m.submitBookingCmd(payload), m.spinner.Tick), true
}

func (m *appModel) goBack() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateSelectShowtime:
		m.state = stateSelectMovie
	case stateSelectSeats:
		m.state = stateSelectShowtime
	case stateEnterDetails:
		m.state = stateSelectSeats
	case stateSummary:
		m.state = stateEnterDetails
		m.nameInput.Focus()
		m.emailInput.Blur()
		m.detailFocus = 0
	case stateConfirmed:
		m.state = stateSelectSeats
	case stateError:
		m.state = m.lastState
	default:
		return *m, nil, true
	}
	return *m, nil, true
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		// Single letters double as shortcuts in the movie list.
		if len(msg.Runes) == 1 && msg.Runes[0] == 'r' && m.state == stateSelectMovie && listPtr.FilterValue() == "" {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectMovie:
		return &m.movieList
	case stateSelectShowtime:
		return &m.showtimeList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingMovies ||
		m.state == stateLoadingShowtimes ||
		m.state == stateSubmitting
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingMovies:
		title = "Loading movies"
	case stateLoadingShowtimes:
		title = "Loading showtimes"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
}

func (m *appModel) moveCursor(dr int, dc int) {
	st := m.session.ActiveShowtime
	if st == nil {
		return
	}
	m.cursorRow += dr
	m.cursorCol += dc
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
	if m.cursorRow > st.Rows-1 {
		m.cursorRow = st.Rows - 1
	}
	if m.cursorCol < 1 {
		m.cursorCol = 1
	}
	if m.cursorCol > st.Cols {
		m.cursorCol = st.Cols
	}
}

func (m *appModel) toggleSeatUnderCursor() {
	st := m.session.ActiveShowtime
	if st == nil {
		return
	}
	m.session.ToggleSeat(booking.SeatID(m.cursorRow, m.cursorCol))
}

func (m *appModel) recordConfirmedBooking() {
	contact := store.RecentContact{Name: m.session.Contact.Name, Email: m.session.Contact.Email}
	if err := store.RememberContact(contact); err != nil {
		m.logger.Debug("could not remember contact", "err", err)
	}
	st := m.session.ActiveShowtime
	if st == nil {
		return
	}
	// The backend now holds these seats; drop the cached list so the
	// next fetch sees them as taken.
	if err := store.InvalidateShowtimeCache(st.MovieId); err != nil {
		m.logger.Debug("could not invalidate showtime cache", "err", err)
	}
	if m.bookings == nil {
		return
	}
	entry := history.Entry{
		BookingId:    m.session.ConfirmationId,
		ShowtimeId:   st.Id,
		StartTime:    st.StartTime,
		Auditorium:   st.Auditorium,
		Seats:        m.session.Selection.Seats(),
		Total:        m.session.TotalDisplay(),
		CustomerName: m.session.Contact.Name,
	}
	if m.session.ActiveMovie != nil {
		entry.MovieTitle = m.session.ActiveMovie.Title
	}
	if _, err := m.bookings.Record(entry); err != nil {
		m.logger.Warn("could not record booking locally", "err", err)
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingMovies:
		return stateSelectMovie
	case stateLoadingShowtimes:
		return stateSelectMovie
	case stateSubmitting:
		return stateSummary
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) fetchMoviesCmd() tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadMovieCache(); err == nil && fresh && len(cached) > 0 {
			return moviesMsg{movies: cached}
		}
		ctx := context.Background()
		movies, err := m.client.GetMovies(ctx)
		if err == nil && len(movies) > 0 {
			_ = store.SaveMovieCache(movies)
		}
		return moviesMsg{movies: movies, err: err}
	}
}

func (m appModel) fetchShowtimesCmd(movieID string, token uint64) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadShowtimeCache(movieID); err == nil && fresh && len(cached) > 0 {
			return showtimesMsg{token: token, movieID: movieID, showtimes: cached}
		}
		ctx := context.Background()
		showtimes, err := m.client.GetShowtimes(ctx, movieID)
		if err != nil {
			if service.IsNotFound(err) {
				return showtimesMsg{token: token, movieID: movieID}
			}
			return showtimesMsg{token: token, movieID: movieID, err: err}
		}
		if len(showtimes) > 0 {
			_ = store.SaveShowtimeCache(movieID, showtimes)
		}
		return showtimesMsg{token: token, movieID: movieID, showtimes: showtimes}
	}
}

func (m appModel) submitBookingCmd(payload model.BookingRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		confirmation, err := m.client.CreateBooking(ctx, payload)
		return bookingMsg{confirmation: confirmation, err: err}
	}
}

type movieItem struct {
	movie model.Movie
}

func (i movieItem) Title() string {
	return i.movie.Title
}

func (i movieItem) Description() string {
	parts := []string{}
	if i.movie.DurationMins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", i.movie.DurationMins))
	}
	if i.movie.Genre != "" {
		parts = append(parts, i.movie.Genre)
	}
	if i.movie.Rating != "" {
		parts = append(parts, i.movie.Rating)
	}
	if len(parts) == 0 && i.movie.Description != "" {
		return i.movie.Description
	}
	return strings.Join(parts, " • ")
}

func (i movieItem) FilterValue() string {
	return strings.ToLower(i.movie.Title)
}

type showtimeItem struct {
	showtime model.Showtime
}

func (i showtimeItem) Title() string {
	return fmt.Sprintf("%s • %s", i.showtime.StartTime.Local().Format("Mon 02/01 15:04"), i.showtime.Auditorium)
}

func (i showtimeItem) Description() string {
	seats := i.showtime.Rows * i.showtime.Cols
	free := seats - len(i.showtime.TakenSeats)
	return fmt.Sprintf("$%.2f per seat • %d of %d seats free", i.showtime.Price, free, seats)
}

func (i showtimeItem) FilterValue() string {
	return strings.ToLower(i.Title())
}

func buildMovieItems(movies []model.Movie) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie: movie})
	}
	return items
}

func buildShowtimeItems(showtimes []model.Showtime) []list.Item {
	items := make([]list.Item, 0, len(showtimes))
	for _, showtime := range showtimes {
		items = append(items, showtimeItem{showtime: showtime})
	}
	return items
}
