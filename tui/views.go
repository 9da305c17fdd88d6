package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"neon-cinema-cli/booking"
)

var (
	screenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("7")).
			Bold(true)

	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("5")).Bold(true)
	takenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	rowLabelStyle  = lipgloss.NewStyle().Faint(true)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
)

func screenBarBlock(width int) string {
	if width < 10 {
		width = 10
	}
	label := " S C R E E N "
	pad := (width - len(label)) / 2
	if pad < 0 {
		pad = 0
	}
	bar := strings.Repeat(" ", pad) + label + strings.Repeat(" ", width-pad-len(label))
	return screenStyle.Render(bar)
}

func (m appModel) renderSeatGrid() string {
	st := m.session.ActiveShowtime
	if st == nil {
		return hint("No showtime selected.")
	}

	cellWidth := 3
	if m.showSeatIDs {
		cellWidth = 4
	}
	gridWidth := st.Cols*cellWidth + 4

	var b strings.Builder
	b.WriteString(screenBarBlock(gridWidth))
	b.WriteString("\n\n")

	for r := 0; r < st.Rows; r++ {
		b.WriteString(rowLabelStyle.Render(fmt.Sprintf("%3s ", booking.RowLabel(r))))
		for c := 1; c <= st.Cols; c++ {
			id := booking.SeatID(r, c)
			cell := "[]"
			if m.showSeatIDs {
				cell = fmt.Sprintf("%-3s", id)
			}
			var style lipgloss.Style
			switch m.session.SeatStatus(id) {
			case booking.SeatTaken:
				style = takenStyle
				if !m.showSeatIDs {
					cell = "XX"
				}
			case booking.SeatSelected:
				style = selectedStyle
			default:
				style = availableStyle
			}
			if r == m.cursorRow && c == m.cursorCol {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(cell))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	legend := fmt.Sprintf("%s available  %s selected  %s taken",
		availableStyle.Render("[]"),
		selectedStyle.Render("[]"),
		takenStyle.Render("XX"))
	b.WriteString(legend)
	b.WriteString("\n\n")

	if n := m.session.Selection.Len(); n > 0 {
		b.WriteString(fmt.Sprintf("Selected: %s  •  Total: $%s\n",
			strings.Join(m.session.Selection.Seats(), ", "), m.session.TotalDisplay()))
		b.WriteString(hint("Press c to continue."))
	} else {
		b.WriteString(hint("Pick at least one seat to continue."))
	}
	return b.String()
}

func (m appModel) detailsView() string {
	var b strings.Builder
	b.WriteString("Your details\n\n")
	b.WriteString("Name:  " + m.nameInput.View() + "\n")
	b.WriteString("Email: " + m.emailInput.View() + "\n\n")
	if email := strings.TrimSpace(m.emailInput.Value()); email != "" && !(booking.Contact{Email: email}).EmailLooksValid() {
		b.WriteString(hint("That email does not look right.") + "\n\n")
	}
	b.WriteString(hint("tab switches field • enter continues • esc back"))
	return b.String()
}

func (m appModel) summaryView() string {
	st := m.session.ActiveShowtime
	if st == nil {
		return hint("Nothing to summarize yet.")
	}

	lines := []string{}
	if m.session.ActiveMovie != nil {
		lines = append(lines, fmt.Sprintf("Movie      %s", m.session.ActiveMovie.Title))
	}
	lines = append(lines,
		fmt.Sprintf("Showtime   %s", st.StartTime.Local().Format("Mon 02 Jan 15:04")),
		fmt.Sprintf("Room       %s", st.Auditorium),
		fmt.Sprintf("Seats      %s", strings.Join(m.session.Selection.Seats(), ", ")),
		fmt.Sprintf("Name       %s", m.session.Contact.Name),
		fmt.Sprintf("Email      %s", m.session.Contact.Email),
		"",
		fmt.Sprintf("Total      $%s", m.session.TotalDisplay()),
	)
	box := summaryBoxStyle.Render(strings.Join(lines, "\n"))

	var b strings.Builder
	b.WriteString("Booking summary\n\n")
	b.WriteString(box)
	b.WriteString("\n\n")
	if m.submitErr != nil {
		b.WriteString(errorStyle.Render("Could not complete the booking: "+m.submitErr.Error()) + "\n")
		b.WriteString(hint("Your selection is unchanged. Press enter to try again.") + "\n")
	} else if m.session.CanSubmit() {
		b.WriteString(hint("Press enter to confirm the booking.") + "\n")
	} else {
		b.WriteString(hint("Fill in your name and a valid email to confirm.") + "\n")
	}
	return b.String()
}

func (m appModel) confirmedView() string {
	var b strings.Builder
	b.WriteString(okStyle.Render("Booking confirmed!") + "\n\n")
	b.WriteString(fmt.Sprintf("Confirmation id: %s\n", m.session.ConfirmationId))
	if st := m.session.ActiveShowtime; st != nil {
		b.WriteString(fmt.Sprintf("Seats %s for %s\n",
			strings.Join(m.session.Selection.Seats(), ", "),
			st.StartTime.Local().Format("Mon 02 Jan 15:04")))
	}
	b.WriteString("\n" + hint("Press esc to pick different seats for a new booking."))
	return b.String()
}
