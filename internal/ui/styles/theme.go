package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a color scheme for the application.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color
	Accent  lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

var Dark = Theme{
	Name: "Dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#bb9af7"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

var Light = Theme{
	Name: "Light",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary: lipgloss.Color("#2e7de9"),
	Accent:  lipgloss.Color("#9854f1"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
}

// Styles holds the pre-computed lipgloss styles for one theme.
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style

	CalHeader    lipgloss.Style
	CalWeekday   lipgloss.Style
	CalDay       lipgloss.Style
	CalDayMuted  lipgloss.Style
	CalToday     lipgloss.Style
	CalCursor    lipgloss.Style
	CalSelected  lipgloss.Style
	DotPending   lipgloss.Style
	DotComplete  lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	TaskDone     lipgloss.Style
	PriorityHigh lipgloss.Style
	PriorityMed  lipgloss.Style
	PriorityLow  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	ErrorBar lipgloss.Style
	Dialog   lipgloss.Style
}

// NewStyles builds the style set for a theme; rebuilt when the theme toggles.
func NewStyles(t Theme) *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PaneFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		CalHeader: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Align(lipgloss.Center),

		CalWeekday: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CalDay: lipgloss.NewStyle().
			Foreground(t.Foreground),

		CalDayMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		CalToday: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		CalCursor: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		CalSelected: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true),

		DotPending: lipgloss.NewStyle().
			Foreground(t.Accent),

		DotComplete: lipgloss.NewStyle().
			Foreground(t.Success),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 1).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		PriorityHigh: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		PriorityMed: lipgloss.NewStyle().
			Foreground(t.Warning),

		PriorityLow: lipgloss.NewStyle().
			Foreground(t.Success),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		ErrorBar: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true).
			Padding(0, 1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(1, 2),
	}
}
