package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gujitrio/ping/pkg/domain"
)

// Pulse animation for the 핑! logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// The logo ramps from deep ember to the bright signal orange of the
// emergency button.
var logoRamp = colorRamp{
	lo: [3]float64{90, 38, 8},    // #5a2608
	hi: [3]float64{255, 138, 61}, // #ff8a3d
}

// renderShimmerLogo renders "P I N G !" with a pulse of light spreading
// outward from the center, like a pressed emergency button.
func renderShimmerLogo(frame int) string {
	const text = "PING!"
	center := float64(len(text)-1) / 2

	var out strings.Builder
	t := float64(frame)
	for i := 0; i < len(text); i++ {
		// Letters further from the center light up later in the pulse.
		dist := math.Abs(float64(i)-center) / center

		b := math.Cos(t*0.12-dist*2.4)*0.5 + 0.5
		b = 0.12 + 0.88*b*b

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(logoRamp.at(b))
		out.WriteString(s.Render(string(text[i])))
		if i < len(text)-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

// colorRamp interpolates between two RGB endpoints.
type colorRamp struct {
	lo, hi [3]float64
}

// at returns the ramp color for a 0..1 position. Out-of-range positions
// clamp to the endpoints.
func (r colorRamp) at(pos float64) lipgloss.Color {
	pos = math.Min(math.Max(pos, 0), 1)
	var c [3]int
	for i := range c {
		c[i] = clampByte(r.lo[i] + pos*(r.hi[i]-r.lo[i]))
	}
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2]))
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Emergency-button orange, the product accent
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B00")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Form chrome
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0")).
			Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF3B30"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34C759"))

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	// Copy buttons on coordinate rows
	copyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34C759")).
			Bold(true)

	// Emergency call buttons
	policeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3478F6")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF3B30")).
			Bold(true)

	// Map overlay styles
	mapPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	mapMarkerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B00")).
			Bold(true)

	mapLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	mapFrameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2a"))
)

// riskColors maps a risk level to its badge color. Unknown levels fall
// back to neutral gray.
var riskColors = map[string]lipgloss.Color{
	domain.RiskHigh:   lipgloss.Color("#FF3B30"),
	domain.RiskMedium: lipgloss.Color("#FF9500"),
	domain.RiskLow:    lipgloss.Color("#34C759"),
}

// RiskColor returns the hex color token for a risk level.
func RiskColor(level string) lipgloss.Color {
	if c, ok := riskColors[level]; ok {
		return c
	}
	return lipgloss.Color("#888888")
}

// RiskStyle returns a bold style colored for the given risk level.
func RiskStyle(level string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(RiskColor(level)).Bold(true)
}

// RiskBadge renders a colored "● 상" style badge for a risk level.
func RiskBadge(level string) string {
	return RiskStyle(level).Render("● " + level)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
