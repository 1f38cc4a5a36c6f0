package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color palette a Frame renders with.
type Theme struct {
	Primary lipgloss.Color // accent color
	Dim     lipgloss.Color // help and status text
}

// DefaultTheme is the stock bright green on dark theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles derives styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Section is one labeled panel inside a Frame. Content is a getter so the
// frame always renders the live buffer.
type Section struct {
	Label   string
	Content func() []string
}

// Frame is a full-screen bordered layout: title bar, stacked sections, and a
// help line at the bottom.
type Frame struct {
	Styles   Styles
	Title    string
	Status   string
	Sections []Section
	Help     string
}

// Render draws the frame into a width x height cell. Sections split the
// remaining height evenly; each shows the tail of its content.
func (f Frame) Render(width, height int) string {
	if width == 0 || height == 0 {
		return "Loading..."
	}

	border := f.Styles.Border
	inner := width - 4

	var b strings.Builder
	writeln := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	writeln(border.Render("╭" + strings.Repeat("─", width-2) + "╮"))
	writeln(f.titleLine(width))
	writeln(border.Render("│") + strings.Repeat(" ", width-2) + border.Render("│"))

	// 剩余高度均分给各 section：减去上下边框、标题、空行、帮助行和每个 section 的标签行
	count := max(len(f.Sections), 1)
	rows := max((height-5-count)/count, 2)

	for _, sec := range f.Sections {
		label := f.Styles.Label.Render(sec.Label)
		fill := max(0, width-3-lipgloss.Width(label))
		writeln(border.Render("├─") + label + border.Render(strings.Repeat("─", fill)+"┤"))

		for _, text := range tail(sec.Content(), rows) {
			if inner > 1 && lipgloss.Width(text) > inner {
				text = clipToWidth(text, inner-1) + "…"
			}
			pad := max(0, inner-lipgloss.Width(text))
			writeln(border.Render("│") + " " + text + strings.Repeat(" ", pad) + " " + border.Render("│"))
		}
	}

	writeln(border.Render("╰" + strings.Repeat("─", width-2) + "╯"))
	b.WriteString(f.Styles.Help.Render(f.Help))

	return b.String()
}

// titleLine lays out "│ title [status]            │".
func (f Frame) titleLine(width int) string {
	border := f.Styles.Border
	title := f.Styles.Title.Render(f.Title)
	status := f.Styles.Help.Render("[" + f.Status + "]")
	pad := max(0, width-5-lipgloss.Width(title)-lipgloss.Width(status))
	return border.Render("│") + " " + title + " " + status + strings.Repeat(" ", pad) + " " + border.Render("│")
}

// tail returns the last n entries of lines, padded with blanks up to n.
func tail(lines []string, n int) []string {
	out := make([]string, n)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	copy(out, lines)
	return out
}

// clipToWidth truncates s to the given display width without splitting a
// wide rune.
func clipToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	used := 0
	for i, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			return s[:i]
		}
		used += w
	}
	return s
}
