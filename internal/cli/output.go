package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	colorAccent  = lipgloss.Color("#3A7CA5")
	colorMuted   = lipgloss.Color("#6C7A89")
	colorSuccess = lipgloss.Color("#2E8B57")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorStar    = lipgloss.Color("#E0A800")
)

var styles = struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Star    lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Star:    lipgloss.NewStyle().Foreground(colorStar),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
}

const (
	iconSuccess = "✓"
	iconWarning = "⚠"
	iconStar    = "★"
)

// shortID is the id prefix shown in listings; commands accept it back.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Success.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Warning.Render(iconWarning)+" "+fmt.Sprintf(format, args...))
}

func favoriteMark(b entities.Book) string {
	if !b.IsFavorite {
		return ""
	}
	return " " + styles.Star.Render(iconStar)
}

// renderBookLine formats one row of a listing. position is 1-based.
func renderBookLine(position int, b entities.Book) string {
	return fmt.Sprintf("%3d  %s  %s %s %s %s%s",
		position,
		styles.Muted.Render(shortID(b.ID)),
		b.Status.Emoji(),
		styles.Title.Render(b.Title),
		styles.Muted.Render("by"),
		b.Author,
		favoriteMark(b),
	)
}

func renderBookDetail(b entities.Book) string {
	var sb strings.Builder
	sb.WriteString(styles.Header.Render(b.Title) + favoriteMark(b) + "\n")
	sb.WriteString("by " + b.Author + "\n\n")
	sb.WriteString(fmt.Sprintf("Status: %s %s\n", b.Status.Emoji(), b.Status))
	sb.WriteString("ID:     " + styles.Muted.Render(b.ID.String()))
	if b.Note != "" {
		sb.WriteString("\nNote:   " + b.Note)
	}
	if b.Synopsis != nil {
		sb.WriteString("\n\n" + styles.Muted.Render(*b.Synopsis))
	}
	return styles.Box.Render(sb.String())
}

func renderStats(stats collection.Stats) string {
	parts := make([]string, 0, len(stats.ByStatus)+2)
	parts = append(parts, fmt.Sprintf("%d books", stats.Total))
	for _, status := range entities.AllReadingStatuses() {
		parts = append(parts, fmt.Sprintf("%s %d", status.Emoji(), stats.ByStatus[status]))
	}
	parts = append(parts, fmt.Sprintf("%s %d", iconStar, stats.Favorites))
	return styles.Muted.Render(strings.Join(parts, "  "))
}

// reportMutation prints the result of a single-book change.
func reportMutation(w io.Writer, verb string, b entities.Book, outcome collection.Outcome) {
	switch outcome {
	case collection.Duplicate:
		printWarning(w, "%q by %s is already in your books (%s)", b.Title, b.Author, shortID(b.ID))
	case collection.NotFound:
		printWarning(w, "book not found")
	case collection.Invalid:
		// the command returns the error
	default:
		printSuccess(w, "%s %q by %s (%s)", verb, b.Title, b.Author, shortID(b.ID))
	}
}
