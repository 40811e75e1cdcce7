package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the palette for one look. PieceColors follow kind order
// (I, O, T, S, Z, J, L).
type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	AccentColor lipgloss.Color
	GhostColor  lipgloss.Color
	PieceColors []lipgloss.Color
}

var themes = []Theme{
	{
		Name:        "Classic Arcade",
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
		GhostColor:  lipgloss.Color("240"),
		PieceColors: []lipgloss.Color{"51", "226", "93", "46", "196", "21", "208"},
	},
	{
		Name:        "Amber Terminal",
		BorderColor: lipgloss.Color("214"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("208"),
		GhostColor:  lipgloss.Color("94"),
		PieceColors: []lipgloss.Color{"220", "214", "222", "208", "215", "216", "223"},
	},
	{
		Name:        "Ocean Neon",
		BorderColor: lipgloss.Color("33"),
		TextColor:   lipgloss.Color("159"),
		AccentColor: lipgloss.Color("39"),
		GhostColor:  lipgloss.Color("24"),
		PieceColors: []lipgloss.Color{"45", "39", "51", "44", "50", "75", "81"},
	},
	{
		Name:        "Mono Matrix",
		BorderColor: lipgloss.Color("250"),
		TextColor:   lipgloss.Color("245"),
		AccentColor: lipgloss.Color("82"),
		GhostColor:  lipgloss.Color("237"),
		PieceColors: []lipgloss.Color{"236", "239", "242", "245", "248", "251", "254"},
	},
	{
		Name:        "Volcanic",
		BorderColor: lipgloss.Color("203"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("214"),
		GhostColor:  lipgloss.Color("52"),
		PieceColors: []lipgloss.Color{"52", "88", "124", "160", "196", "202", "208"},
	},
}

const scoresPageSize = 10

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

func (m Model) theme() Theme {
	return themes[m.themeIndex]
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.AccentColor)
}

func textStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.TextColor)
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Faint(true).Foreground(theme.TextColor)
}

func panelStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1)
}

func selectedStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.AccentColor)
}

func center(width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderMenu(title string, items []string, index int, help string, theme Theme) string {
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render(title))
	b.WriteString("\n\n")
	for i, item := range items {
		if i == index {
			b.WriteString(selectedStyle(theme).Render("> " + item))
		} else {
			b.WriteString(textStyle(theme).Render("  " + item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render(help))
	return panelStyle(theme).Render(b.String())
}

func viewMenu(m Model) string {
	theme := m.theme()
	menu := renderMenu("BLOCKFALL", menuItems, m.menuIndex, "Enter to select, Q to quit", theme)
	high := helpStyle(theme).Render(fmt.Sprintf("High score: %d", m.highScore))
	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, menu, high))
}

func viewThemes(m Model) string {
	theme := m.theme()
	items := make([]string, 0, len(themes))
	for _, t := range themes {
		items = append(items, t.Name)
	}
	preview := renderPiecePreviewRow(theme)
	menu := renderMenu("Themes", items, m.themeIndex, "Enter to apply, Esc to back", theme)
	return center(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center, preview, "", menu))
}

func renderPiecePreviewRow(theme Theme) string {
	var cells []string
	for kind := 0; kind < pieceKindCount; kind++ {
		style := lipgloss.NewStyle().Foreground(theme.PieceColors[kind])
		cells = append(cells, style.Render("██"))
	}
	return strings.Join(cells, " ")
}

func viewScores(m Model) string {
	theme := m.theme()
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Scores"))
	b.WriteString("\n\n")
	b.WriteString(textStyle(theme).Render(fmt.Sprintf("High score: %d", m.highScore)))
	b.WriteString("\n\n")
	if len(m.scores) == 0 {
		b.WriteString(helpStyle(theme).Render("No scores yet."))
		b.WriteString("\n")
	}
	end := m.scoresOffset + scoresPageSize
	if end > len(m.scores) {
		end = len(m.scores)
	}
	for i := m.scoresOffset; i < end; i++ {
		entry := m.scores[i]
		line := fmt.Sprintf("%2d. %-12s %7d  L%-2d %s", i+1, entry.Name, entry.Score, entry.Level, entry.When)
		b.WriteString(textStyle(theme).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("Esc to back"))
	return center(m.width, m.height, panelStyle(theme).Render(b.String()))
}

func viewConfig(m Model) string {
	theme := m.theme()
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Config"))
	b.WriteString("\n\n")
	values := []string{
		onOff(m.config.Sound),
		fmt.Sprintf("%d%%", m.config.Volume),
		onOff(m.config.Ghost),
		fmt.Sprintf("%d", m.config.Lookahead),
		fmt.Sprintf("%dx", m.config.Scale),
	}
	for i, item := range configItems {
		line := fmt.Sprintf("%-14s %s", item, values[i])
		if i == m.configIndex {
			b.WriteString(selectedStyle(theme).Render("> " + line))
		} else {
			b.WriteString(textStyle(theme).Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("Enter/arrows to change, Esc to back"))
	return center(m.width, m.height, panelStyle(theme).Render(b.String()))
}

func viewNameEntry(m Model) string {
	theme := m.theme()
	stats := m.game.Stats()
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Game Over"))
	b.WriteString("\n\n")
	if m.newHighScore {
		b.WriteString(selectedStyle(theme).Render("NEW HIGH SCORE!"))
		b.WriteString("\n")
	}
	b.WriteString(textStyle(theme).Render(fmt.Sprintf("Score %d  Lines %d  Level %d", stats.Score, stats.Lines, stats.Level)))
	b.WriteString("\n\n")
	b.WriteString(textStyle(theme).Render("Enter your name:"))
	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle(theme).Render("Enter to save, Esc to skip"))
	return center(m.width, m.height, panelStyle(theme).Render(b.String()))
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}

func viewGame(m Model) string {
	theme := m.theme()
	snap := m.game.Snapshot(m.config.Lookahead, m.config.Ghost)
	board := renderBoard(m, snap, theme)
	side := renderSidePanel(m, snap, theme)
	content := lipgloss.JoinHorizontal(lipgloss.Top, board, " ", side)
	return center(m.width, m.height, content)
}

func renderBoard(m Model, snap Snapshot, theme Theme) string {
	flashOn := m.flashUntil.After(time.Now())
	flash := make(map[int]bool, len(m.flashRows))
	if flashOn {
		for _, y := range m.flashRows {
			flash[y] = true
		}
	}
	ghost := make(map[Point]bool, len(snap.Ghost))
	for _, p := range snap.Ghost {
		ghost[p] = true
	}
	cell := strings.Repeat("█", 2*m.config.Scale)
	ghostCell := strings.Repeat("░", 2*m.config.Scale)
	emptyCell := strings.Repeat(" ·", m.config.Scale)
	flashStyle := lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
	ghostStyle := lipgloss.NewStyle().Foreground(theme.GhostColor)
	emptyStyle := lipgloss.NewStyle().Faint(true).Foreground(theme.TextColor)

	var b strings.Builder
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			tag := snap.Cells[y][x]
			switch {
			case flash[y]:
				b.WriteString(flashStyle.Render(cell))
			case tag > 0:
				style := lipgloss.NewStyle().Foreground(theme.PieceColors[tag-1])
				b.WriteString(style.Render(cell))
			case ghost[Point{X: x, Y: y}]:
				b.WriteString(ghostStyle.Render(ghostCell))
			default:
				b.WriteString(emptyStyle.Render(emptyCell))
			}
		}
		if y < boardHeight-1 {
			b.WriteString("\n")
		}
	}
	board := panelStyle(theme).Render(b.String())
	if overlay := statusOverlay(m, snap, theme); overlay != "" {
		return lipgloss.JoinVertical(lipgloss.Center, board, overlay)
	}
	return board
}

func statusOverlay(m Model, snap Snapshot, theme Theme) string {
	switch {
	case m.startCount > 0:
		return titleStyle(theme).Render(fmt.Sprintf("Starting in %d...", m.startCount))
	case snap.Status == StatusPaused:
		return titleStyle(theme).Render("PAUSED - press P to resume")
	case snap.Status == StatusGameOver:
		return titleStyle(theme).Render("GAME OVER")
	}
	return ""
}

func renderSidePanel(m Model, snap Snapshot, theme Theme) string {
	sections := []string{
		renderHoldBox(snap, theme),
		renderQueueBox(snap, theme),
		renderStatsBox(m, snap, theme),
		helpStyle(theme).Render("←→ move  ↑ rotate  ↓ drop\nspace hard drop  C hold\nP pause  Esc menu"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHoldBox(snap Snapshot, theme Theme) string {
	var body string
	if snap.HasHold {
		body = renderMiniPiece(snap.Hold, theme)
	} else {
		body = helpStyle(theme).Render("empty")
	}
	return panelStyle(theme).Render(titleStyle(theme).Render("Hold") + "\n" + body)
}

func renderQueueBox(snap Snapshot, theme Theme) string {
	parts := []string{titleStyle(theme).Render("Next")}
	for _, kind := range snap.Queue {
		parts = append(parts, renderMiniPiece(kind, theme))
	}
	return panelStyle(theme).Render(strings.Join(parts, "\n"))
}

// renderMiniPiece draws the spawn rotation of a kind on a small grid.
func renderMiniPiece(kind PieceKind, theme Theme) string {
	style := lipgloss.NewStyle().Foreground(theme.PieceColors[kind])
	rows := shapeSpecs[kind][0]
	var lines []string
	for _, row := range rows {
		if !strings.Contains(row, "1") {
			continue
		}
		var b strings.Builder
		for i := 0; i < len(row); i++ {
			if row[i] == '1' {
				b.WriteString(style.Render("██"))
			} else {
				b.WriteString("  ")
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func renderStatsBox(m Model, snap Snapshot, theme Theme) string {
	stats := snap.Stats
	lines := []string{
		titleStyle(theme).Render("Stats"),
		fmt.Sprintf("Score   %d", stats.Score),
		fmt.Sprintf("High    %d", m.highScore),
		fmt.Sprintf("Level   %d", stats.Level),
		fmt.Sprintf("Lines   %d", stats.Lines),
		fmt.Sprintf("Combo   %d (max %d)", stats.Combo, stats.MaxCombo),
		fmt.Sprintf("Tetris  %d", stats.Tetrises),
		fmt.Sprintf("Pieces  %d", stats.Pieces),
		fmt.Sprintf("Time    %s", formatPlayTime(stats.PlaySeconds)),
	}
	if m.lastDelta > 0 && m.lastDeltaTil.After(time.Now()) {
		lines = append(lines, selectedStyle(theme).Render(fmt.Sprintf("+%d", m.lastDelta)))
	}
	styled := make([]string, len(lines))
	styled[0] = lines[0]
	for i := 1; i < len(lines); i++ {
		styled[i] = textStyle(theme).Render(lines[i])
	}
	return panelStyle(theme).Render(strings.Join(styled, "\n"))
}

func formatPlayTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
