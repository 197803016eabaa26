package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the active color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type palette struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Gold, Cyan, Green, Red     lipgloss.Color
}

// Tokyo Night and its light variant.
var (
	darkPalette = palette{
		Bg:      lipgloss.Color("#1a1b26"),
		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),
		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#787fa0"),
		Accent:  lipgloss.Color("#7aa2f7"),
		Gold:    lipgloss.Color("#e0af68"),
		Cyan:    lipgloss.Color("#7dcfff"),
		Green:   lipgloss.Color("#9ece6a"),
		Red:     lipgloss.Color("#f7768e"),
	}
	lightPalette = palette{
		Bg:      lipgloss.Color("#d5d6db"),
		Surface: lipgloss.Color("#e9e9ec"),
		Border:  lipgloss.Color("#9699a3"),
		Text:    lipgloss.Color("#343b58"),
		TextDim: lipgloss.Color("#6a6d7c"),
		Accent:  lipgloss.Color("#34548a"),
		Gold:    lipgloss.Color("#8f5e15"),
		Cyan:    lipgloss.Color("#166775"),
		Green:   lipgloss.Color("#485e30"),
		Red:     lipgloss.Color("#8c4351"),
	}
)

var (
	themeMu      sync.RWMutex
	currentTheme = ThemeDark
	colors       = darkPalette

	titleStyle    lipgloss.Style
	badgeStyle    lipgloss.Style
	inputBoxStyle lipgloss.Style
	rowStyle      lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	starStyle     lipgloss.Style
	countStyle    lipgloss.Style
	errorStyle    lipgloss.Style
	panelStyle    lipgloss.Style
	suggestStyle  lipgloss.Style
)

func init() {
	InitTheme(string(ThemeDark))
}

// InitTheme switches palettes and rebuilds every style. Anything other than
// "light" selects the dark palette.
func InitTheme(theme string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	if theme == string(ThemeLight) {
		currentTheme, colors = ThemeLight, lightPalette
	} else {
		currentTheme, colors = ThemeDark, darkPalette
	}

	titleStyle = lipgloss.NewStyle().Foreground(colors.Accent).Bold(true)
	badgeStyle = lipgloss.NewStyle().
		Foreground(colors.Bg).
		Background(colors.Cyan).
		Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colors.Accent).
		Padding(0, 1)
	rowStyle = lipgloss.NewStyle().Foreground(colors.Text)
	selectedStyle = lipgloss.NewStyle().
		Foreground(colors.Bg).
		Background(colors.Accent).
		Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(colors.TextDim)
	starStyle = lipgloss.NewStyle().Foreground(colors.Gold)
	countStyle = lipgloss.NewStyle().Foreground(colors.Green).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colors.Red)
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colors.Border).
		PaddingLeft(1)
	suggestStyle = lipgloss.NewStyle().Foreground(colors.TextDim).Italic(true)
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}
