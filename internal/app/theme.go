package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ConsoleTheme provides a custom theme for the scanner console: a dark
// reading-room palette with a cyan accent for the planning overlay.
type ConsoleTheme struct{}

var _ fyne.Theme = (*ConsoleTheme)(nil)

func (t *ConsoleTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x12, G: 0x14, B: 0x17, A: 0xFF} // Dark for reading-room light
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0xB8, B: 0xD4, A: 0xFF} // Cyan accent, matches overlay
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // Visible gray scrollbar
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ConsoleTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ConsoleTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ConsoleTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for gloved operation
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
