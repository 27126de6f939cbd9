package core

// Color represents a foreground color for a screen cell.
// The platform layer maps these to ANSI 256-color codes.
type Color uint8

// Predefined colors. Piece kinds each take one of the bright colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// ANSI returns the 256-color palette code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	switch c {
	case ColorRed:
		return "196"
	case ColorGreen:
		return "46"
	case ColorYellow:
		return "226"
	case ColorBlue:
		return "33"
	case ColorMagenta:
		return "201"
	case ColorCyan:
		return "51"
	case ColorWhite:
		return "15"
	case ColorOrange:
		return "208"
	case ColorGray:
		return "244"
	default:
		return ""
	}
}
