package core

// Color represents a foreground color for a screen cell.
// The platform maps it to an ANSI 256-color code.
type Color uint8

// Predefined colors. The tier palette follows the evolution chain from
// cool to warm.
const (
	ColorDefault Color = iota
	ColorGray
	ColorWhite
	ColorCyan
	ColorBlue
	ColorGreen
	ColorYellow
	ColorOrange
	ColorRed
	ColorMagenta
	ColorPink
	ColorGold
	ColorBrightWhite
)

var tierPalette = []Color{
	ColorWhite,       // Mouse
	ColorCyan,        // Cat
	ColorBlue,        // Dog
	ColorGreen,       // Rabbit
	ColorYellow,      // Fox
	ColorOrange,      // Bear
	ColorRed,         // Tiger
	ColorBrightWhite, // Panda
	ColorGray,        // Koala
	ColorGold,        // Lion
	ColorMagenta,     // Dragon
	ColorPink,        // Unicorn
}

// TierColor returns the color for the tier at index in the evolution chain.
// Negative or out-of-range indexes use the default color.
func TierColor(index int) Color {
	if index < 0 || index >= len(tierPalette) {
		return ColorDefault
	}
	return tierPalette[index]
}
