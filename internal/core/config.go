package core

// RuntimeConfig contains what the platform knows about the terminal a game
// is shown in.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    uint64 // Spawn seed; 0 means entropy (daily mode ignores it)
}

// Minimum terminal size for the board view.
const (
	MinScreenW = 40
	MinScreenH = 20
)

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}

// TooSmall reports whether the screen cannot fit the board view.
func (c RuntimeConfig) TooSmall() bool {
	return c.ScreenW < MinScreenW || c.ScreenH < MinScreenH
}
