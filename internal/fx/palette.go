package fx

// Palette holds the accent colors a swarm picks from.
var Palette = [...]Color{
	RGB(0, 255, 255),   // cyan
	RGB(255, 0, 255),   // magenta
	RGB(255, 255, 0),   // yellow
	RGB(255, 165, 0),   // orange
	RGB(50, 205, 50),   // lime green
	RGB(255, 20, 147),  // deep pink
	RGB(238, 130, 238), // violet
	RGB(255, 215, 0),   // gold
}

// RandomAccent picks one palette color.
func RandomAccent(rng Rand) Color {
	return Palette[rng.Intn(len(Palette))]
}

// InPalette reports whether c (ignoring alpha) is one of the accent colors.
func InPalette(c Color) bool {
	c.A = 255
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

// Bubble colors.
var (
	BubbleTint   = ARGB(80, 100, 200, 255)
	BubbleInner  = RGB(150, 220, 255)
	BubbleOuter  = RGB(100, 180, 200)
	BubbleStroke = ARGB(60, 255, 255, 255)
)

// Canvas background, top to bottom.
var (
	BackgroundTop    = RGB(10, 25, 40)
	BackgroundBottom = RGB(5, 15, 25)
)
