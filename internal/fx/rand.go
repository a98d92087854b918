package fx

// Rand is the subset of *math/rand.Rand the effects draw from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
