package game

import "math/rand/v2"

// TrialSeed derives the seed of one trial from the batch seed with a
// splitmix64 step, so neighbouring trial indices get unrelated streams.
func TrialSeed(batch uint64, trial int) uint64 {
	x := batch + uint64(trial) + 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// RNG is the only source of randomness inside a trial. Every probabilistic
// decision goes through it so a seed reproduces the whole trial.
type RNG struct {
	r     *rand.Rand
	draws int
}

// NewRNG seeds a PCG stream.
func NewRNG(seed uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))}
}

// Float64 returns a value in [0,1).
func (g *RNG) Float64() float64 {
	g.draws++
	return g.r.Float64()
}

// IntN returns a value in [0,n). It returns 0 for n <= 0.
func (g *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	g.draws++
	return g.r.IntN(n)
}

// Chance reports true with probability p. It always consumes one draw,
// whatever p is, so stream positions do not depend on configuration edges.
func (g *RNG) Chance(p float64) bool {
	return g.Float64() < p
}

// Shuffle permutes n elements.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.draws++
	g.r.Shuffle(n, swap)
}

// Draws returns how many values were consumed.
func (g *RNG) Draws() int {
	return g.draws
}
