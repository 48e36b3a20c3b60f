package noise

// offsetSpan is the period of the Perlin permutation lattice. Offsets beyond
// it alias back onto the same gradients.
const offsetSpan = 256.0

// splitmix64 is a stable integer finalizer; equal inputs hash equally across
// runs and platforms.
func splitmix64(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// unit maps the top 53 bits of h to [0,1).
func unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

// seedOffset derives a sampling-space offset from a seed and an octave salt.
// Neighbouring seeds land on unrelated regions of the lattice.
func seedOffset(seed int64, salt uint64) (ox, oz float64) {
	h := splitmix64(uint64(seed) ^ splitmix64(salt))
	ox = unit(h) * offsetSpan
	oz = unit(splitmix64(h)) * offsetSpan
	return ox, oz
}
