package kernel

// mulberry32 is a 32-bit PRNG with a single word of state. It is small,
// fast and trivially portable, which keeps noise output identical across
// implementations that agree on the algorithm.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed uint32) *mulberry32 {
	return &mulberry32{state: seed}
}

// Float64 returns the next value in [0, 1).
func (m *mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}
