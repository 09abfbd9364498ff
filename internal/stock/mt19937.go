package stock

import "math"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mt19937 is the 32-bit Mersenne Twister. Doubles and normals are drawn the
// way NumPy's legacy RandomState draws them, so a given seed yields the same
// stream as numpy.random.seed.
type mt19937 struct {
	state [mtN]uint32
	index int

	hasGauss bool
	gauss    float64
}

func newMT19937(seed uint32) *mt19937 {
	m := &mt19937{}
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
	return m
}

func (m *mt19937) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.index = 0
}

func (m *mt19937) uint32() uint32 {
	if m.index >= mtN {
		m.twist()
	}
	y := m.state[m.index]
	m.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// float64 returns a value in [0, 1) with 53 bits of resolution.
func (m *mt19937) float64() float64 {
	a := m.uint32() >> 5
	b := m.uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

func (m *mt19937) uniform(low, high float64) float64 {
	return low + (high-low)*m.float64()
}

// standardNormal uses the Marsaglia polar method. Each accepted pair yields
// two samples; the second is kept for the next call.
func (m *mt19937) standardNormal() float64 {
	if m.hasGauss {
		m.hasGauss = false
		g := m.gauss
		m.gauss = 0
		return g
	}

	var x1, x2, r2 float64
	for {
		x1 = 2*m.float64() - 1
		x2 = 2*m.float64() - 1
		r2 = x1*x1 + x2*x2
		if r2 < 1 && r2 != 0 {
			break
		}
	}
	f := math.Sqrt(-2 * math.Log(r2) / r2)
	m.gauss = f * x1
	m.hasGauss = true
	return f * x2
}

func (m *mt19937) normal(loc, scale float64) float64 {
	return loc + scale*m.standardNormal()
}
