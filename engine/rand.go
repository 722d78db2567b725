package engine

// PseudoRand is a xorshift source usable with math/rand.
type PseudoRand struct {
	s uint64
}

const pseudoRandDefaultSeed uint64 = 0x9E3779B97F4A7C15

func NewPseudoRand(seed uint64) *PseudoRand {
	r := &PseudoRand{}
	r.Seed(int64(seed))
	return r
}

// Seed resets the generator. A zero seed would lock xorshift at zero, so it is
// replaced by a fixed constant.
func (r *PseudoRand) Seed(seed int64) {
	r.s = uint64(seed)
	if r.s == 0 {
		r.s = pseudoRandDefaultSeed
	}
}

func (r *PseudoRand) Uint64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

func (r *PseudoRand) Int63() int64 {
	return int64(r.Uint64() >> 1)
}
