package engine

import "testing"

func TestPseudoRand(t *testing.T) {
	t.Parallel()
	for _, seed := range []uint64{0, 1, 0xDEADBEEF} {
		r1, r2 := NewPseudoRand(seed), NewPseudoRand(seed)
		for i := 0; i < 64; i++ {
			v1, v2 := r1.Uint64(), r2.Uint64()
			if v1 == 0 {
				t.Errorf("unexpected zero output for seed %d", seed)
			}
			if v1 != v2 {
				t.Fatalf("unexpected divergence for seed %d: got=%d want=%d", seed, v2, v1)
			}
		}
		if v := r1.Int63(); v < 0 {
			t.Errorf("unexpected negative Int63: %d", v)
		}
	}
}
