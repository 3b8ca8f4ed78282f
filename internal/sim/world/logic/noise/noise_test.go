package noise

import (
	"strings"
	"testing"
)

func TestUniform_IsDeterministic(t *testing.T) {
	a := Uniform(42, 7, 3)
	b := Uniform(42, 7, 3)
	if a != b {
		t.Fatalf("Uniform not deterministic: %v vs %v", a, b)
	}
}

func TestUniform_InRange(t *testing.T) {
	for counter := uint64(0); counter < 20; counter++ {
		v := Uniform(1, 1, counter)
		if v < 0 || v >= 1 {
			t.Fatalf("Uniform(%d)=%v out of [0,1)", counter, v)
		}
	}
}

func TestUniform_DiffersAcrossCounters(t *testing.T) {
	a := Uniform(1, 1, 1)
	b := Uniform(1, 1, 2)
	if a == b {
		t.Fatalf("expected distinct values for distinct counters, got %v == %v", a, b)
	}
}

func TestPerturb_StaysWithinMagnitude(t *testing.T) {
	base := 10.0
	mag := 0.5
	v := Perturb(1, 1, 1, base, mag)
	if v < base-mag || v > base+mag {
		t.Fatalf("perturb=%v want within [%v,%v]", v, base-mag, base+mag)
	}
}

func TestIDSuffix_IsDeterministicAndHex(t *testing.T) {
	a := IDSuffix(9, 3, 2)
	b := IDSuffix(9, 3, 2)
	if a != b {
		t.Fatalf("IDSuffix not deterministic: %v vs %v", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("len=%d want 8", len(a))
	}
	for _, c := range a {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("IDSuffix=%q contains non-hex rune %q", a, c)
		}
	}
}
