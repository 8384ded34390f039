package money

import "testing"

func TestNearestThousand(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{116666.67, 117000},
		{33333.33, 33000},
		{1499, 1000},
		{1500, 2000},
		{0, 0},
	}
	for _, c := range cases {
		if got := NearestThousand(c.in); got != c.want {
			t.Errorf("NearestThousand(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestToK(t *testing.T) {
	if got := ToK(16666.666, 1); got != 16.7 {
		t.Fatalf("ToK(16666.666, 1) = %v, want 16.7", got)
	}
	if got := ToK(2450, 0); got != 2 {
		t.Fatalf("ToK(2450, 0) = %v, want 2", got)
	}
	if got := ToK(2500, 0); got != 3 {
		t.Fatalf("ToK(2500, 0) = %v, want 3", got)
	}
}

func TestFromK(t *testing.T) {
	if got := FromK(18.5); got != 18500 {
		t.Fatalf("FromK(18.5) = %v, want 18500", got)
	}
}

func TestRoundWhole(t *testing.T) {
	if got := RoundWhole(10000.5); got != 10001 {
		t.Fatalf("RoundWhole(10000.5) = %v, want 10001", got)
	}
	if got := RoundWhole(71428.571); got != 71429 {
		t.Fatalf("RoundWhole(71428.571) = %v, want 71429", got)
	}
}
