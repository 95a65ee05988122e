package flare

import "testing"

func tokens(values ...float64) []AmountToken {
	out := make([]AmountToken, len(values))
	for i, v := range values {
		out[i] = AmountToken{Value: v, Class: ClassBroad}
	}
	return out
}

func TestTabulatePrizes_RemovesEveryPriceOccurrence(t *testing.T) {
	hist, total := TabulatePrizes(tokens(3, 3, 800, 600, 800), 3, true)

	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if hist[800] != 2 || hist[600] != 1 {
		t.Fatalf("histogram = %v, want {800:2, 600:1}", hist)
	}
	if len(hist) != 2 {
		t.Fatalf("histogram keys = %d, want 2", len(hist))
	}
}

func TestTabulatePrizes_NoPriceRemovesNothing(t *testing.T) {
	hist, total := TabulatePrizes(tokens(100, 100, 50), 0, false)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if hist[100] != 2 || hist[50] != 1 {
		t.Fatalf("histogram = %v", hist)
	}
}

func TestTabulatePrizes_CountsSumToTotal(t *testing.T) {
	hist, total := TabulatePrizes(tokens(5, 199, 199, 25, 199, 1000), 5, true)
	sum := 0
	for _, c := range hist {
		sum += c
	}
	if sum != total {
		t.Fatalf("sum(histogram) = %d, total = %d", sum, total)
	}
}
