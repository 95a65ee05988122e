package flare

import (
	"reflect"
	"testing"
)

func TestParse_EndToEnd(t *testing.T) {
	text := "BIG WIN BONANZA\n$3\nWIN $800 WIN $800 WIN $600"
	p := Parse(text, false)

	if p.GameName != "BIG WIN BONANZA" {
		t.Fatalf("GameName = %q", p.GameName)
	}
	if p.PricePerTicket != 3 {
		t.Fatalf("PricePerTicket = %v, want 3", p.PricePerTicket)
	}
	if p.PrizeHistogram[800] != 2 || p.PrizeHistogram[600] != 1 || len(p.PrizeHistogram) != 2 {
		t.Fatalf("PrizeHistogram = %v, want {800:2, 600:1}", p.PrizeHistogram)
	}
	if p.TotalPrizeTokens != 3 {
		t.Fatalf("TotalPrizeTokens = %d, want 3", p.TotalPrizeTokens)
	}
	if p.IsPreview {
		t.Fatal("IsPreview = true, want false")
	}
}

func TestParse_NoCurrencyText(t *testing.T) {
	p := Parse("a sheet with no amounts at all", true)

	if p.PricePerTicket != DefaultTicketPrice {
		t.Fatalf("PricePerTicket = %v, want fallback %d", p.PricePerTicket, DefaultTicketPrice)
	}
	if len(p.PrizeHistogram) != 0 {
		t.Fatalf("PrizeHistogram = %v, want empty", p.PrizeHistogram)
	}
	if p.TotalPrizeTokens != 0 {
		t.Fatalf("TotalPrizeTokens = %d, want 0", p.TotalPrizeTokens)
	}
	if p.GameName != UnknownGameName {
		t.Fatalf("GameName = %q, want sentinel", p.GameName)
	}
	if !p.IsPreview {
		t.Fatal("IsPreview = false, want true")
	}
}

func TestParse_HistogramSumInvariant(t *testing.T) {
	texts := []string{
		"",
		"GOLD RUSH\n$1\n$500 $500 $500 $100",
		"$2\n$2\n$1,000",
		"JACKPOT JUNCTION\n$5 $5 $5",
	}
	for _, text := range texts {
		p := Parse(text, false)
		sum := 0
		for _, c := range p.PrizeHistogram {
			sum += c
		}
		if sum != p.TotalPrizeTokens {
			t.Fatalf("text %q: sum=%d total=%d", text, sum, p.TotalPrizeTokens)
		}
	}
}

func TestWinningTickets_SortedDescending(t *testing.T) {
	p := Parse("$2\n$800 $600 $800 $2", false)
	got := p.WinningTickets()
	want := []float64{800, 800, 600}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WinningTickets = %v, want %v", got, want)
	}
}

func TestPrizeCounts_StringKeys(t *testing.T) {
	p := Parse("$1\n$250 $250", false)
	got := p.PrizeCounts()
	if got["250"] != 2 || len(got) != 1 {
		t.Fatalf("PrizeCounts = %v, want {250: 2}", got)
	}
}
