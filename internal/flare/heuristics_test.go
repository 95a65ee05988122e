package flare

import "testing"

func TestTicketPrice_Minimum(t *testing.T) {
	tokens := []AmountToken{
		{Value: 5, Class: ClassPrice},
		{Value: 3, Class: ClassPrice},
		{Value: 800, Class: ClassPrice},
	}
	price, ok := TicketPrice(tokens)
	if !ok || price != 3 {
		t.Fatalf("price=%v ok=%v, want 3 true", price, ok)
	}
}

func TestTicketPrice_Empty(t *testing.T) {
	if _, ok := TicketPrice(nil); ok {
		t.Fatal("expected ok=false for empty token list")
	}
}

func TestGameName_FirstQualifyingLine(t *testing.T) {
	text := "tabsy presents\nMEGA CASH BLAST\n$3 per ticket"
	if got := GameName(text); got != "MEGA CASH BLAST" {
		t.Fatalf("GameName = %q, want %q", got, "MEGA CASH BLAST")
	}
}

func TestGameName_NoQualifyingLine(t *testing.T) {
	text := "tabsy presents\n$3 per ticket\nwin big today"
	if got := GameName(text); got != UnknownGameName {
		t.Fatalf("GameName = %q, want sentinel %q", got, UnknownGameName)
	}
}

func TestGameName_OnlyScansLeadingLines(t *testing.T) {
	// A qualifying line past the first 8 non-empty lines must not match.
	text := "a\nb\nc\nd\ne\nf\ng\nh\nLATE TITLE LINE"
	if got := GameName(text); got != UnknownGameName {
		t.Fatalf("GameName = %q, want sentinel (title past scan limit)", got)
	}
}

func TestGameName_StripsGlyphsAndCollapsesSpaces(t *testing.T) {
	text := "  BIG   WIN™  BONANZA®  "
	if got := GameName(text); got != "BIG WIN BONANZA" {
		t.Fatalf("GameName = %q, want %q", got, "BIG WIN BONANZA")
	}
}

func TestGameName_RejectsCurrencyPrefixAndShortLines(t *testing.T) {
	if got := GameName("$500 JACKPOT\nABCD\nGOLD RUSH"); got != "GOLD RUSH" {
		t.Fatalf("GameName = %q, want %q", got, "GOLD RUSH")
	}
}
