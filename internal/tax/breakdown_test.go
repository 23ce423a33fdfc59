package tax

import "testing"

func TestBreakdownOmitsZeroComponents(t *testing.T) {
	calc := Calculate(usd("50.00"), "OR")
	if components := Breakdown(calc); len(components) != 0 {
		t.Fatalf("expected empty breakdown for untaxed jurisdiction, got %d rows", len(components))
	}

	calc = Calculate(usd("50.00"), "CA")
	components := Breakdown(calc)
	if len(components) != 1 {
		t.Fatalf("expected one row for CA, got %d", len(components))
	}
	if components[0].Label != "CA sales tax" {
		t.Fatalf("unexpected label %q", components[0].Label)
	}
}

func TestBreakdownOrdersStateBeforeExcise(t *testing.T) {
	components := Breakdown(Calculate(usd("100.00"), "MN"))
	if len(components) != 2 {
		t.Fatalf("expected two rows for MN, got %d", len(components))
	}
	if components[0].Label != "MN sales tax" {
		t.Fatalf("state tax should come first, got %q", components[0].Label)
	}
	if components[1].Label != "Hemp excise tax" {
		t.Fatalf("excise should come second, got %q", components[1].Label)
	}
	if components[1].FormattedAmount != "15.00" {
		t.Fatalf("expected formatted excise 15.00, got %s", components[1].FormattedAmount)
	}
}
