package sqlutil

import "testing"

func TestQuoteString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"paid", "'paid'"},
		{"", "''"},
		{"O'Brien", "'O''Brien'"},
		{"''", "''''''"},
	}
	for _, tc := range cases {
		if got := QuoteString(tc.in); got != tc.want {
			t.Errorf("QuoteString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsNumericLiteral(t *testing.T) {
	numeric := []string{"0", "42", "-7", "4.5", " 10 ", "4.2e1", ".5"}
	for _, s := range numeric {
		if !IsNumericLiteral(s) {
			t.Errorf("IsNumericLiteral(%q) = false, want true", s)
		}
	}

	nonNumeric := []string{"", "   ", "paid", "10,20", "1/2", "NaN42", "0x10"}
	for _, s := range nonNumeric {
		if IsNumericLiteral(s) {
			t.Errorf("IsNumericLiteral(%q) = true, want false", s)
		}
	}
}

func TestRenderValue(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"42", "42"},
		{"4.5", "4.5"},
		{"paid", "'paid'"},
		{"", "''"},
		{"it's", "'it''s'"},
	}
	for _, tc := range cases {
		if got := RenderValue(tc.in); got != tc.want {
			t.Errorf("RenderValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
