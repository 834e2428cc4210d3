package core

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "INR", "₹1,234.50"},
		{math.NaN(), "USD", "$0"},
		{math.Inf(1), "EUR", "€0"},
		{0, "USD", "$0.00"},
		{-1234.5, "USD", "$1,234.50"},
		{999.999, "EUR", "€1,000.00"},
		{1234567.891, "INR", "₹1,234,567.89"},
		{100, "XYZ", "₹100.00"},
		{100, "", "₹100.00"},
		{12, "usd", "$12.00"},
		{1000000000, "GBP", "£1,000,000,000.00"},
		// Halves round away from zero on the shortest decimal form of the
		// float, so 1.005 is a half and rounds up.
		{1.005, "INR", "₹1.01"},
		{2.675, "INR", "₹2.68"},
		{-1.005, "USD", "$1.01"},
		{0.004, "INR", "₹0.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestDisplayConfig(t *testing.T) {
	cfg := DisplayConfig{Currency: "EUR"}
	if got := cfg.Format(5); got != "€5.00" {
		t.Fatalf("Format = %q", got)
	}
	if cfg.Symbol() != "€" {
		t.Fatalf("Symbol = %q", cfg.Symbol())
	}
	if IsKnownCurrency("ABC") || !IsKnownCurrency("inr") {
		t.Fatal("unexpected IsKnownCurrency result")
	}
}

func TestFixedString(t *testing.T) {
	cases := []struct {
		in     float64
		places int32
		want   string
	}{
		{83.33333, 1, "83.3"},
		{2.5, 0, "3"},
		{0, 1, "0.0"},
		{math.NaN(), 1, "0"},
	}
	for _, tc := range cases {
		if got := FixedString(tc.in, tc.places); got != tc.want {
			t.Errorf("FixedString(%v, %d) = %q, want %q", tc.in, tc.places, got, tc.want)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[string]string{
		"1":       "1",
		"123":     "123",
		"1234":    "1,234",
		"123456":  "123,456",
		"1234567": "1,234,567",
	}
	for in, want := range cases {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%q) = %q, want %q", in, got, want)
		}
	}
}
