package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestValidateNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"nan", math.NaN(), 0, 0},
		{"positive infinity", math.Inf(1), 0, 0},
		{"negative infinity uses default", math.Inf(-1), 7, 7},
		{"clamp high", 2_000_000_000.0, 0, 1_000_000_000},
		{"clamp low", -2_000_000_000.0, 0, -1_000_000_000},
		{"plain float", 12.5, 0, 12.5},
		{"int", 42, 0, 42},
		{"numeric string", " 3.25 ", 0, 3.25},
		{"garbage string", "abc", 9, 9},
		{"empty string", "", 5, 5},
		{"nil", nil, 1, 1},
		{"json number", json.Number("8"), 0, 8},
		{"bool", true, 0, 1},
		{"struct", struct{}{}, 4, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateNumber(tc.in, tc.def); got != tc.want {
				t.Fatalf("ValidateNumber(%v, %v) = %v, want %v", tc.in, tc.def, got, tc.want)
			}
		})
	}
}

func TestNormalizerCustomBound(t *testing.T) {
	n := Normalizer{Bound: 100}
	if got := n.Number(250.0, 0); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}
	if got := (Normalizer{}).Number(2e9, 0); got != DefaultAmountBound {
		t.Fatalf("zero bound should fall back to default, got %v", got)
	}
}

func TestValidateArray(t *testing.T) {
	def := []any{"default"}
	if got := ValidateArray(nil, def); len(got) != 1 || got[0] != "default" {
		t.Fatalf("nil should yield default, got %v", got)
	}
	if got := ValidateArray(map[string]any{"a": 1}, def); len(got) != 1 {
		t.Fatalf("map should yield default, got %v", got)
	}
	if got := ValidateArray("abc", def); len(got) != 1 {
		t.Fatalf("string should yield default, got %v", got)
	}
	var nilSlice []int
	if got := ValidateArray(nilSlice, def); len(got) != 1 {
		t.Fatalf("nil typed slice should yield default, got %v", got)
	}
	got := ValidateArray([]int{1, 2, 3}, def)
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("typed slice should convert, got %v", got)
	}
	raw := []any{1.0, "x"}
	if got := ValidateArray(raw, def); len(got) != 2 {
		t.Fatalf("[]any should pass through, got %v", got)
	}
}

func TestValidateObject(t *testing.T) {
	def := map[string]any{"d": true}
	if got := ValidateObject(nil, def); got["d"] != true {
		t.Fatalf("nil should yield default")
	}
	if got := ValidateObject([]any{1}, def); got["d"] != true {
		t.Fatalf("slice should yield default")
	}
	if got := ValidateObject(map[int]any{1: 1}, def); got["d"] != true {
		t.Fatalf("non-string keys should yield default")
	}
	if got := ValidateObject(map[string]float64{"a": 1}, def); got["a"] != 1.0 {
		t.Fatalf("typed map should convert, got %v", got)
	}
	in := map[string]any{"x": 1}
	if got := ValidateObject(in, def); got["x"] != 1 {
		t.Fatalf("map should pass through, got %v", got)
	}
}

func TestNormalizeTransactionsKeepsOrder(t *testing.T) {
	in := []Transaction{
		{ID: "a", Amount: math.NaN()},
		{ID: "b", Amount: 5e9},
		{ID: "c", Amount: 3},
	}
	out := DefaultNormalizer().NormalizeTransactions(in)
	if out[0].Amount != 0 || out[1].Amount != DefaultAmountBound || out[2].Amount != 3 {
		t.Fatalf("unexpected amounts: %+v", out)
	}
	if out[0].ID != "a" || out[2].ID != "c" {
		t.Fatalf("order changed: %+v", out)
	}
	if !math.IsNaN(in[0].Amount) {
		t.Fatal("input must not be mutated")
	}
}

func TestTransactionFromRaw(t *testing.T) {
	raw := map[string]any{
		"category":  "Food",
		"amount":    "12.5",
		"timestamp": "2024-03-05T10:00:00Z",
	}
	tx := DefaultNormalizer().TransactionFromRaw(raw, Expense)
	if tx.Amount != 12.5 || tx.Category != "Food" || tx.Kind != Expense {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.Timestamp.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %v", tx.Timestamp)
	}

	bad := DefaultNormalizer().TransactionFromRaw(map[string]any{"amount": "NaN?", "category": 3}, Income)
	if bad.Amount != 0 || bad.Category != "" || !bad.Timestamp.IsZero() {
		t.Fatalf("malformed fields should default: %+v", bad)
	}
}

func TestGoalFromRaw(t *testing.T) {
	raw := map[string]any{
		"goalName":     "Trip",
		"targetAmount": 1000.0,
		"savedAmount":  nil,
		"durationType": "monthly",
		"goalDeadline": "2025-01-01T00:00:00Z",
		"status":       "not achieved",
	}
	g := DefaultNormalizer().GoalFromRaw(raw)
	if g.Name != "Trip" || g.TargetAmount != 1000 || g.SavedAmount != 0 {
		t.Fatalf("unexpected goal: %+v", g)
	}
	if g.Status != GoalNotAchieved || g.DurationType != Monthly {
		t.Fatalf("unexpected status/duration: %+v", g)
	}

	form := DefaultNormalizer().GoalFromRaw(map[string]any{"name": "Car", "amount": 20})
	if form.Name != "Car" || form.TargetAmount != 20 || form.Status != GoalOngoing {
		t.Fatalf("form field names should be accepted: %+v", form)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := ParseTimestamp("2024-01-02"); !got.Equal(want) {
		t.Fatalf("date string: got %v", got)
	}
	if got := ParseTimestamp(float64(want.UnixMilli())); !got.Equal(want) {
		t.Fatalf("unix millis: got %v", got)
	}
	if got := ParseTimestamp(want); !got.Equal(want) {
		t.Fatalf("time value: got %v", got)
	}
	if got := ParseTimestamp("yesterday"); !got.IsZero() {
		t.Fatalf("garbage should be zero, got %v", got)
	}
}
