package core

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAmountBound is the magnitude every normalized amount is clamped to.
// It keeps sums and chart series away from values large enough to lose
// precision; it is not a business limit and can be changed via Normalizer.
const DefaultAmountBound = 1_000_000_000

// Normalizer coerces raw values into safe numbers. It never fails: every
// input maps to a usable value.
type Normalizer struct {
	Bound float64
}

// DefaultNormalizer returns a Normalizer clamping to DefaultAmountBound.
func DefaultNormalizer() Normalizer {
	return Normalizer{Bound: DefaultAmountBound}
}

func (n Normalizer) bound() float64 {
	if n.Bound <= 0 || !IsFinite(n.Bound) {
		return DefaultAmountBound
	}
	return n.Bound
}

// Number returns def when value is not a finite number, otherwise value
// clamped to [-Bound, Bound].
func (n Normalizer) Number(value any, def float64) float64 {
	num, ok := ToNumber(value)
	if !ok || !IsFinite(num) {
		return def
	}
	b := n.bound()
	return math.Max(-b, math.Min(b, num))
}

// ValidateNumber is Normalizer.Number with the default bound.
func ValidateNumber(value any, def float64) float64 {
	return DefaultNormalizer().Number(value, def)
}

// ValidateArray returns value as a []any when it is a non-nil slice or
// array, and def otherwise.
func ValidateArray(value any, def []any) []any {
	switch v := value.(type) {
	case nil:
		return def
	case []any:
		if v == nil {
			return def
		}
		return v
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return def
		}
	case reflect.Array:
	default:
		return def
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// ValidateObject returns value as a map[string]any when it is a non-nil
// string-keyed map, and def otherwise. Slices never qualify.
func ValidateObject(value any, def map[string]any) map[string]any {
	switch v := value.(type) {
	case nil:
		return def
	case map[string]any:
		if v == nil {
			return def
		}
		return v
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return def
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

// ToNumber converts numeric-like values to float64. Strings are parsed after
// trimming; empty strings, nil and unsupported types report false.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case decimal.Decimal:
		return v.InexactFloat64(), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// IsFinite reports whether f is neither NaN nor an infinity.
// ValidAmount reports whether f is finite and within DefaultAmountBound.
// Entered amounts outside the bound are rejected rather than clamped.
func ValidAmount(f float64) bool {
	return IsFinite(f) && math.Abs(f) <= DefaultAmountBound
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite returns f, or 0 when f is NaN or infinite.
func Finite(f float64) float64 {
	if !IsFinite(f) {
		return 0
	}
	return f
}

// NormalizeTransactions returns a copy of txs with every amount passed
// through n. Input order is preserved.
func (n Normalizer) NormalizeTransactions(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		t.Amount = n.Number(t.Amount, 0)
		out[i] = t
	}
	return out
}

// NormalizeGoals returns a copy of goals with target and saved amounts
// passed through n.
func (n Normalizer) NormalizeGoals(goals []SavingsGoal) []SavingsGoal {
	out := make([]SavingsGoal, len(goals))
	for i, g := range goals {
		g.TargetAmount = n.Number(g.TargetAmount, 0)
		g.SavedAmount = n.Number(g.SavedAmount, 0)
		out[i] = g
	}
	return out
}
