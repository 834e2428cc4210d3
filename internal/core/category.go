package core

import "strings"

// OtherCategory groups records that carry no category.
const OtherCategory = "Other"

// CategoryKey is the case-normalized form used to match transactions to
// categories. Categories and transactions are linked by name only, so a
// renamed or deleted category leaves historical records untouched.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameCategory reports whether two category names refer to the same label.
func SameCategory(a, b string) bool {
	return CategoryKey(a) == CategoryKey(b)
}

// CategoryOrOther returns name, or OtherCategory when name is blank.
func CategoryOrOther(name string) string {
	if strings.TrimSpace(name) == "" {
		return OtherCategory
	}
	return name
}

// FilterByCategory returns the transactions whose category matches name
// after case normalization, preserving order.
func FilterByCategory(txs []Transaction, name string) []Transaction {
	key := CategoryKey(name)
	var out []Transaction
	for _, t := range txs {
		if CategoryKey(t.Category) == key {
			out = append(out, t)
		}
	}
	return out
}
