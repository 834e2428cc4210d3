package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestParseUserID(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"  uid-123 ", "uid-123", nil},
		{"", "", errMissingUser},
		{"   ", "", errMissingUser},
		{"has space", "", errInvalidUser},
		{"a/b", "", errInvalidUser},
		{"bell\a", "", errInvalidUser},
		{strings.Repeat("x", maxUserIDLen+1), "", errInvalidUser},
	}
	for _, tt := range tests {
		got, err := ParseUserID(tt.raw)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("ParseUserID(%q) = %q, %v; want %q, %v", tt.raw, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestRequireUser(t *testing.T) {
	var seen string
	h := requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status without header = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderUserID, "u1")
	h.ServeHTTP(rr, r)
	if rr.Code != http.StatusOK || seen != "u1" {
		t.Fatalf("status = %d, user = %q", rr.Code, seen)
	}
}

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`12.5`, 12.5, false},
		{`"12,345"`, 12.35, false},
		{`"abc"`, 0, true},
		{`"-3"`, 0, true},
		{`true`, 0, true},
		{`1000000000`, 1e9, false},
		{`1000000001`, 0, true},
		{`"1000000001"`, 0, true},
	}
	for _, tt := range tests {
		var a Amount
		err := json.Unmarshal([]byte(tt.in), &a)
		if (err != nil) != tt.wantErr || float64(a) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, %v", tt.in, a, err)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
	}{
		{"ok", `{"name":"x"}`, 100, false},
		{"empty", "  ", 100, true},
		{"malformed", `{"name":`, 100, true},
		{"trailing", `{"name":"x"} {}`, 100, true},
		{"too large", `{"name":"` + strings.Repeat("x", 50) + `"}`, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := decodeJSON(httptest.NewRecorder(), r, tt.limit, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]core.Kind{"income": core.Income, "Expenses": core.Expense, "saving": core.Saving, "savings": core.Saving} {
		if got, err := ParseKind(in); err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("goals"); !errors.Is(err, core.ErrInvalidKind) {
		t.Errorf("ParseKind(goals) err = %v", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\n "); got != "ab\tc" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}
