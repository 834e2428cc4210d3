package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

// HeaderUserID identifies the signed-in user. Authentication happens
// upstream; the API trusts this header.
const HeaderUserID = "X-User-ID"

const (
	maxBodyBytes   = 1 << 20
	maxBackupBytes = 16 << 20
	maxUserIDLen   = 128
)

var (
	errMissingUser = errors.New("missing " + HeaderUserID + " header")
	errInvalidUser = errors.New("invalid " + HeaderUserID + " header")
	errEmptyBody   = errors.New("empty request body")
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the user of the request, set by requireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// ParseUserID validates the user header value.
func ParseUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errMissingUser
	}
	if len(id) > maxUserIDLen || sanitizeInput(id) != id || strings.ContainsAny(id, " \t\r\n/") {
		return "", errInvalidUser
	}
	return id, nil
}

// requireUser rejects requests without a usable user header.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseUserID(r.Header.Get(HeaderUserID))
		if err != nil {
			ErrorResponse(http.StatusUnauthorized, err.Error()).Write(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

// decodeJSON reads a single JSON value of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	body, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON: trailing data")
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

// writeDecodeError answers a body that could not be decoded. Amounts that
// parse but are out of range are validation failures, not malformed JSON.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidAmount) {
		UnprocessableEntityError(core.ErrInvalidAmount.Error()).Write(w)
		return
	}
	BadRequestError(err.Error()).Write(w)
}

// Amount accepts a JSON number or a decimal string such as "12,50".
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || !core.ValidAmount(f) {
		return core.ErrInvalidAmount
	}
	*a = Amount(f)
	return nil
}

// ParseKind maps a path segment onto a transaction kind. Plural collection
// names are accepted.
func ParseKind(s string) (core.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return core.Income, nil
	case "expense", "expenses":
		return core.Expense, nil
	case "saving", "savings":
		return core.Saving, nil
	default:
		return "", core.ErrInvalidKind
	}
}

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
