package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ResponseBuilder provides a fluent API for writing JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
	raw        []byte
}

// NewResponse starts a 200 response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets v as the body, encoded on Write.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	b.raw = nil
	return b
}

// RawJSON sets an already encoded JSON body.
func (b *ResponseBuilder) RawJSON(data []byte) *ResponseBuilder {
	b.raw = data
	b.body = nil
	return b
}

// Attachment asks the client to save the body as filename.
func (b *ResponseBuilder) Attachment(filename string) *ResponseBuilder {
	return b.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	data := b.raw
	if b.body != nil {
		var err error
		data, err = json.Marshal(b.body)
		if err != nil {
			slog.Error("Failed to encode response", "error", err)
			b.statusCode = http.StatusInternalServerError
			data = []byte(`{"error":"internal error"}`)
		}
	}

	if data == nil && b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if len(data) > 0 {
		_, _ = w.Write(data)
		_, _ = w.Write([]byte("\n"))
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse writes {"error": message} with statusCode.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func ConflictError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NoContent writes an empty 204.
func NoContent() *ResponseBuilder {
	return NewResponse().Status(http.StatusNoContent)
}
