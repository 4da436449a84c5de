// Package httputil holds the JSON encode/decode helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	dErrors "finai/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies decoded by DecodeAndPrepare.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request DTOs that check and normalize
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// validatablePtr lets DecodeAndPrepare allocate a T and call Validate on *T.
type validatablePtr[T any] interface {
	*T
	Validatable
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the JSON error envelope. Errors without a
// domain code, and internal errors, never leak their message to the client.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.New(dErrors.CodeInternal, "internal error")
	}

	body := map[string]string{"error": string(de.Code)}
	if de.Code != dErrors.CodeInternal {
		body["error_description"] = de.Message
		if de.Field != "" {
			body["field"] = de.Field
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), body)
}

// DecodeAndPrepare decodes the JSON body into a new T, runs its Validate, and
// writes the error response itself when either step fails. The boolean is
// false when the handler should return immediately.
func DecodeAndPrepare[T any, PT validatablePtr[T]](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, decodeError(err))
		return nil, false
	}

	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}

// decodeError names the offending field when a value has the wrong JSON type
// or does not fit the target type.
func decodeError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return dErrors.NewField(dErrors.CodeValidation, ute.Field, ute.Field+" must be "+describeKind(ute.Type))
	}
	if errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "a whole number within range"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	}
	return "a valid " + t.String()
}
