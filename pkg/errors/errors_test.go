package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeValidation, "name is required")

	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeValidation)
	}
	if typed.Message() != "name is required" {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeInternal, cause, "saving order")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should match its cause with errors.Is")
	}
	typed := As(err)
	if typed == nil || typed.Code() != CodeInternal {
		t.Fatalf("unexpected typed error: %+v", typed)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "bad transition").
		WithDetails(map[string]any{"from": "pending", "to": "delivered"})

	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("details = %T, want map", typed.Details())
	}
	if details["from"] != "pending" || details["to"] != "delivered" {
		t.Fatalf("details = %v", details)
	}
}

func TestAsReturnsNilForUntyped(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors must not be typed")
	}
	if As(nil) != nil {
		t.Fatal("nil must not be typed")
	}
}

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}

	// Unknown codes degrade to internal metadata.
	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code status = %d", got)
	}
}
