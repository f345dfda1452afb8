package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    "TEST_ERROR",
		Message: "Test error message",
	}

	if err.Error() != "Test error message" {
		t.Errorf("Expected 'Test error message', got '%s'", err.Error())
	}
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError(ErrCodeInvalidRequest, "days must be positive")

	if err.Code != ErrCodeInvalidRequest {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidRequest, err.Code)
	}
	if err.Details != nil {
		t.Errorf("Expected nil details, got %v", err.Details)
	}
	if err.Retryable {
		t.Error("Invalid requests are not retryable")
	}
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	details := map[string]interface{}{"parameter": "window", "max": 90}
	err := NewServiceErrorWithDetails(ErrCodeInvalidRequest, "window out of range", details)

	if err.Details["parameter"] != "window" {
		t.Errorf("Expected details to be kept, got %v", err.Details)
	}
}

func TestErrDataUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrDataUnavailable(cause)

	if !err.Retryable {
		t.Error("DATA_UNAVAILABLE must be retryable")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be reachable through Unwrap")
	}
	if strings.Contains(err.Error(), "refused") {
		t.Error("Driver details must not leak into the message")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrNotAuthenticated())

	if !HasCode(wrapped, ErrCodeNotAuthenticated) {
		t.Error("Expected NOT_AUTHENTICATED through wrapping")
	}
	if HasCode(wrapped, ErrCodeDataUnavailable) {
		t.Error("Unexpected code match")
	}
	if HasCode(errors.New("plain"), ErrCodeInvalidRequest) {
		t.Error("Plain errors carry no code")
	}
}

func TestServiceError_JSONOmitsCause(t *testing.T) {
	data, err := json.Marshal(ErrDataUnavailable(errors.New("secret dsn")))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("cause leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), `"retryable":true`) {
		t.Errorf("expected retryable flag, got %s", data)
	}
}
