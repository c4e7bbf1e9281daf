package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestNamedErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  ErrorResponse
		want int
	}{
		{"not found", NotFoundError, http.StatusNotFound},
		{"reset in progress", ResetInProgressError, http.StatusConflict},
		{"too many requests", TooManyRequestsError, http.StatusTooManyRequests},
		{"unknown category", UnknownCategoryError, http.StatusBadRequest},
		{"federated disabled", FederatedDisabledError, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Code(); got != tt.want {
				t.Errorf("Code() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromValidationError(t *testing.T) {
	req := struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
	}{Email: "nope"}

	structured := FromValidationError(validator.New().Struct(req))
	if structured == nil {
		t.Fatal("FromValidationError() = nil, want structured error")
	}
	if structured.Code() != http.StatusBadRequest {
		t.Errorf("Code() = %d, want 400", structured.Code())
	}
	if len(structured.Errors["name"]) != 1 || len(structured.Errors["email"]) != 1 {
		t.Errorf("Errors = %v, want one problem for name and email", structured.Errors)
	}

	if got := FromValidationError(errors.New("plain")); got != nil {
		t.Errorf("FromValidationError(plain) = %v, want nil", got)
	}
}
