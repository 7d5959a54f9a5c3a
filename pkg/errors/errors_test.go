package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesWrappedCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "DB_ERROR", http.StatusInternalServerError, "database unavailable")

	require.Equal(t, "database unavailable: connection refused", err.Error())
	require.Equal(t, cause, err.Unwrap())
}

func TestErrorMessageWithoutWrappedCause(t *testing.T) {
	err := New("NOT_FOUND", http.StatusNotFound, "resource not found")

	require.Equal(t, "resource not found", err.Error())
	require.Nil(t, err.Unwrap())
}

func TestNilErrorIsSafe(t *testing.T) {
	var err *Error
	require.Equal(t, "<nil>", err.Error())
	require.Nil(t, err.Unwrap())
}

func TestFromErrorPassesThroughTypedError(t *testing.T) {
	got := FromError(ErrForbidden)
	require.Same(t, ErrForbidden, got)
}

func TestFromErrorWrapsUnknownError(t *testing.T) {
	got := FromError(errors.New("boom"))

	require.Equal(t, ErrInternal.Code, got.Code)
	require.Equal(t, ErrInternal.Status, got.Status)
	require.ErrorContains(t, got, "boom")
}

func TestFromErrorReturnsNilForNil(t *testing.T) {
	require.Nil(t, FromError(nil))
}

func TestCloneOverridesMessage(t *testing.T) {
	clone := Clone(ErrValidation, "termId is required")

	require.Equal(t, ErrValidation.Code, clone.Code)
	require.Equal(t, "termId is required", clone.Message)
	require.NotSame(t, ErrValidation, clone)
}

func TestCloneKeepsMessageWhenEmpty(t *testing.T) {
	clone := Clone(ErrValidation, "")

	require.Equal(t, ErrValidation.Message, clone.Message)
}

func TestCloneReturnsNilForNil(t *testing.T) {
	require.Nil(t, Clone(nil, "x"))
}

func TestErrorsAsUnwrapsThroughWrap(t *testing.T) {
	cause := errors.New("timeout")
	wrapped := Wrap(cause, "TIMEOUT", http.StatusGatewayTimeout, "upstream timeout")

	require.True(t, errors.Is(wrapped, cause))
}
