package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
)

func TestOpError_Error(t *testing.T) {
	err := &domain.OpError{
		Op:     "users.extract",
		Kind:   domain.KindHTTPStatus,
		Status: 500,
		Err:    errors.New("unexpected status"),
	}
	msg := err.Error()
	require.Contains(t, msg, "users.extract")
	require.Contains(t, msg, "http_status")
	require.Contains(t, msg, "status=500")
	require.Contains(t, msg, "unexpected status")
}

func TestOpError_ErrorWithPath(t *testing.T) {
	err := &domain.OpError{
		Op:   "users.load.create",
		Kind: domain.KindWrite,
		Path: "output/users.csv",
		Err:  errors.New("permission denied"),
	}
	require.Contains(t, err.Error(), "path=output/users.csv")
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	inner := &domain.OpError{Op: "users.extract", Kind: domain.KindTimeout, Err: errors.New("deadline")}
	wrapped := fmt.Errorf("extract: %w", inner)

	require.True(t, domain.IsKind(wrapped, domain.KindTimeout))
	require.False(t, domain.IsKind(wrapped, domain.KindConnection))
	require.False(t, domain.IsKind(errors.New("plain"), domain.KindTimeout))
}

func TestKindAndStatusCode(t *testing.T) {
	err := fmt.Errorf("run: %w", &domain.OpError{
		Op:     "users.extract",
		Kind:   domain.KindHTTPStatus,
		Status: 404,
	})

	require.Equal(t, domain.KindHTTPStatus, domain.Kind(err))
	require.Equal(t, 404, domain.StatusCode(err))
	require.Equal(t, domain.ErrorKind(""), domain.Kind(errors.New("plain")))
	require.Equal(t, 0, domain.StatusCode(errors.New("plain")))
}

func TestOpError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := &domain.OpError{Op: "config.load", Kind: domain.KindInvalidConfig, Err: inner}
	require.ErrorIs(t, err, inner)
}
