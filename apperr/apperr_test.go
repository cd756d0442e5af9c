package apperr

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{Invalid, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Unavailable, http.StatusBadGateway},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, Status(New(tc.kind, "x")))
	}
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(io.EOF))
	assert.Equal(t, http.StatusInternalServerError, Status(io.EOF))
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	err := Wrap(io.EOF, NotFound, "thing not found")
	assert.Equal(t, NotFound, KindOf(err))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "thing not found", MessageOf(err))
	assert.Contains(t, err.Error(), "EOF")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, Invalid, "x"))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal server error", MessageOf(io.EOF))
}
