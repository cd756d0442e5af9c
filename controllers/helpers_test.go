package controllers

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperr"
)

func TestWriteErr(t *testing.T) {
	t.Run("duplicate key becomes conflict", func(t *testing.T) {
		dup := mongo.WriteException{
			WriteErrors: []mongo.WriteError{{Code: 11000}},
		}
		err := writeErr(dup, "email already registered", "failed to register")
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
		assert.Equal(t, "email already registered", apperr.MessageOf(err))
	})

	t.Run("other errors stay internal", func(t *testing.T) {
		err := writeErr(io.EOF, "email already registered", "failed to register")
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
		assert.Equal(t, "failed to register", apperr.MessageOf(err))
	})
}

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against original", func(t *testing.T) {
		hashed, err := hashPassword("s3cret-pass")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret-pass")))
	})

	t.Run("over 72 bytes is rejected", func(t *testing.T) {
		_, err := hashPassword(strings.Repeat("a", 80))
		require.Error(t, err)
		assert.Equal(t, apperr.Invalid, apperr.KindOf(err))
	})
}
