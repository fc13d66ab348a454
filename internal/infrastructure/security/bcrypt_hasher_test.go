package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
)

func TestBcryptHasher_HashYCompare(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.Regexp(t, `^\$2[aby]\$\d+\$`, hash)

	assert.NoError(t, h.Compare(hash, "admin123"))
	assert.Error(t, h.Compare(hash, "otra"))
}

func TestBcryptHasher_SaltDistinto(t *testing.T) {
	h := security.NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("secreto")
	require.NoError(t, err)
	b, err := h.Hash("secreto")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewBcryptHasher_CostoInvalidoUsaDefault(t *testing.T) {
	h := security.NewBcryptHasher(0)
	hash, err := h.Hash("x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
