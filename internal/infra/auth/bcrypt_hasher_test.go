package auth

import (
	"strings"
	"testing"

	"qbank/config"
	domainerrors "qbank/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "secret1"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("secret1", first))
	assert.True(t, hasher.Check("secret1", second))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	password := "secret1"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("wrong12", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: customCost}})

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	// Verify the hash uses the correct cost
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_OutOfRangeCost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MaxCost + 1)

	impl, ok := hasher.(*bcryptHasher)
	require.True(t, ok)
	assert.Equal(t, DefaultBcryptCost, impl.cost)
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	// bcrypt refuses inputs longer than 72 bytes
	_, err := hasher.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}
