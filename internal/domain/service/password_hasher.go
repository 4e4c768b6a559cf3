// Package service defines the ports the account logic needs from infrastructure:
// credential hashing, identity tokens and account event publishing.
package service

// PasswordHasher turns account passwords into one-way hashes. Only the hash
// is stored; plaintext never leaves the signup, login and password change paths.
type PasswordHasher interface {
	// Hash returns a salted hash of password. Failures wrap domain ErrPasswordHashFailed.
	Hash(password string) (string, error)

	// Check reports whether password produces hash.
	Check(password, hash string) bool
}
