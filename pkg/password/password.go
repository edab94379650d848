package password

import "golang.org/x/crypto/bcrypt"

// MinLength is the shortest password accepted at registration.
const MinLength = 8

var cost = bcrypt.DefaultCost

// SetCost changes the bcrypt work factor. Values outside bcrypt's range fall
// back to the default.
func SetCost(c int) {
	if c < bcrypt.MinCost || c > bcrypt.MaxCost {
		c = bcrypt.DefaultCost
	}
	cost = c
}

// Hash returns a salted bcrypt hash of plain.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a plaintext password with a stored hash.
func Verify(plain, hash string) bool {
	// a malformed hash is reported as a mismatch
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
