package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	SetCost(bcrypt.MinCost)
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("longenough")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "longenough" {
		t.Fatalf("Expected hash to differ from plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Expected a bcrypt hash, got %q", hash)
	}
	if !Verify("longenough", hash) {
		t.Errorf("Expected correct password to verify")
	}
	if Verify("wrongpass", hash) {
		t.Errorf("Expected wrong password to be rejected")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := Hash("same-password")
	b, _ := Hash("same-password")
	if a == b {
		t.Errorf("Expected two hashes of the same password to differ")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	if Verify("whatever", "not-a-hash") {
		t.Errorf("Expected malformed hash to be rejected")
	}
}
