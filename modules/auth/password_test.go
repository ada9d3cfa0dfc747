package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse" {
		t.Error("Hash() returned the plain password")
	}

	if !hasher.Verify("correct horse", hash) {
		t.Error("Verify() = false for the right password")
	}
	if hasher.Verify("wrong horse", hash) {
		t.Error("Verify() = true for the wrong password")
	}
	if hasher.Verify("correct horse", "not-a-hash") {
		t.Error("Verify() = true for a malformed hash")
	}
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "zero uses default", cost: 0, want: DefaultBcryptCost},
		{name: "below minimum", cost: 1, want: bcrypt.MinCost},
		{name: "above maximum", cost: 99, want: bcrypt.MaxCost},
		{name: "in range", cost: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBcryptHasher(tt.cost).cost; got != tt.want {
				t.Errorf("cost = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	if _, err := hasher.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() of 72 bytes error = %v", err)
	}
}
