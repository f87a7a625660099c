package pinhash

import (
	"testing"
)

func TestHashers(t *testing.T) {
	hashers := map[string]Hasher{
		"sha256": SHA256{},
		"bcrypt": Bcrypt{Cost: 4}, // min cost keeps the test fast
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("1234")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if digest == "1234" {
				t.Fatal("digest equals the plaintext PIN")
			}
			if digest == "" {
				t.Fatal("empty digest")
			}
			if !h.Verify("1234", digest) {
				t.Error("correct PIN rejected")
			}
			if h.Verify("9999", digest) {
				t.Error("wrong PIN accepted")
			}
		})
	}
}

func TestSHA256Deterministic(t *testing.T) {
	a, _ := SHA256{}.Hash("4321")
	b, _ := SHA256{}.Hash("4321")
	if a != b {
		t.Errorf("sha256 digests differ: %s vs %s", a, b)
	}
}

func TestBcryptSalted(t *testing.T) {
	h := Bcrypt{Cost: 4}
	a, _ := h.Hash("4321")
	b, _ := h.Hash("4321")
	if a == b {
		t.Error("bcrypt digests for the same PIN should differ")
	}
}
