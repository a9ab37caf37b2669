// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	const password = "forêt-de-brocéliande-2026"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	valid, err := CheckPassword(password, hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Error("correct password rejected")
	}

	valid, err = CheckPassword("mauvais-mot-de-passe", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("même-mot-de-passe")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("même-mot-de-passe")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password must not share a salt")
	}
}

func TestCheckPasswordForeignParameters(t *testing.T) {
	// Hash of "changeme" created with m=65536,t=1,p=4. Verification honors
	// the parameters embedded in the hash, not the current defaults.
	foreign := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	valid, err := CheckPassword("changeme", foreign)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Error("hash with foreign parameters rejected correct password")
	}
	if !NeedsRehash(foreign) {
		t.Error("NeedsRehash should flag hash with foreign parameters")
	}
}

func TestNeedsRehashCurrentParameters(t *testing.T) {
	hash, err := HashPassword("n'importe quoi")
	if err != nil {
		t.Fatal(err)
	}
	if NeedsRehash(hash) {
		t.Error("freshly created hash flagged for rehash")
	}
}

func TestCheckPasswordMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$abc$def",
		"$argon2id$v=19$m=abc,t=2,p=1$abc$def",
		"$argon2id$v=19$m=19456,t=2,p=1$not-base64!$def",
	} {
		if _, err := CheckPassword("changeme", encoded); !errors.Is(err, ErrMalformedHash) {
			t.Errorf("CheckPassword(%q) error = %v, want ErrMalformedHash", encoded, err)
		}
		if !NeedsRehash(encoded) {
			t.Errorf("NeedsRehash(%q) = false, want true", encoded)
		}
	}
}
