// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (key derivation, claim
// signing, the authorization gate) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"
)

// # Key Derivation Parameters
//
// These constants are shared between hashing and verification and must never
// change without a hash migration: every stored credential encodes a key
// derived with exactly these parameters.
const (
	// saltLength is the number of random salt bytes generated per hash.
	saltLength = 16

	// keyLength is the length in bytes of the derived key.
	keyLength = 64

	// scryptN is the CPU/memory cost parameter (power of two).
	scryptN = 1 << 15

	// scryptR is the block size parameter.
	scryptR = 8

	// scryptP is the parallelization parameter.
	scryptP = 1
)

// encodedSeparator joins the hex derived key and the hex salt.
const encodedSeparator = "."

// PasswordCodec derives and verifies one-way password hashes.
//
// # Encoding
//
// Credentials are persisted as `<derivedKeyHex>.<saltHex>`: a 64-byte scrypt
// key and a 16-byte random salt, both hex encoded, joined by a single dot.
// The salt fed to the KDF is the hex string itself, so hashes remain
// compatible with rows written by the previous platform.
//
// # Concurrency
//
// scrypt is deliberately CPU-bound (tens of milliseconds per call). Each
// derivation runs on the calling goroutine, so concurrent logins proceed in
// parallel; a weighted semaphore sized to GOMAXPROCS caps the number of
// simultaneous derivations so a login burst cannot starve the scheduler.
type PasswordCodec struct {
	derivations *semaphore.Weighted
}

// NewPasswordCodec constructs a [PasswordCodec] with a derivation ceiling
// matched to the available CPUs.
func NewPasswordCodec() *PasswordCodec {
	return &PasswordCodec{
		derivations: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

/*
Hash derives a one-way hash for the given plain-text password.

Description: Generates a fresh cryptographically random salt and derives a
fixed-length key with scrypt. Two calls on the same password always yield
different encodings.

Parameters:
  - ctx: context.Context (honoured while waiting for a derivation slot)
  - password: string

Returns:
  - string: Encoded `<keyHex>.<saltHex>` credential
  - error: Entropy-source exhaustion or context cancellation
*/
func (codec *PasswordCodec) Hash(ctx context.Context, password string) (string, error) {

	// Fresh random salt per hash. The salt is not secret; it only prevents
	// rainbow-table reuse across accounts.
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: salt generation failed: %w", err)
	}

	saltHex := hex.EncodeToString(salt)

	key, err := codec.derive(ctx, password, saltHex)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(key) + encodedSeparator + saltHex, nil
}

/*
Verify reports whether the password matches the encoded credential.

Description: Splits the encoding on the first dot, re-derives a key from the
password and the extracted salt with identical parameters, and compares the
result to the stored key in constant time.

Malformed input (missing separator, non-hex key, wrong key length) returns
false, never an error, because the encoding may be attacker-influenced.

Parameters:
  - ctx: context.Context
  - password: string
  - encoded: string

Returns:
  - bool: true only on an exact credential match
*/
func (codec *PasswordCodec) Verify(ctx context.Context, password, encoded string) bool {
	keyHex, saltHex, found := strings.Cut(encoded, encodedSeparator)
	if !found {
		return false
	}

	storedKey, err := hex.DecodeString(keyHex)
	if err != nil || len(storedKey) != keyLength {
		return false
	}

	candidateKey, err := codec.derive(ctx, password, saltHex)
	if err != nil {
		return false
	}

	// Equal-length byte-wise comparison that does not short-circuit on the
	// first mismatch, so response time never reveals a partial key match.
	return subtle.ConstantTimeCompare(storedKey, candidateKey) == 1
}

// derive runs the scrypt KDF behind the derivation semaphore.
func (codec *PasswordCodec) derive(ctx context.Context, password, saltHex string) ([]byte, error) {
	if err := codec.derivations.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("sec: derivation slot unavailable: %w", err)
	}
	defer codec.derivations.Release(1)

	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("sec: key derivation failed: %w", err)
	}

	return key, nil
}

// # Enumeration Resistance

// placeholderSalt feeds the dummy verification below. It is a fixed,
// well-known value; the derived key is never compared against anything real.
const placeholderSalt = "6b616c616d6f732d706c616365686f6c"

/*
VerifyPlaceholder burns a full key derivation against a fixed placeholder.

Description: Called when an authentication attempt targets an email with no
account (or an account with no stored hash) so that the request costs the
same as a real verification. The return value is always false and callers
must discard it.
*/
func (codec *PasswordCodec) VerifyPlaceholder(ctx context.Context, password string) bool {
	_, _ = codec.derive(ctx, password, placeholderSalt)
	return false
}
