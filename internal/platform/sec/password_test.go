// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgiannako/kalamos/internal/platform/sec"
)

/*
TestPasswordCodec_RoundTrip verifies that a hashed password verifies against
its own encoding.
*/
func TestPasswordCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	encoded, err := codec.Hash(ctx, "καλαμος-secret-1")
	require.NoError(t, err)

	assert.True(t, codec.Verify(ctx, "καλαμος-secret-1", encoded))
}

/*
TestPasswordCodec_EncodingShape checks the `<keyHex>.<saltHex>` layout of the
stored credential.
*/
func TestPasswordCodec_EncodingShape(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	encoded, err := codec.Hash(ctx, "secret")
	require.NoError(t, err)

	parts := strings.Split(encoded, ".")
	require.Len(t, parts, 2)

	// 64-byte derived key and 16-byte salt, both hex encoded.
	assert.Len(t, parts[0], 128)
	assert.Len(t, parts[1], 32)
}

/*
TestPasswordCodec_DistinctSalts ensures two hashes of the same password
differ but both verify.
*/
func TestPasswordCodec_DistinctSalts(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	first, err := codec.Hash(ctx, "same-password")
	require.NoError(t, err)

	second, err := codec.Hash(ctx, "same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, codec.Verify(ctx, "same-password", first))
	assert.True(t, codec.Verify(ctx, "same-password", second))
}

/*
TestPasswordCodec_WrongPassword verifies that a near-miss password is rejected.
*/
func TestPasswordCodec_WrongPassword(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	encoded, err := codec.Hash(ctx, "correct-password")
	require.NoError(t, err)

	assert.False(t, codec.Verify(ctx, "correct-passwore", encoded))
	assert.False(t, codec.Verify(ctx, "", encoded))
}

/*
TestPasswordCodec_MalformedEncodings ensures malformed stored values return
false rather than erroring.
*/
func TestPasswordCodec_MalformedEncodings(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"no_separator", "deadbeef"},
		{"non_hex_key", "zzzz.deadbeef"},
		{"short_key", "deadbeef.deadbeef"},
		{"only_separator", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, codec.Verify(ctx, "whatever", tt.encoded))
		})
	}
}

/*
TestPasswordCodec_VerifyPlaceholder confirms the dummy verification never
reports a match.
*/
func TestPasswordCodec_VerifyPlaceholder(t *testing.T) {
	ctx := context.Background()
	codec := sec.NewPasswordCodec()

	assert.False(t, codec.VerifyPlaceholder(ctx, "any-password"))
	assert.False(t, codec.VerifyPlaceholder(ctx, ""))
}
