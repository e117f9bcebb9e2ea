// Copyright (c) 2026 Kalamos. All rights reserved.
// Author: giannis@kalamos.gr

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgiannako/kalamos/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(testSecret, "kalamos.gr", time.Hour)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_ShortSecret ensures weak secrets are refused at startup.
*/
func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := sec.NewTokenService("too-short", "kalamos.gr", time.Hour)
	require.Error(t, err)
}

/*
TestTokenService_IssueVerify round-trips an identity through a signed token.
*/
func TestTokenService_IssueVerify(t *testing.T) {
	service := newTokenService(t)

	identity := sec.Identity{
		ID:       "user-1",
		Username: "nikos",
		Email:    "nikos@example.com",
		RoleID:   int(sec.RoleAuthor),
	}

	token, err := service.Issue(identity)
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "nikos", claims.Username)
	assert.Equal(t, int(sec.RoleAuthor), claims.RoleID)
	assert.Equal(t, "kalamos.gr", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

/*
TestTokenService_Reissue verifies a rename keeps the user and role intact
while refreshing the username.
*/
func TestTokenService_Reissue(t *testing.T) {
	service := newTokenService(t)

	token, err := service.Issue(sec.Identity{
		ID:       "user-1",
		Username: "nikos",
		RoleID:   int(sec.RoleAuthor),
	})
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	renamed, err := service.Reissue(claims, "nikolaos")
	require.NoError(t, err)

	refreshed, err := service.Verify(renamed)
	require.NoError(t, err)

	assert.Equal(t, "nikolaos", refreshed.Username)
	assert.Equal(t, "user-1", refreshed.UserID)
	// A rename must never move the role ordinal.
	assert.Equal(t, int(sec.RoleAuthor), refreshed.RoleID)
}

/*
TestTokenService_Verify_Rejections covers tampered and foreign tokens.
*/
func TestTokenService_Verify_Rejections(t *testing.T) {
	service := newTokenService(t)

	token, err := service.Issue(sec.Identity{ID: "user-1", Username: "nikos", RoleID: 1})
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := service.Verify("not-a-token")
		assert.Error(t, err)
	})

	t.Run("tampered_payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		tampered := parts[0] + ".eyJmYWtlIjp0cnVlfQ." + parts[2]
		_, err := service.Verify(tampered)
		assert.Error(t, err)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService(strings.Repeat("x", 32), "kalamos.gr", time.Hour)
		require.NoError(t, err)

		_, err = other.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		shortLived, err := sec.NewTokenService(testSecret, "kalamos.gr", -time.Minute)
		require.NoError(t, err)

		expired, err := shortLived.Issue(sec.Identity{ID: "user-1", RoleID: 1})
		require.NoError(t, err)

		_, err = service.Verify(expired)
		assert.Error(t, err)
	})
}
