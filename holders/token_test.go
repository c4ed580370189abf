// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holders

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expires *time.Time) string {
	claims := jwt.RegisteredClaims{Subject: "wallet"}
	if nil != expires {
		claims.ExpiresAt = jwt.NewNumericDate(*expires)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("service key"))
	require.Nil(t, err, "sign")
	return token
}

func TestTokenUsable(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	soon := now.Add(10 * time.Second)
	earlier := now.Add(-time.Hour)

	assert.True(t, tokenUsable(signedToken(t, &later), now), "valid token refused")
	assert.True(t, tokenUsable(signedToken(t, nil), now), "token without expiry refused")
	assert.False(t, tokenUsable(signedToken(t, &soon), now), "nearly expired token accepted")
	assert.False(t, tokenUsable(signedToken(t, &earlier), now), "expired token accepted")

	assert.True(t, tokenUsable("opaque-session-token", now), "opaque token refused")
	assert.False(t, tokenUsable("", now), "empty token accepted")
}
