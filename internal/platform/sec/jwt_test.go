// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/platform/sec"
)

// writeTestKeyPair generates a throwaway RSA key pair as PEM files.
func writeTestKeyPair(t *testing.T) (privatePath, publicPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath = filepath.Join(dir, "private.pem")
	publicPath = filepath.Join(dir, "public.pem")

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privatePath, privatePEM, 0o600))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})
	require.NoError(t, os.WriteFile(publicPath, publicPEM, 0o600))

	return privatePath, publicPath
}

/*
TestTokenService_RoundTrip issues a token and verifies the claims survive the
sign/verify cycle, with a distinct jti per issuance.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	privatePath, publicPath := writeTestKeyPair(t)

	service, err := sec.NewTokenService(privatePath, publicPath, "cropsight.app")
	require.NoError(t, err)

	token, jti, err := service.IssueSessionToken("identity-1", "Binh", "binh@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "identity-1", claims.IdentityID)
	assert.Equal(t, "identity-1", claims.Subject)
	assert.Equal(t, "Binh", claims.Name)
	assert.Equal(t, "binh@example.com", claims.Email)
	assert.Equal(t, "cropsight.app", claims.Issuer)

	// Every issuance gets a fresh jti.
	_, secondJTI, err := service.IssueSessionToken("identity-1", "Binh", "binh@example.com", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, jti, secondJTI)
}

/*
TestTokenService_RejectsExpiredAndForeign covers dead tokens: expired ones and
tokens signed by a different key.
*/
func TestTokenService_RejectsExpiredAndForeign(t *testing.T) {
	privatePath, publicPath := writeTestKeyPair(t)
	service, err := sec.NewTokenService(privatePath, publicPath, "cropsight.app")
	require.NoError(t, err)

	expired, _, err := service.IssueSessionToken("identity-1", "Binh", "binh@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	otherPrivate, otherPublic := writeTestKeyPair(t)
	otherService, err := sec.NewTokenService(otherPrivate, otherPublic, "cropsight.app")
	require.NoError(t, err)

	foreign, _, err := otherService.IssueSessionToken("identity-1", "Binh", "binh@example.com", time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("garbage")
	assert.Error(t, err)
}
