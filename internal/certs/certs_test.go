package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCertificate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	m := NewFileManager(dir)

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	require.NotEmpty(t, first.Certificate)
	assert.FileExists(t, m.CertFile())

	leaf, err := x509.ParseCertificate(first.Certificate[0])
	require.NoError(t, err)
	require.NoError(t, leaf.VerifyHostname("localhost"))
	require.NoError(t, leaf.VerifyHostname("127.0.0.1"))

	// A valid certificate is reused.
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.Equal(t, first.Certificate[0], second.Certificate[0])

	info, err := os.Stat(filepath.Join(dir, "localhost.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGetOrCreateCertificate_ReplacesCorrupt(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localhost.crt"), []byte("garbage"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localhost.key"), []byte("garbage"), 0600))

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
}

func TestVerifyCertificate_Expired(t *testing.T) {
	m := NewFileManager(t.TempDir())
	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	require.NoError(t, verifyCertificate(cert, time.Now()))
	assert.Error(t, verifyCertificate(cert, time.Now().Add(2*Validity)))
}

func TestTLSConfig(t *testing.T) {
	cfg, err := NewFileManager(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
}
