package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	if p := NewPool(); p.Pool() == nil || p.added != 0 {
		t.Errorf("NewPool() = %+v", p)
	}
	if p := newEmptyPool(); p.Pool() == nil || p.added != 0 {
		t.Errorf("newEmptyPool() = %+v", p)
	}
}

func TestAddCertPEM(t *testing.T) {
	cert1 := certPEM(t, generateTestCert(t, "one.local"))
	cert2 := certPEM(t, generateTestCert(t, "two.local"))
	keyBlock := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("ignored")})
	badCert := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("not der")})

	tests := []struct {
		name      string
		data      []byte
		wantAdded int
		wantErr   error
	}{
		{"single", cert1, 1, nil},
		{"bundle", append(append([]byte{}, cert1...), cert2...), 2, nil},
		{"other blocks skipped", append(append([]byte{}, keyBlock...), cert1...), 1, nil},
		{"empty", nil, 0, ErrNoCertsFound},
		{"only key", keyBlock, 0, ErrNoCertsFound},
		{"garbage", []byte("hello"), 0, ErrNoCertsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newEmptyPool()
			err := p.AddCertPEM(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddCertPEM() error = %v, want %v", err, tt.wantErr)
			}
			if p.added != tt.wantAdded {
				t.Errorf("added = %d, want %d", p.added, tt.wantAdded)
			}
		})
	}

	t.Run("invalid der", func(t *testing.T) {
		err := newEmptyPool().AddCertPEM(badCert)
		if err == nil || errors.Is(err, ErrNoCertsFound) {
			t.Errorf("AddCertPEM() error = %v, want parse error", err)
		}
	})
}

func TestAddCertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ca.pem")
	if err := os.WriteFile(path, certPEM(t, generateTestCert(t, "ca.local")), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	p := newEmptyPool()
	if err := p.AddCertFile(path); err != nil {
		t.Fatalf("AddCertFile() error = %v", err)
	}
	if p.added != 1 {
		t.Errorf("added = %d, want 1", p.added)
	}

	if err := p.AddCertFile(filepath.Join(dir, "missing.pem")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("AddCertFile(missing) error = %v, want ErrNotExist", err)
	}

	empty := filepath.Join(dir, "empty.pem")
	os.WriteFile(empty, nil, 0o600)
	err := p.AddCertFile(empty)
	if !errors.Is(err, ErrNoCertsFound) || !strings.Contains(err.Error(), empty) {
		t.Errorf("AddCertFile(empty) error = %v", err)
	}
}

func TestClientConfig(t *testing.T) {
	cfg := newEmptyPool().ClientConfig()
	if cfg.RootCAs == nil {
		t.Error("RootCAs should be set")
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}
}

func TestClientConfigFromFile_TrustsPrivateServer(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "server.pem")
	if err := os.WriteFile(path, certPEM(t, server.Certificate()), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// Without the bundle the test server's certificate is unknown.
	plain := &http.Client{Transport: &http.Transport{TLSClientConfig: newEmptyPool().ClientConfig()}}
	if _, err := plain.Get(server.URL); err == nil {
		t.Fatal("request without the CA bundle should fail verification")
	}

	cfg, err := ClientConfigFromFile(path)
	if err != nil {
		t.Fatalf("ClientConfigFromFile() error = %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func certPEM(t *testing.T, cert *x509.Certificate) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

// generateTestCert generates a self-signed CA certificate.
func generateTestCert(t *testing.T, cn string) *x509.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{Organization: []string{"Test Org"}, CommonName: cn},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}
	return cert
}
