package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCertsFound is returned when a PEM source holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found")

// certExts are the file extensions read from a directory.
var certExts = map[string]bool{".pem": true, ".crt": true, ".cer": true}

// Load returns the system roots extended with the certificates found at
// paths. A path may be a PEM file or a directory of them.
func Load(paths ...string) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := addPath(pool, p); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// ClientConfig returns a TLS client configuration trusting Load(paths...).
func ClientConfig(paths ...string) (*tls.Config, error) {
	pool, err := Load(paths...)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

func addPath(pool *x509.CertPool, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tlsroots: %w", err)
	}
	if !info.IsDir() {
		return addFile(pool, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read dir %s: %w", path, err)
	}
	var added int
	for _, e := range entries {
		if e.IsDir() || !certExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		if err := addFile(pool, filepath.Join(path, e.Name())); err != nil {
			return err
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("%w in %s", ErrNoCertsFound, path)
	}
	return nil
}

func addFile(pool *x509.CertPool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	certs, err := parsePEM(data)
	if err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	for _, c := range certs {
		pool.AddCert(c)
	}
	return nil
}

// parsePEM decodes every CERTIFICATE block, ignoring other block types.
func parsePEM(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, ErrNoCertsFound
	}
	return certs, nil
}
