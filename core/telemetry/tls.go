package telemetry

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

var errNoCerts = errors.New("no CA certificates found in the PEM bundle")

// tlsConfig trusts only the CAs of a base64-encoded PEM bundle.
func tlsConfig(caCerts string) (*tls.Config, error) {
	pem, err := base64.StdEncoding.DecodeString(caCerts)
	if err != nil {
		return nil, fmt.Errorf("decoding CA certificates: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errNoCerts
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
