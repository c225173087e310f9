package dtls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// runPair establishes client and server Conns over an in-memory
// net.Pipe (so these tests need no real socket) and returns both once
// each has completed its handshake, or the first error either side
// produced.
func runPair(t *testing.T, clientCfg, serverCfg *Config) (*Conn, *Conn) {
	t.Helper()
	clientTransport, serverTransport := net.Pipe()

	type result struct {
		conn *Conn
		err  error
	}
	clientCh := make(chan result, 1)
	serverCh := make(chan result, 1)

	go func() {
		c, err := Client(clientTransport, clientCfg)
		clientCh <- result{c, err}
	}()
	go func() {
		c, err := Server(serverTransport, serverCfg)
		serverCh <- result{c, err}
	}()

	var client, server result
	for i := 0; i < 2; i++ {
		select {
		case client = <-clientCh:
		case server = <-serverCh:
		case <-time.After(5 * time.Second):
			t.Fatal("handshake did not complete in time")
		}
	}
	require.NoError(t, client.err)
	require.NoError(t, server.err)
	return client.conn, server.conn
}

func TestHandshakeECDHAnonAndApplicationData(t *testing.T) {
	cfg := func() *Config {
		return &Config{CipherSuites: []CipherSuiteID{TLS_ECDH_anon_WITH_AES_128_CBC_SHA256}}
	}
	client, server := runPair(t, cfg(), cfg())
	defer client.Close()
	defer server.Close()

	require.NotEmpty(t, client.st.master)
	require.Equal(t, client.st.master, server.st.master)

	exchangeEcho(t, client, server)
}

func TestHandshakeECDHEPSK(t *testing.T) {
	psk := []byte("correct horse battery staple")
	identity := []byte("device-1")

	clientCfg := &Config{
		CipherSuites: []CipherSuiteID{TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256},
		PSK:          func([]byte) ([]byte, error) { return psk, nil },
		PSKIdentity:  identity,
	}
	serverCfg := &Config{
		CipherSuites:    []CipherSuiteID{TLS_ECDHE_PSK_WITH_AES_128_CBC_SHA256},
		PSK:             func([]byte) ([]byte, error) { return psk, nil },
		PSKIdentityHint: []byte("server-hint"),
	}

	client, server := runPair(t, clientCfg, serverCfg)
	defer client.Close()
	defer server.Close()

	require.Equal(t, client.st.master, server.st.master)
	require.Equal(t, identity, server.st.pskIdentity)

	exchangeEcho(t, client, server)
}

func TestHandshakeECDHEECDSA(t *testing.T) {
	cert := generateTestECDSACertificate(t)
	cfg := func() *Config {
		return &Config{
			CipherSuites: []CipherSuiteID{TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA256},
			Certificate:  cert,
		}
	}
	client, server := runPair(t, cfg(), cfg())
	defer client.Close()
	defer server.Close()

	require.Equal(t, client.st.master, server.st.master)
	exchangeEcho(t, client, server)
}

func TestHandshakeNegotiatesExtendedMasterSecretOnlyWhenEnabled(t *testing.T) {
	plainCfg := func() *Config {
		return &Config{CipherSuites: []CipherSuiteID{TLS_ECDH_anon_WITH_AES_128_CBC_SHA256}}
	}
	extCfg := func() *Config {
		return &Config{
			CipherSuites:         []CipherSuiteID{TLS_ECDH_anon_WITH_AES_128_CBC_SHA256},
			ExtendedMasterSecret: true,
		}
	}

	plainClient, plainServer := runPair(t, plainCfg(), plainCfg())
	defer plainClient.Close()
	defer plainServer.Close()
	require.False(t, plainClient.st.extendedMasterSecret)

	extClient, extServer := runPair(t, extCfg(), extCfg())
	defer extClient.Close()
	defer extServer.Close()
	require.True(t, extClient.st.extendedMasterSecret)
	require.Equal(t, extClient.st.master, extServer.st.master)
}

func exchangeEcho(t *testing.T, client, server *Conn) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := server.Read(buf)
		if err != nil {
			done <- err
			return
		}
		_, err = server.Write(buf[:n])
		done <- err
	}()

	_, err := client.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := client.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf[:n]))
	require.NoError(t, <-done)
}

func generateTestECDSACertificate(t *testing.T) *tls.Certificate {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "dtls-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	require.NoError(t, err)

	return &tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  priv,
	}
}
