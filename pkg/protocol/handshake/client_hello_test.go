package handshake

import (
	"testing"

	"github.com/stretchr/testify/require"

	"funahara/dtls/pkg/protocol"
)

func TestClientHelloRoundTripDTLS(t *testing.T) {
	random, err := GenerateRandom()
	require.NoError(t, err)

	hello := &MessageClientHello{
		IsDTLS:             true,
		Version:            protocol.VersionDTLS12,
		Random:             random,
		SessionID:          []byte{1, 2, 3},
		Cookie:             []byte{4, 5, 6, 7},
		CipherSuites:       []uint16{0xc023, 0xc037, 0xc018},
		CompressionMethods: []byte{0},
		Extensions:         ellipticCurvesTestExtension(),
	}

	wire, err := hello.Marshal()
	require.NoError(t, err)

	var got MessageClientHello
	got.IsDTLS = true
	require.NoError(t, got.Unmarshal(wire))

	require.Equal(t, hello.Version, got.Version)
	require.Equal(t, hello.Random, got.Random)
	require.Equal(t, hello.SessionID, got.SessionID)
	require.Equal(t, hello.Cookie, got.Cookie)
	require.Equal(t, hello.CipherSuites, got.CipherSuites)
	require.Equal(t, hello.CompressionMethods, got.CompressionMethods)
	require.Equal(t, hello.Extensions, got.Extensions)
}

func TestClientHelloRoundTripTLSHasNoCookie(t *testing.T) {
	random, err := GenerateRandom()
	require.NoError(t, err)

	hello := &MessageClientHello{
		IsDTLS:             false,
		Version:            protocol.Version12,
		Random:             random,
		CipherSuites:       []uint16{0xc023},
		CompressionMethods: []byte{0},
	}
	wire, err := hello.Marshal()
	require.NoError(t, err)

	var got MessageClientHello
	require.NoError(t, got.Unmarshal(wire))
	require.Empty(t, got.Cookie)
	require.Equal(t, hello.CipherSuites, got.CipherSuites)
}

func TestHandshakeUnmarshalSetsIsDTLSOnClientHello(t *testing.T) {
	random, err := GenerateRandom()
	require.NoError(t, err)

	hello := &MessageClientHello{
		IsDTLS:             true,
		Version:            protocol.VersionDTLS12,
		Random:             random,
		Cookie:             []byte{9, 9},
		CipherSuites:       []uint16{0xc018},
		CompressionMethods: []byte{0},
	}
	hs := Handshake{Message: hello}
	wire, err := hs.Marshal(true, 0)
	require.NoError(t, err)

	var parsed Handshake
	n, err := parsed.Unmarshal(wire, true)
	require.NoError(t, err)
	require.Equal(t, len(wire), n)

	got, ok := parsed.Message.(*MessageClientHello)
	require.True(t, ok)
	require.Equal(t, hello.Cookie, got.Cookie)
}

func ellipticCurvesTestExtension() []Extension {
	return []Extension{{Type: ExtensionEllipticCurves, Data: []byte{2, 0, 29}}}
}
