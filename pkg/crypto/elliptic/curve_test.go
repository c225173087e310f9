package elliptic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"funahara/dtls/pkg/protocol/handshake"
)

func TestAllCurvesAgreeOnSharedSecret(t *testing.T) {
	for _, id := range Supported() {
		id := id
		t.Run(fmt.Sprintf("curve-%d", id), func(t *testing.T) {
			curve, err := ByID(id)
			require.NoError(t, err)

			privA, pubA, err := curve.GenerateKeypair()
			require.NoError(t, err)
			privB, pubB, err := curve.GenerateKeypair()
			require.NoError(t, err)

			secretA, err := curve.Agree(privA, pubB)
			require.NoError(t, err)
			secretB, err := curve.Agree(privB, pubA)
			require.NoError(t, err)
			require.Equal(t, secretA, secretB)
			require.NotEmpty(t, secretA)
		})
	}
}

func TestByIDRejectsUnknownCurve(t *testing.T) {
	_, err := ByID(handshake.NamedCurve(0xffff))
	require.ErrorIs(t, err, ErrUnsupportedCurve)
}

func TestNistCurveSharedSecretIsFixedWidth(t *testing.T) {
	curve, err := ByID(handshake.NamedCurveSecp256r1)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		privA, _, err := curve.GenerateKeypair()
		require.NoError(t, err)
		_, pubB, err := curve.GenerateKeypair()
		require.NoError(t, err)

		secret, err := curve.Agree(privA, pubB)
		require.NoError(t, err)
		require.Len(t, secret, 32)
	}
}
