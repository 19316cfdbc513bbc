package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox")
	require.Equal(t, Sum(data), Sum(data))
	require.Equal(t, Sum([]byte("the quick brown fox")), Sum(data))
}

func TestSum_DistinctContentDiffers(t *testing.T) {
	a := Sum([]byte("document a"))
	b := Sum([]byte("document b"))
	require.NotEqual(t, a, b)

	// A single flipped byte changes the fingerprint.
	require.NotEqual(t, Sum([]byte("document a.")), a)
}

func TestSum_FixedLengthHex(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("x"), make([]byte, 1<<16)} {
		fp := Sum(data)
		require.Len(t, fp, 64)
		require.Regexp(t, "^[0-9a-f]{64}$", fp)
	}
}
