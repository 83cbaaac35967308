package secrets

import (
	"encoding/hex"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NumericCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHexToken(t *testing.T) {
	first, err := HexToken()
	require.NoError(t, err)
	require.Len(t, first, 40)

	raw, err := hex.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, raw, 20)

	second, err := HexToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
