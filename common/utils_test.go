package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexRoundTrip(t *testing.T) {
	b := RandBytes(20)
	s := ByteSliceToPureHexStr(b)
	assert.Equal(t, b, HexStrToByteSlice(s))
	assert.Equal(t, b, HexStrToByteSlice(Prepend0xPrefix(s)))
}

func TestUint64Bytes32(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 1 << 32, ^uint64(0)} {
		assert.Equal(t, v, Bytes32ToUint64(Uint64ToBytes32(v)))
	}
}

func TestTrimPrepend(t *testing.T) {
	assert.Equal(t, "abcd", Trim0xPrefix("0xabcd"))
	assert.Equal(t, "abcd", Trim0xPrefix("0Xabcd"))
	assert.Equal(t, "0xabcd", Prepend0xPrefix("abcd"))
	assert.Equal(t, "0xabcd", Prepend0xPrefix("0xabcd"))
}

func TestShorten(t *testing.T) {
	long := "0x" + "ab12cd34ef56ab12cd34ef56ab12cd34ef56"
	short := Shorten(long, 4)
	assert.Contains(t, short, "...")
	assert.Equal(t, "0xabcd", Shorten("0xabcd", 4))
}

func TestRandBytes32(t *testing.T) {
	a := RandBytes32()
	b := RandBytes32()
	assert.NotEqual(t, a, b)
}
