package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/lrutable/internal/testutil"
)

func Test_ByteStream_Returns_Zero_Values_When_Exhausted(t *testing.T) {
	t.Parallel()

	s := testutil.NewByteStream([]byte{7})

	assert.True(t, s.HasMore())
	assert.Equal(t, byte(7), s.NextByte())
	assert.False(t, s.HasMore())
	assert.Equal(t, byte(0), s.NextByte())
	assert.Equal(t, 0, s.NextInt(5))
	assert.False(t, s.NextBool())
	assert.Equal(t, "a", s.NextWord(4))
}

func Test_ByteStream_Decodes_Ops_When_Pairs_Available(t *testing.T) {
	t.Parallel()

	s := testutil.NewByteStream([]byte{0x05, 0x2a, 0x83, 0x00, 0x01})

	op, ok := s.NextOp(4)
	assert.True(t, ok)
	assert.Equal(t, testutil.Op{Remove: false, Key: 1, Value: 42}, op)

	op, ok = s.NextOp(4)
	assert.True(t, ok)
	assert.Equal(t, testutil.Op{Remove: true, Key: 3, Value: 0}, op)

	_, ok = s.NextOp(4)
	assert.False(t, ok, "a single trailing byte is not an op")
}

func Test_ByteStream_Bounds_Values_When_Limits_Given(t *testing.T) {
	t.Parallel()

	s := testutil.NewByteStream([]byte{255, 255, 3, 200, 201, 202, 203})

	assert.Equal(t, 255%10, s.NextInt(10))
	assert.Equal(t, 0, s.NextInt(0))
	assert.True(t, s.NextBool())

	// Length byte 3 % 4 = 3 gives four letters.
	word := s.NextWord(4)
	assert.Equal(t, "stuv", word)
}
