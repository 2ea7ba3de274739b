// Package testutil holds helpers shared by fuzz tests.
package testutil

// ByteStream reads fuzz input as a deterministic sequence of values.
//
// Reads past the end return zero values, so the same input always yields
// the same sequence.
type ByteStream struct {
	data []byte
	pos  int
}

// NewByteStream creates a stream over b.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{data: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.data)
}

// Remaining returns the number of unread bytes.
func (s *ByteStream) Remaining() int {
	return len(s.data) - s.pos
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.data) {
		return 0
	}

	v := s.data[s.pos]
	s.pos++

	return v
}

// NextInt returns a value in [0, maxVal) derived from the next byte.
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// NextWord returns 1 to maxLen lowercase ASCII letters.
func (s *ByteStream) NextWord(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	word := make([]byte, 1+s.NextInt(maxLen))
	for i := range word {
		word[i] = 'a' + s.NextByte()%26
	}

	return string(word)
}

// Op is one table mutation decoded from fuzz input.
type Op struct {
	Remove bool
	Key    int
	Value  int
}

// NextOp decodes an [Op] from the next two bytes. The high bit of the first
// byte selects removal and its low seven bits pick a key below keySpace; the
// second byte is the value. ok is false once fewer than two bytes remain.
func (s *ByteStream) NextOp(keySpace int) (Op, bool) {
	if s.Remaining() < 2 {
		return Op{}, false
	}

	opByte := s.NextByte()
	value := s.NextByte()

	return Op{
		Remove: opByte&0x80 != 0,
		Key:    int(opByte&0x7f) % max(keySpace, 1),
		Value:  int(value),
	}, true
}
