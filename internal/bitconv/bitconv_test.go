package bitconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func streamBytes(s *Stream) []byte {
	out := make([]byte, 0, s.Len()/8)
	for at := 0; at < s.Len(); at += 8 {
		v, _ := s.Chunk(at, 8)
		out = append(out, v)
	}
	return out
}

func TestFrame(t *testing.T) {
	test := []struct {
		name     string
		payload  []byte
		capacity int
		exp      []byte
	}{
		{"fits", []byte("Hello"), 10, []byte("Hello=====")},
		{"truncated", []byte("Hello"), 2, []byte("He=====")},
		{"zero capacity", []byte("Hello"), 0, []byte("=====")},
		{"negative capacity", []byte("Hello"), -3, []byte("=====")},
		{"empty", []byte{}, 4, []byte("=====")},
		{"multibyte", []byte("こんにちは"), 100, []byte("こんにちは=====")},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			s := Frame(tt.payload, tt.capacity)
			assert.Equal(t, len(tt.exp)*8, s.Len())
			assert.Equal(t, tt.exp, streamBytes(s))
		})
	}
}

func TestRecoverable(t *testing.T) {
	test := []struct {
		payload string
		exp     int
	}{
		{"Hello", 5},
		{"", 0},
		{"a=", 1},
		{"x==", 1},
		{"====", 0},
		{"k=====z", 1},
		{"=a", 2},
		{"=a=", 2},
		{"a==b", 4},
	}
	for _, tt := range test {
		t.Run(tt.payload, func(t *testing.T) {
			assert.Equal(t, tt.exp, Recoverable([]byte(tt.payload)))
		})
	}
}

func TestStreamChunk(t *testing.T) {
	// 'A' = 0b01000001, '=' = 0b00111101
	s := Frame([]byte("A"), 1)
	v, got := s.Chunk(0, 3)
	assert.Equal(t, uint8(0b010), v)
	assert.Equal(t, 3, got)

	v, got = s.Chunk(6, 4)
	assert.Equal(t, uint8(0b0100), v)
	assert.Equal(t, 4, got)

	// only two bits left at the tail: '=' ends with 0b01
	v, got = s.Chunk(s.Len()-2, 5)
	assert.Equal(t, uint8(0b01), v)
	assert.Equal(t, 2, got)

	_, got = s.Chunk(s.Len(), 3)
	assert.Zero(t, got)
}

func TestAccumulator(t *testing.T) {
	t.Run("terminated", func(t *testing.T) {
		a := NewAccumulator(0)
		var done bool
		for _, b := range []byte("Hi=====junk") {
			if done = a.Push(b>>4, 4); done {
				break
			}
			if done = a.Push(b&0x0f, 4); done {
				break
			}
		}
		assert.True(t, done)
		assert.True(t, a.Terminated())
		assert.Equal(t, []byte("Hi"), a.Bytes())
	})

	t.Run("unterminated", func(t *testing.T) {
		a := NewAccumulator(0)
		for _, b := range []byte("Hi====") {
			assert.False(t, a.Push(b, 8))
		}
		// trailing partial byte is dropped
		assert.False(t, a.Push(0b1, 1))
		assert.False(t, a.Terminated())
		assert.Equal(t, []byte("Hi===="), a.Bytes())
	})

	t.Run("bits after terminator are ignored", func(t *testing.T) {
		a := NewAccumulator(0)
		for _, b := range []byte("=====") {
			a.Push(b, 8)
		}
		assert.True(t, a.Push(0xff, 8))
		assert.Empty(t, a.Bytes())
	})
}
