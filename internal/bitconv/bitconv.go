package bitconv

import (
	"bytes"

	"github.com/yyyoichi/bitstream-go"
)

// Terminator marks the end of a payload in the bitstream.
const Terminator = "====="

// TerminatorLen is the size of Terminator in bytes.
const TerminatorLen = len(Terminator)

// Recoverable returns how many leading bytes of payload a decoder gets back.
// Decoding ends at the first terminator in the framed stream, so a payload that
// contains the terminator, or ends in '=', is cut short.
func Recoverable(payload []byte) int {
	framed := make([]byte, 0, len(payload)+TerminatorLen)
	framed = append(append(framed, payload...), Terminator...)
	return bytes.Index(framed, []byte(Terminator))
}

// Stream is a framed payload expanded to bits, most significant bit first per byte.
// It is read-only once built and safe for concurrent readers.
type Stream struct {
	bits []bool
}

// Frame truncates payload to at most capacity bytes and appends the terminator.
// A negative capacity is treated as zero, the terminator itself is never cut.
func Frame(payload []byte, capacity int) *Stream {
	if capacity < 0 {
		capacity = 0
	}
	if len(payload) > capacity {
		payload = payload[:capacity]
	}

	w := bitstream.NewBitWriter[uint64](0, 0)
	put := func(b byte) {
		for i := 7; i >= 0; i-- {
			w.WriteBool((b>>uint(i))&1 == 1)
		}
	}
	for _, b := range payload {
		put(b)
	}
	for _, b := range []byte(Terminator) {
		put(b)
	}

	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(w.Bits())
	s := &Stream{bits: make([]bool, reader.Bits())}
	for i := range s.bits {
		s.bits[i], _ = reader.ReadBitAt(i)
	}
	return s
}

// Len returns the number of bits in the stream.
func (s *Stream) Len() int {
	return len(s.bits)
}

// Chunk reads up to n bits starting at bit offset at and packs them MSB first.
// It returns the packed value and how many bits were actually available.
func (s *Stream) Chunk(at, n int) (v uint8, got int) {
	for i := range n {
		if at+i >= s.Len() {
			break
		}
		v <<= 1
		if s.bits[at+i] {
			v |= 1
		}
		got++
	}
	return v, got
}

// Accumulator regroups extracted bits into bytes and watches for the terminator.
type Accumulator struct {
	data       []byte
	cur        byte
	nbits      int
	terminated bool
}

func NewAccumulator(sizeHint int) *Accumulator {
	return &Accumulator{data: make([]byte, 0, sizeHint)}
}

// Push appends the low n bits of v, most significant first.
// It reports true once the most recent bytes spell the terminator;
// bits pushed after that are ignored.
func (a *Accumulator) Push(v uint8, n int) bool {
	for i := n - 1; i >= 0; i-- {
		if a.terminated {
			return true
		}
		a.cur = a.cur<<1 | (v>>uint(i))&1
		a.nbits++
		if a.nbits < 8 {
			continue
		}
		a.data = append(a.data, a.cur)
		a.cur, a.nbits = 0, 0
		if len(a.data) >= TerminatorLen && bytes.Equal(a.data[len(a.data)-TerminatorLen:], []byte(Terminator)) {
			a.terminated = true
		}
	}
	return a.terminated
}

// Terminated reports whether the terminator was seen.
func (a *Accumulator) Terminated() bool {
	return a.terminated
}

// Bytes returns the complete bytes decoded so far. When the terminator was
// seen it is stripped; otherwise everything is returned as is.
func (a *Accumulator) Bytes() []byte {
	if a.terminated {
		return a.data[:len(a.data)-TerminatorLen]
	}
	return a.data
}
