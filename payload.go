package stegano

import "github.com/yyyoichi/stegano_lsb/internal/bitconv"

// Payload is the data hidden in an image. It is one of Text, Bytes or Scalar.
type Payload interface {
	payload() []byte
}

var (
	_ Payload = Text("")
	_ Payload = Bytes(nil)
	_ Payload = Scalar(0)
)

// Text hides the UTF-8 encoding of a string.
// Decoding stops at the first "=====", so text ending in '=' or containing the
// terminator comes back shorter. See Recoverable.
type Text string

func (t Text) payload() []byte { return []byte(t) }

// Bytes hides raw bytes.
type Bytes []byte

func (b Bytes) payload() []byte { return b }

// Scalar hides a single byte.
type Scalar uint8

func (s Scalar) payload() []byte { return []byte{byte(s)} }

// Message is the result of decoding an image.
type Message struct {
	data       []byte
	terminated bool
}

// Bytes returns the recovered payload.
func (m *Message) Bytes() []byte {
	return m.data
}

func (m *Message) String() string {
	return string(m.data)
}

// Terminated reports whether the end-of-payload marker was found.
// When it is false the whole image was read and the data is best effort,
// which is what happens when decoding with the wrong bit depth or channels.
// True does not mean the payload is complete: a payload that ends in '='
// or contains the terminator stops early and is still terminated.
func (m *Message) Terminated() bool {
	return m.terminated
}

// Recoverable returns how many leading bytes of p survive a round trip through
// an image large enough to hold it. It is less than the payload length when the
// payload ends in '=' or contains the terminator, because decoding stops at the
// first terminator it reads.
func Recoverable(p Payload) int {
	if p == nil {
		return 0
	}
	return bitconv.Recoverable(p.payload())
}
