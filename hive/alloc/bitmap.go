package alloc

import (
	"math/bits"

	"go.uber.org/atomic"
)

// wordBits is the number of slots covered by one bitmap word.
const wordBits = 64

// Bitmap is a fixed-length occupancy bitmap.
//
// Reads are atomic so a bit may be re-tested without holding the pool lock.
// Writes are load-then-store and therefore must be serialized by the caller.
type Bitmap struct {
	words []atomic.Uint64
	n     int
}

// NewBitmap returns a bitmap of n cleared bits.
func NewBitmap(n int) *Bitmap {
	return &Bitmap{
		words: make([]atomic.Uint64, (n+wordBits-1)/wordBits),
		n:     n,
	}
}

// Len returns the number of bits.
func (b *Bitmap) Len() int { return b.n }

// Words returns the number of 64-bit words.
func (b *Bitmap) Words() int { return len(b.words) }

// Word returns word w (bits [w*64, w*64+64)).
func (b *Bitmap) Word(w int) uint64 { return b.words[w].Load() }

// Test reports whether bit i is set.
func (b *Bitmap) Test(i int) bool {
	return b.words[i/wordBits].Load()&(1<<(uint(i)%wordBits)) != 0
}

// Set sets bit i.
func (b *Bitmap) Set(i int) {
	w := &b.words[i/wordBits]
	w.Store(w.Load() | 1<<(uint(i)%wordBits))
}

// Clear clears bit i and reports whether it was set.
func (b *Bitmap) Clear(i int) bool {
	w := &b.words[i/wordBits]
	old := w.Load()
	mask := uint64(1) << (uint(i) % wordBits)
	w.Store(old &^ mask)
	return old&mask != 0
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	n := 0
	for i := range b.words {
		n += bits.OnesCount64(b.words[i].Load())
	}
	return n
}

// Reset clears every bit.
func (b *Bitmap) Reset() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}

// NextSet returns the index of the first set bit at or after i, or -1.
func (b *Bitmap) NextSet(i int) int {
	if i >= b.n {
		return -1
	}
	w := i / wordBits
	word := b.words[w].Load() &^ (1<<(uint(i)%wordBits) - 1)
	for {
		if word != 0 {
			idx := w*wordBits + bits.TrailingZeros64(word)
			if idx >= b.n {
				return -1
			}
			return idx
		}
		w++
		if w >= len(b.words) {
			return -1
		}
		word = b.words[w].Load()
	}
}
