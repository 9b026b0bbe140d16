// Package isaac implements Bob Jenkins' ISAAC pseudo-random number generator.
//
// ISAAC is used by this module only as a deterministic fallback when no
// cryptographically secure byte source is present. Given the same seed it
// always produces the same sequence, which is what makes it testable; it is
// not a replacement for crypto/rand.
//
// A [Generator] is not safe for concurrent use. Callers that share one across
// goroutines must serialise access themselves (see package random).
package isaac

import "encoding/binary"

const (
	size   = 256
	golden = 0x9e3779b9
)

// Generator holds the full ISAAC state.
//
// The zero value is ready to use: the first draw seeds it with an empty seed.
type Generator struct {
	mem [size]uint32
	rsl [size]uint32

	a uint32 // accumulator
	b uint32 // last result
	c uint32 // counter

	remaining int
	seeded    bool
}

// New returns a Generator seeded with seed.
func New(seed ...uint32) *Generator {
	g := &Generator{}
	g.Seed(seed...)
	return g
}

// Seed resets the generator and folds seed into its state. Every seed word
// influences every memory word. Words beyond the 256th wrap around and are
// added to earlier slots.
func (g *Generator) Seed(seed ...uint32) {
	g.reset()
	for i, w := range seed {
		g.rsl[i&0xff] += w
	}

	var x [8]uint32
	for i := range x {
		x[i] = golden
	}
	for i := 0; i < 4; i++ {
		mix(&x)
	}

	for i := 0; i < size; i += 8 {
		for j := range x {
			x[j] += g.rsl[i+j]
		}
		mix(&x)
		copy(g.mem[i:i+8], x[:])
	}
	// Second pass so all of the seed affects all of mem.
	for i := 0; i < size; i += 8 {
		for j := range x {
			x[j] += g.mem[i+j]
		}
		mix(&x)
		copy(g.mem[i:i+8], x[:])
	}

	g.generate()
	g.remaining = size
	g.seeded = true
}

// SeedBytes seeds the generator with b packed little-endian into 32-bit words.
func (g *Generator) SeedBytes(b []byte) {
	words := make([]uint32, (len(b)+3)/4)
	for i, v := range b {
		words[i/4] |= uint32(v) << (8 * (i % 4))
	}
	g.Seed(words...)
}

// Seeded reports whether the generator has been seeded.
func (g *Generator) Seeded() bool { return g.seeded }

// Uint32 returns the next word of the sequence.
func (g *Generator) Uint32() uint32 {
	if !g.seeded {
		g.Seed()
	}
	if g.remaining == 0 {
		g.generate()
		g.remaining = size
	}
	g.remaining--
	return g.rsl[g.remaining]
}

// Read fills p with successive words, four bytes each in little-endian order.
// It never fails.
func (g *Generator) Read(p []byte) (int, error) {
	var buf [4]byte
	for i := 0; i < len(p); i += 4 {
		binary.LittleEndian.PutUint32(buf[:], g.Uint32())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

func (g *Generator) reset() {
	g.a, g.b, g.c = 0, 0, 0
	g.mem = [size]uint32{}
	g.rsl = [size]uint32{}
	g.remaining = 0
}

// generate runs one full pass, refilling all 256 result words.
func (g *Generator) generate() {
	g.c++
	g.b += g.c
	for i := 0; i < size; i++ {
		switch i & 3 {
		case 0:
			g.a ^= g.a << 13
		case 1:
			g.a ^= g.a >> 6
		case 2:
			g.a ^= g.a << 2
		case 3:
			g.a ^= g.a >> 16
		}
		g.a += g.mem[(i+128)&0xff]
		x := g.mem[i]
		y := g.mem[(x>>2)&0xff] + g.a + g.b
		g.mem[i] = y
		g.b = g.mem[(y>>10)&0xff] + x
		g.rsl[i] = g.b
	}
}

func mix(x *[8]uint32) {
	x[0] ^= x[1] << 11
	x[3] += x[0]
	x[1] += x[2]
	x[1] ^= x[2] >> 2
	x[4] += x[1]
	x[2] += x[3]
	x[2] ^= x[3] << 8
	x[5] += x[2]
	x[3] += x[4]
	x[3] ^= x[4] >> 16
	x[6] += x[3]
	x[4] += x[5]
	x[4] ^= x[5] << 10
	x[7] += x[4]
	x[5] += x[6]
	x[5] ^= x[6] >> 4
	x[0] += x[5]
	x[6] += x[7]
	x[6] ^= x[7] << 8
	x[1] += x[6]
	x[7] += x[0]
	x[7] ^= x[0] >> 9
	x[2] += x[7]
	x[0] += x[1]
}
