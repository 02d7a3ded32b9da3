package revocation

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// DefaultFalsePositiveRate is the per-layer false-positive bound used for
// the first cascade layer when none is configured.
const DefaultFalsePositiveRate = 0.001

// innerLayerRate is used for layers past the first; the populations
// shrink geometrically, so a loose bound keeps the deeper layers small.
const innerLayerRate = 0.5

// maxCascadeDepth bounds construction against pathological inputs.
const maxCascadeDepth = 64

// bloomLayer is a single Bloom filter over 32-byte identifiers.
// Indexes are derived by double hashing from a per-level digest of the
// identifier, so layers are independent.
type bloomLayer struct {
	nbits   uint64
	nhashes uint32
	bits    []byte
}

func newBloomLayer(n int, rate float64) *bloomLayer {
	if n < 1 {
		n = 1
	}
	ln2 := math.Ln2
	m := uint64(math.Ceil(-float64(n) * math.Log(rate) / (ln2 * ln2)))
	if m < 8 {
		m = 8
	}
	k := uint32(math.Round(float64(m) / float64(n) * ln2))
	if k < 1 {
		k = 1
	}
	return &bloomLayer{
		nbits:   m,
		nhashes: k,
		bits:    make([]byte, (m+7)/8),
	}
}

func layerDigest(level uint8, id CertID) (h1, h2 uint64) {
	var buf [1 + HashSize]byte
	buf[0] = level
	copy(buf[1:], id[:])
	d := sha256.Sum256(buf[:])
	h1 = binary.BigEndian.Uint64(d[0:8])
	h2 = binary.BigEndian.Uint64(d[8:16]) | 1
	return
}

func (b *bloomLayer) add(level uint8, id CertID) {
	h1, h2 := layerDigest(level, id)
	for i := uint64(0); i < uint64(b.nhashes); i++ {
		pos := (h1 + i*h2) % b.nbits
		b.bits[pos/8] |= 1 << (pos % 8)
	}
}

func (b *bloomLayer) test(level uint8, id CertID) bool {
	h1, h2 := layerDigest(level, id)
	for i := uint64(0); i < uint64(b.nhashes); i++ {
		pos := (h1 + i*h2) % b.nbits
		if b.bits[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
	}
	return true
}

// FilterCascade is a layered Bloom filter over revoked identifiers.
// Identifiers from either build population are classified exactly;
// identifiers outside both populations see at most the first layer's
// false-positive rate. It never returns false for an identifier that was
// in the revoked population at build time.
type FilterCascade struct {
	layers []*bloomLayer
	count  int
	rate   float64
}

// BuildFilterCascade constructs a cascade from the revoked population and
// the known-not-revoked population the manifest builder vetted. rate
// bounds the first layer's false-positive probability; pass 0 for
// DefaultFalsePositiveRate.
func BuildFilterCascade(revoked, notRevoked []CertID, rate float64) (*FilterCascade, error) {
	if rate == 0 {
		rate = DefaultFalsePositiveRate
	}
	if rate <= 0 || rate >= 1 {
		return nil, errors.Newf("false-positive rate out of range: %f", rate)
	}

	c := &FilterCascade{
		count: len(revoked),
		rate:  rate,
	}

	include, exclude := revoked, notRevoked
	layerRate := rate
	for level := 0; len(include) > 0; level++ {
		if level >= maxCascadeDepth {
			return nil, errors.Newf("filter cascade exceeded %d layers", maxCascadeDepth)
		}
		layer := newBloomLayer(len(include), layerRate)
		for _, id := range include {
			layer.add(uint8(level), id)
		}

		// survivors of this layer from the excluded population seed the next
		var fps []CertID
		for _, id := range exclude {
			if layer.test(uint8(level), id) {
				fps = append(fps, id)
			}
		}

		c.layers = append(c.layers, layer)
		include, exclude = fps, include
		layerRate = innerLayerRate
	}

	return c, nil
}

// Contains walks the layers; the parity of the first non-matching layer
// decides membership.
func (c *FilterCascade) Contains(id CertID) bool {
	i := 0
	for i < len(c.layers) && c.layers[i].test(uint8(i), id) {
		i++
	}
	return i%2 == 1
}

// Len returns the number of revoked identifiers the cascade was built from.
func (c *FilterCascade) Len() int {
	return c.count
}

// Kind returns SetKindCascade.
func (c *FilterCascade) Kind() SetKind {
	return SetKindCascade
}

// FalsePositiveRate returns the configured bound for the first layer.
func (c *FilterCascade) FalsePositiveRate() float64 {
	return c.rate
}

// Depth returns the number of layers.
func (c *FilterCascade) Depth() int {
	return len(c.layers)
}
