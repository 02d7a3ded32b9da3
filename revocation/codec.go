package revocation

import (
	"bytes"

	"github.com/effective-security/upki/errs"
	"github.com/ugorji/go/codec"
)

// Wire layout: 4-byte magic, 1-byte format version, CBOR body.
// A version the decoder does not understand fails the whole load;
// there is no partial decode.
var manifestMagic = []byte("UPKI")

var cborHandle codec.CborHandle

type manifestEnvelope struct {
	Format     uint32          `codec:"format"`
	Derivation uint8           `codec:"derivation"`
	Generation uint64          `codec:"generation"`
	Coverage   []coverageEntry `codec:"coverage"`
	Set        setEnvelope     `codec:"set"`
}

type coverageEntry struct {
	LogID     []byte      `codec:"log_id"`
	Intervals [][2]uint64 `codec:"intervals"`
}

type setEnvelope struct {
	Kind  string   `codec:"kind"`
	Count int      `codec:"count"`
	Exact [][]byte `codec:"exact,omitempty"`

	Rate   float64         `codec:"rate,omitempty"`
	Layers []layerEnvelope `codec:"layers,omitempty"`
}

type layerEnvelope struct {
	NBits   uint64 `codec:"nbits"`
	NHashes uint32 `codec:"nhashes"`
	Bits    []byte `codec:"bits"`
}

// Marshal encodes the manifest into its wire form.
func Marshal(m *Manifest) ([]byte, error) {
	env := manifestEnvelope{
		Format:     m.format,
		Derivation: m.derivation,
		Generation: m.generation,
	}

	for _, logID := range m.coverage.Logs() {
		entry := coverageEntry{
			LogID: append([]byte{}, logID[:]...),
		}
		for _, iv := range m.coverage.Intervals(logID) {
			entry.Intervals = append(entry.Intervals, [2]uint64{iv.MinTimestamp, iv.MaxTimestamp})
		}
		env.Coverage = append(env.Coverage, entry)
	}

	switch s := m.revoked.(type) {
	case *ExactSet:
		env.Set.Kind = string(SetKindExact)
		env.Set.Count = s.Len()
		for _, id := range s.IDs() {
			env.Set.Exact = append(env.Set.Exact, append([]byte{}, id[:]...))
		}
	case *FilterCascade:
		env.Set.Kind = string(SetKindCascade)
		env.Set.Count = s.count
		env.Set.Rate = s.rate
		for _, layer := range s.layers {
			env.Set.Layers = append(env.Set.Layers, layerEnvelope{
				NBits:   layer.nbits,
				NHashes: layer.nhashes,
				Bits:    layer.bits,
			})
		}
	default:
		return nil, errs.Unexpected("unsupported revocation set kind: %s", m.revoked.Kind())
	}

	var body []byte
	err := codec.NewEncoderBytes(&body, &cborHandle).Encode(&env)
	if err != nil {
		return nil, errs.Unexpected("failed to encode manifest").WithCause(err)
	}

	out := make([]byte, 0, len(manifestMagic)+1+len(body))
	out = append(out, manifestMagic...)
	out = append(out, byte(m.format))
	out = append(out, body...)
	return out, nil
}

// Unmarshal decodes a manifest from its wire form.
// Any structural inconsistency fails the whole decode.
func Unmarshal(data []byte) (*Manifest, error) {
	if len(data) < len(manifestMagic)+1 {
		return nil, errs.ManifestLoad("manifest truncated: %d bytes", len(data))
	}
	if !bytes.Equal(data[:len(manifestMagic)], manifestMagic) {
		return nil, errs.ManifestLoad("not a manifest: bad magic")
	}
	version := uint32(data[len(manifestMagic)])
	if version != FormatV1 {
		return nil, errs.ManifestLoad("unsupported manifest format version: %d", version)
	}

	var env manifestEnvelope
	err := codec.NewDecoderBytes(data[len(manifestMagic)+1:], &cborHandle).Decode(&env)
	if err != nil {
		return nil, errs.ManifestLoad("failed to decode manifest body").WithCause(err)
	}
	if env.Format != version {
		return nil, errs.ManifestLoad("manifest format mismatch: header %d, body %d", version, env.Format)
	}

	coverage := NewCoverageIndex()
	for _, entry := range env.Coverage {
		if len(entry.LogID) != HashSize {
			return nil, errs.ManifestLoad("invalid log ID length: %d", len(entry.LogID))
		}
		var logID LogID
		copy(logID[:], entry.LogID)
		for _, iv := range entry.Intervals {
			err = coverage.Add(logID, Interval{MinTimestamp: iv[0], MaxTimestamp: iv[1]})
			if err != nil {
				return nil, errs.ManifestLoad("invalid coverage interval").WithCause(err)
			}
		}
	}

	var revoked Set
	switch SetKind(env.Set.Kind) {
	case SetKindExact:
		ids := make([]CertID, 0, len(env.Set.Exact))
		for _, raw := range env.Set.Exact {
			if len(raw) != HashSize {
				return nil, errs.ManifestLoad("invalid identifier length: %d", len(raw))
			}
			var id CertID
			copy(id[:], raw)
			ids = append(ids, id)
		}
		revoked = NewExactSet(ids...)
	case SetKindCascade:
		c := &FilterCascade{
			count: env.Set.Count,
			rate:  env.Set.Rate,
		}
		for _, le := range env.Set.Layers {
			if le.NBits == 0 || le.NHashes == 0 {
				return nil, errs.ManifestLoad("invalid cascade layer: %d bits, %d hashes", le.NBits, le.NHashes)
			}
			if uint64(len(le.Bits)) != (le.NBits+7)/8 {
				return nil, errs.ManifestLoad("cascade layer size mismatch: %d bits, %d bytes", le.NBits, len(le.Bits))
			}
			c.layers = append(c.layers, &bloomLayer{
				nbits:   le.NBits,
				nhashes: le.NHashes,
				bits:    le.Bits,
			})
		}
		revoked = c
	default:
		return nil, errs.ManifestLoad("unknown revocation set kind: %q", env.Set.Kind)
	}

	return NewManifest(env.Format, env.Derivation, env.Generation, coverage, revoked)
}
