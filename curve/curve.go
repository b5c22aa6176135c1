// Package curve wraps BLS12-381 G1/G2 affine points with the fixed-width
// uncompressed external encoding specified for this pool's wire format:
// G1 as 96 bytes (48-byte x || 48-byte y), G2 as 192 bytes (two 48-byte x
// limbs || two 48-byte y limbs, u²=-1 convention), both in gnark-crypto's
// own canonical Fq/Fq² coordinate order.
package curve

import (
	"errors"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ErrMalformedPoint covers every decode failure: wrong length, off-curve,
// wrong subgroup, or a reserved infinity-flag mismatch.
var ErrMalformedPoint = errors.New("curve: malformed point encoding")

const (
	// G1Bytes is the uncompressed external encoding width for a G1 point.
	G1Bytes = 96
	// G2Bytes is the uncompressed external encoding width for a G2 point.
	G2Bytes = 192
)

// G1 is an affine point on the pairing's first source group.
type G1 struct {
	inner bls12381.G1Affine
}

// G2 is an affine point on the pairing's second source group.
type G2 struct {
	inner bls12381.G2Affine
}

// G1Generator returns the fixed G1 base point.
func G1Generator() G1 {
	_, _, g1, _ := bls12381.Generators()
	return G1{inner: g1}
}

// G2Generator returns the fixed G2 base point.
func G2Generator() G2 {
	_, _, _, g2 := bls12381.Generators()
	return G2{inner: g2}
}

// DecodeG1 parses the 96-byte uncompressed external encoding, validating
// that the point lies on the curve and in the correct prime-order subgroup.
func DecodeG1(b []byte) (G1, error) {
	if len(b) != G1Bytes {
		return G1{}, ErrMalformedPoint
	}
	var p bls12381.G1Affine
	if err := p.Unmarshal(b); err != nil {
		return G1{}, ErrMalformedPoint
	}
	if !p.IsInSubGroup() {
		return G1{}, ErrMalformedPoint
	}
	return G1{inner: p}, nil
}

// Encode returns the 96-byte uncompressed external encoding.
func (p G1) Encode() [G1Bytes]byte {
	var out [G1Bytes]byte
	b := p.inner.RawBytes()
	copy(out[:], b[:])
	return out
}

// IsInfinity reports whether p is the identity element.
func (p G1) IsInfinity() bool { return p.inner.IsInfinity() }

// Add returns p + q.
func (p G1) Add(q G1) G1 {
	var out bls12381.G1Affine
	out.Add(&p.inner, &q.inner)
	return G1{inner: out}
}

// Neg returns -p.
func (p G1) Neg() G1 {
	var out bls12381.G1Affine
	out.Neg(&p.inner)
	return G1{inner: out}
}

// ScalarMul returns [s]p.
func (p G1) ScalarMul(s *big.Int) G1 {
	var out bls12381.G1Affine
	out.ScalarMultiplication(&p.inner, s)
	return G1{inner: out}
}

// Inner exposes the underlying gnark-crypto representation for the groth16
// package's pairing call.
func (p G1) Inner() bls12381.G1Affine { return p.inner }

// FromInnerG1 wraps an already-validated gnark-crypto point.
func FromInnerG1(p bls12381.G1Affine) G1 { return G1{inner: p} }

// DecodeG2 parses the 192-byte uncompressed external encoding, validating
// curve membership and subgroup membership.
func DecodeG2(b []byte) (G2, error) {
	if len(b) != G2Bytes {
		return G2{}, ErrMalformedPoint
	}
	var p bls12381.G2Affine
	if err := p.Unmarshal(b); err != nil {
		return G2{}, ErrMalformedPoint
	}
	if !p.IsInSubGroup() {
		return G2{}, ErrMalformedPoint
	}
	return G2{inner: p}, nil
}

// Encode returns the 192-byte uncompressed external encoding.
func (p G2) Encode() [G2Bytes]byte {
	var out [G2Bytes]byte
	b := p.inner.RawBytes()
	copy(out[:], b[:])
	return out
}

// IsInfinity reports whether p is the identity element.
func (p G2) IsInfinity() bool { return p.inner.IsInfinity() }

// Inner exposes the underlying gnark-crypto representation.
func (p G2) Inner() bls12381.G2Affine { return p.inner }

// FromInnerG2 wraps an already-validated gnark-crypto point.
func FromInnerG2(p bls12381.G2Affine) G2 { return G2{inner: p} }
