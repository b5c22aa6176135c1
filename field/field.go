// Package field wraps the BLS12-381 scalar field (Fr) with the canonical
// 32-byte big-endian encoding used throughout the pool's wire formats.
//
// All interior code speaks this single Fr type for field elements; no other
// package imports gnark-crypto's fr package, and an Fr leaves this type as a
// *big.Int only through BigInt, per the "single Fr abstraction"
// re-architecture called for by the source material.
package field

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ErrMalformed is returned on decode when the input is not a canonical,
// in-range Fr encoding: wrong length, or value >= the field modulus.
var ErrMalformed = errors.New("field: malformed element encoding")

// ByteLen is the width of the canonical big-endian Fr encoding.
const ByteLen = fr.Bytes

// Fr is an element of the BLS12-381 scalar field.
type Fr struct {
	inner fr.Element
}

// Zero returns the additive identity.
func Zero() Fr { return Fr{} }

// One returns the multiplicative identity.
func One() Fr {
	var f Fr
	f.inner.SetOne()
	return f
}

// FromUint64 builds an Fr from a small unsigned integer.
func FromUint64(v uint64) Fr {
	var f Fr
	f.inner.SetUint64(v)
	return f
}

// FromBigInt reduces v modulo the field order.
func FromBigInt(v *big.Int) Fr {
	var f Fr
	f.inner.SetBigInt(v)
	return f
}

// FromBytesReduce reduces an arbitrary-length big-endian byte string modulo
// the field order, without requiring canonical range like Decode does. Used
// only to derive internal constants (e.g. Poseidon round constants) from a
// hash output, never to parse untrusted wire input.
func FromBytesReduce(b []byte) Fr {
	var f Fr
	f.inner.SetBytes(b)
	return f
}

// Decode parses the canonical 32-byte big-endian encoding of an Fr element.
// It rejects any value that is not strictly less than the field modulus
// (Invariant: "reduce on decode and reject non-canonical form").
func Decode(b []byte) (Fr, error) {
	if len(b) != ByteLen {
		return Fr{}, ErrMalformed
	}
	var asBig big.Int
	asBig.SetBytes(b)
	if asBig.Cmp(fr.Modulus()) >= 0 {
		return Fr{}, ErrMalformed
	}
	var f Fr
	f.inner.SetBigInt(&asBig)
	return f, nil
}

// Encode returns the canonical 32-byte big-endian encoding.
func (f Fr) Encode() [ByteLen]byte {
	return f.inner.Bytes()
}

// BigInt returns the element's value as a *big.Int in [0, r).
func (f Fr) BigInt() *big.Int {
	var out big.Int
	f.inner.BigInt(&out)
	return &out
}

// Add returns f + g.
func (f Fr) Add(g Fr) Fr {
	var out Fr
	out.inner.Add(&f.inner, &g.inner)
	return out
}

// Sub returns f - g.
func (f Fr) Sub(g Fr) Fr {
	var out Fr
	out.inner.Sub(&f.inner, &g.inner)
	return out
}

// Mul returns f * g.
func (f Fr) Mul(g Fr) Fr {
	var out Fr
	out.inner.Mul(&f.inner, &g.inner)
	return out
}

// Inverse returns f^-1. If f is zero it returns zero rather than failing
// (gnark-crypto's convention for fr.Element.Inverse).
func (f Fr) Inverse() Fr {
	var out Fr
	out.inner.Inverse(&f.inner)
	return out
}

// Exp returns f^e.
func (f Fr) Exp(e uint64) Fr {
	var out Fr
	var be big.Int
	be.SetUint64(e)
	out.inner.Exp(f.inner, &be)
	return out
}

// Equal reports whether f and g represent the same field element.
func (f Fr) Equal(g Fr) bool { return f.inner.Equal(&g.inner) }

// IsZero reports whether f is the additive identity.
func (f Fr) IsZero() bool { return f.inner.IsZero() }

// String renders the element in decimal, matching gnark-crypto's fr.Element.
func (f Fr) String() string { return f.inner.String() }

// Inner exposes the underlying gnark-crypto element.
func (f Fr) Inner() fr.Element { return f.inner }

// FromInner wraps an already-reduced gnark-crypto element.
func FromInner(e fr.Element) Fr { return Fr{inner: e} }
