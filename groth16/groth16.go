// Package groth16 implements the verification key / proof model and the
// Groth16 pairing check over BLS12-381, plus the binary wire codecs for
// all three. The single multi-pairing check below is adapted from the
// source material's debug_verify.go, which hand-verifies a Groth16 proof
// against gnark-crypto's raw bls12381.Pair rather than going through the
// full gnark verifier: this package does the same, because proof
// generation (and the rest of the gnark circuit frontend) is out of scope
// for this core.
package groth16

import (
	"encoding/binary"
	"errors"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/ymcrcat/soroban-privacy-pools/curve"
	"github.com/ymcrcat/soroban-privacy-pools/field"
)

var (
	// ErrMalformedVK covers any verification-key decode failure: truncated
	// input, a bad IC-length prefix, or a point that fails curve/subgroup
	// validation.
	ErrMalformedVK = errors.New("groth16: malformed verification key")
	// ErrMalformedProof covers any proof decode failure.
	ErrMalformedProof = errors.New("groth16: malformed proof")
	// ErrMalformedPublicSignals covers any public-signal decode failure.
	ErrMalformedPublicSignals = errors.New("groth16: malformed public signals")
	// ErrArityMismatch is returned when len(publicSignals)+1 != len(vk.IC).
	ErrArityMismatch = errors.New("groth16: public signal arity mismatch")
	// ErrSubgroupCheckFailed is reserved for a subgroup-validating decoder
	// that bypasses DecodeG1/DecodeG2; Verify itself never returns it, since
	// every point it touches already passed that check at decode time.
	ErrSubgroupCheckFailed = errors.New("groth16: subgroup check failed")
	// ErrPairingFailed is returned when the pairing equation does not hold.
	ErrPairingFailed = errors.New("groth16: pairing check failed")
)

// VerificationKey is the Groth16 verification key for a fixed circuit:
// {alpha, beta, gamma, delta, IC}.
type VerificationKey struct {
	Alpha curve.G1
	Beta  curve.G2
	Gamma curve.G2
	Delta curve.G2
	IC    []curve.G1 // IC[0] is the constant term, IC[1:] pair with public signals.
}

// Proof is a Groth16 proof: {A, B, C}.
type Proof struct {
	A curve.G1
	B curve.G2
	C curve.G1
}

// DecodeVerificationKey parses the wire format:
// alpha(G1) || beta(G2) || gamma(G2) || delta(G2) || (len(IC) as 4-byte BE) || IC...(G1 each).
func DecodeVerificationKey(b []byte) (VerificationKey, error) {
	const head = curve.G1Bytes + 3*curve.G2Bytes + 4
	if len(b) < head {
		return VerificationKey{}, ErrMalformedVK
	}

	off := 0
	alpha, err := curve.DecodeG1(b[off : off+curve.G1Bytes])
	if err != nil {
		return VerificationKey{}, ErrMalformedVK
	}
	off += curve.G1Bytes

	beta, err := curve.DecodeG2(b[off : off+curve.G2Bytes])
	if err != nil {
		return VerificationKey{}, ErrMalformedVK
	}
	off += curve.G2Bytes

	gamma, err := curve.DecodeG2(b[off : off+curve.G2Bytes])
	if err != nil {
		return VerificationKey{}, ErrMalformedVK
	}
	off += curve.G2Bytes

	delta, err := curve.DecodeG2(b[off : off+curve.G2Bytes])
	if err != nil {
		return VerificationKey{}, ErrMalformedVK
	}
	off += curve.G2Bytes

	icLen := binary.BigEndian.Uint32(b[off : off+4])
	off += 4

	if uint64(len(b)-off) != uint64(icLen)*curve.G1Bytes {
		return VerificationKey{}, ErrMalformedVK
	}

	ic := make([]curve.G1, icLen)
	for i := 0; i < int(icLen); i++ {
		p, err := curve.DecodeG1(b[off : off+curve.G1Bytes])
		if err != nil {
			return VerificationKey{}, ErrMalformedVK
		}
		ic[i] = p
		off += curve.G1Bytes
	}

	return VerificationKey{Alpha: alpha, Beta: beta, Gamma: gamma, Delta: delta, IC: ic}, nil
}

// Encode serializes vk in the same wire format DecodeVerificationKey parses.
func (vk VerificationKey) Encode() []byte {
	out := make([]byte, 0, curve.G1Bytes+3*curve.G2Bytes+4+len(vk.IC)*curve.G1Bytes)
	a := vk.Alpha.Encode()
	out = append(out, a[:]...)
	be := vk.Beta.Encode()
	out = append(out, be[:]...)
	g := vk.Gamma.Encode()
	out = append(out, g[:]...)
	d := vk.Delta.Encode()
	out = append(out, d[:]...)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(vk.IC)))
	out = append(out, lenBuf[:]...)

	for _, ic := range vk.IC {
		e := ic.Encode()
		out = append(out, e[:]...)
	}
	return out
}

// DecodeProof parses the wire format: A(G1) || B(G2) || C(G1).
func DecodeProof(b []byte) (Proof, error) {
	const want = 2*curve.G1Bytes + curve.G2Bytes
	if len(b) != want {
		return Proof{}, ErrMalformedProof
	}

	off := 0
	a, err := curve.DecodeG1(b[off : off+curve.G1Bytes])
	if err != nil {
		return Proof{}, ErrMalformedProof
	}
	off += curve.G1Bytes

	bb, err := curve.DecodeG2(b[off : off+curve.G2Bytes])
	if err != nil {
		return Proof{}, ErrMalformedProof
	}
	off += curve.G2Bytes

	c, err := curve.DecodeG1(b[off : off+curve.G1Bytes])
	if err != nil {
		return Proof{}, ErrMalformedProof
	}

	return Proof{A: a, B: bb, C: c}, nil
}

// Encode serializes pi in the same wire format DecodeProof parses.
func (pi Proof) Encode() []byte {
	out := make([]byte, 0, 2*curve.G1Bytes+curve.G2Bytes)
	a := pi.A.Encode()
	out = append(out, a[:]...)
	b := pi.B.Encode()
	out = append(out, b[:]...)
	c := pi.C.Encode()
	out = append(out, c[:]...)
	return out
}

// DecodePublicSignals parses the wire format:
// (len as 4-byte BE) || a_1..a_len (Fr each, 32 bytes big-endian).
func DecodePublicSignals(b []byte) ([]field.Fr, error) {
	if len(b) < 4 {
		return nil, ErrMalformedPublicSignals
	}
	n := binary.BigEndian.Uint32(b[:4])
	rest := b[4:]
	if uint64(len(rest)) != uint64(n)*field.ByteLen {
		return nil, ErrMalformedPublicSignals
	}

	out := make([]field.Fr, n)
	off := 0
	for i := 0; i < int(n); i++ {
		f, err := field.Decode(rest[off : off+field.ByteLen])
		if err != nil {
			return nil, ErrMalformedPublicSignals
		}
		out[i] = f
		off += field.ByteLen
	}
	return out, nil
}

// EncodePublicSignals serializes signals in the same wire format
// DecodePublicSignals parses.
func EncodePublicSignals(signals []field.Fr) []byte {
	out := make([]byte, 0, 4+len(signals)*field.ByteLen)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(signals)))
	out = append(out, lenBuf[:]...)
	for _, s := range signals {
		e := s.Encode()
		out = append(out, e[:]...)
	}
	return out
}

// Verify checks a Groth16 proof against vk and publicSignals.
//
// Steps, in order: arity check, vkX multi-scalar-multiplication (A, B, C,
// and every IC/alpha/beta/gamma/delta point already carry a subgroup
// check from decode time), then the single multi-pairing check
// e(A,B)·e(-alpha,beta)·e(-vkX,gamma)·e(-C,delta) == 1.
func Verify(vk VerificationKey, pi Proof, publicSignals []field.Fr) error {
	if len(publicSignals)+1 != len(vk.IC) {
		return ErrArityMismatch
	}

	vkX := vk.IC[0]
	for i, a := range publicSignals {
		vkX = vkX.Add(vk.IC[i+1].ScalarMul(a.BigInt()))
	}

	// Subgroup membership for A, B, C is already enforced by DecodeG1/
	// DecodeG2 at the wire boundary; Verify trusts its Proof argument was
	// produced that way rather than re-deriving the check here.

	negAlpha := vk.Alpha.Neg()
	negVkX := vkX.Neg()
	negC := pi.C.Neg()

	lhs, err := bls12381.Pair(
		[]bls12381.G1Affine{pi.A.Inner(), negAlpha.Inner(), negVkX.Inner(), negC.Inner()},
		[]bls12381.G2Affine{pi.B.Inner(), vk.Beta.Inner(), vk.Gamma.Inner(), vk.Delta.Inner()},
	)
	if err != nil {
		return ErrPairingFailed
	}

	var one bls12381.GT
	one.SetOne()
	if !lhs.Equal(&one) {
		return ErrPairingFailed
	}
	return nil
}
