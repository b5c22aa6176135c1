package groth16

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ymcrcat/soroban-privacy-pools/curve"
	"github.com/ymcrcat/soroban-privacy-pools/field"
)

// trivialVK builds a verification key with icLen identity IC elements, so
// that vkX is always the identity regardless of the public signals fed in.
// Combined with C = identity, the Groth16 equation degenerates to
// e(alpha,beta) == e(alpha,beta), which holds for any gamma/delta/public
// signal values and lets us exercise arity/codec/pairing plumbing without a
// real trusted setup.
func trivialVK(icLen int) (VerificationKey, curve.G1) {
	alpha := curve.G1Generator().ScalarMul(big.NewInt(5))
	beta := curve.G2Generator()
	gamma := curve.G2Generator()
	delta := curve.G2Generator()

	ic := make([]curve.G1, icLen)
	for i := range ic {
		ic[i] = curve.G1{}
	}

	return VerificationKey{Alpha: alpha, Beta: beta, Gamma: gamma, Delta: delta, IC: ic}, alpha
}

func TestVerifyTrivialProofNoPublicSignals(t *testing.T) {
	vk, alpha := trivialVK(1)
	pi := Proof{A: alpha, B: vk.Beta, C: curve.G1{}}

	if err := Verify(vk, pi, nil); err != nil {
		t.Fatalf("Verify trivial proof: %v", err)
	}
}

func TestVerifyTrivialProofWithPublicSignals(t *testing.T) {
	vk, alpha := trivialVK(3)
	pi := Proof{A: alpha, B: vk.Beta, C: curve.G1{}}
	signals := []field.Fr{field.FromUint64(7), field.FromUint64(99)}

	if err := Verify(vk, pi, signals); err != nil {
		t.Fatalf("Verify trivial proof with public signals: %v", err)
	}
}

func TestVerifyRejectsArityMismatch(t *testing.T) {
	vk, alpha := trivialVK(3)
	pi := Proof{A: alpha, B: vk.Beta, C: curve.G1{}}

	if err := Verify(vk, pi, []field.Fr{field.FromUint64(1)}); err != ErrArityMismatch {
		t.Fatalf("Verify arity mismatch: got %v, want ErrArityMismatch", err)
	}
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	vk, _ := trivialVK(1)
	wrongA := curve.G1Generator().ScalarMul(big.NewInt(6))
	pi := Proof{A: wrongA, B: vk.Beta, C: curve.G1{}}

	if err := Verify(vk, pi, nil); err != ErrPairingFailed {
		t.Fatalf("Verify tampered proof: got %v, want ErrPairingFailed", err)
	}
}

func TestVerifyRejectsAcrossDifferentVKs(t *testing.T) {
	vk1, alpha := trivialVK(1)
	pi := Proof{A: alpha, B: vk1.Beta, C: curve.G1{}}

	vk2, _ := trivialVK(1)
	vk2.Alpha = curve.G1Generator().ScalarMul(big.NewInt(123))

	if err := Verify(vk2, pi, nil); err != ErrPairingFailed {
		t.Fatalf("proof valid under vk1 must fail under vk2 with a different alpha: got %v", err)
	}
}

func TestVerificationKeyEncodeDecodeRoundTrip(t *testing.T) {
	vk, _ := trivialVK(3)
	encoded := vk.Encode()
	decoded, err := DecodeVerificationKey(encoded)
	if err != nil {
		t.Fatalf("DecodeVerificationKey: %v", err)
	}
	if len(decoded.IC) != len(vk.IC) {
		t.Fatalf("decoded IC length = %d, want %d", len(decoded.IC), len(vk.IC))
	}
}

func TestDecodeVerificationKeyRejectsTruncated(t *testing.T) {
	vk, _ := trivialVK(2)
	encoded := vk.Encode()
	if _, err := DecodeVerificationKey(encoded[:len(encoded)-1]); err != ErrMalformedVK {
		t.Fatalf("truncated VK: got %v, want ErrMalformedVK", err)
	}
}

func TestProofEncodeDecodeRoundTrip(t *testing.T) {
	_, alpha := trivialVK(1)
	pi := Proof{A: alpha, B: curve.G2Generator(), C: curve.G1{}}
	encoded := pi.Encode()
	decoded, err := DecodeProof(encoded)
	if err != nil {
		t.Fatalf("DecodeProof: %v", err)
	}
	if !bytes.Equal(decoded.Encode(), encoded) {
		t.Fatalf("re-encoded proof does not match original")
	}
}

func TestDecodeProofRejectsWrongLength(t *testing.T) {
	if _, err := DecodeProof(make([]byte, 10)); err != ErrMalformedProof {
		t.Fatalf("short proof: got %v, want ErrMalformedProof", err)
	}
}

func TestPublicSignalsEncodeDecodeRoundTrip(t *testing.T) {
	signals := []field.Fr{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3)}
	encoded := EncodePublicSignals(signals)
	decoded, err := DecodePublicSignals(encoded)
	if err != nil {
		t.Fatalf("DecodePublicSignals: %v", err)
	}
	if len(decoded) != len(signals) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(signals))
	}
	for i := range signals {
		if !decoded[i].Equal(signals[i]) {
			t.Fatalf("signal %d diverges after round trip", i)
		}
	}
}

func TestDecodePublicSignalsRejectsLengthMismatch(t *testing.T) {
	encoded := EncodePublicSignals([]field.Fr{field.FromUint64(1)})
	if _, err := DecodePublicSignals(encoded[:len(encoded)-1]); err != ErrMalformedPublicSignals {
		t.Fatalf("truncated public signals: got %v, want ErrMalformedPublicSignals", err)
	}
}
