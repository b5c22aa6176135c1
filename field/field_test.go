package field

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	want := FromUint64(424242)
	enc := want.Encode()

	got, err := Decode(enc[:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("round trip mismatch: got %s want %s", got, want)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		if _, err := Decode(make([]byte, n)); err != ErrMalformed {
			t.Fatalf("len %d: got err %v, want ErrMalformed", n, err)
		}
	}
}

func TestDecodeRejectsNonCanonical(t *testing.T) {
	modulus := fr.Modulus()
	buf := make([]byte, ByteLen)
	modulus.FillBytes(buf) // exactly r, out of range

	if _, err := Decode(buf); err != ErrMalformed {
		t.Fatalf("got err %v, want ErrMalformed for value == modulus", err)
	}

	tooBig := new(big.Int).Add(modulus, big.NewInt(1))
	tooBig.FillBytes(buf)
	if _, err := Decode(buf); err != ErrMalformed {
		t.Fatalf("got err %v, want ErrMalformed for value > modulus", err)
	}
}

func TestArithmetic(t *testing.T) {
	a := FromUint64(3)
	b := FromUint64(4)

	if got := a.Add(b); !got.Equal(FromUint64(7)) {
		t.Fatalf("3+4 = %s, want 7", got)
	}
	if got := a.Mul(b); !got.Equal(FromUint64(12)) {
		t.Fatalf("3*4 = %s, want 12", got)
	}
	if got := b.Sub(a); !got.Equal(FromUint64(1)) {
		t.Fatalf("4-3 = %s, want 1", got)
	}
}

func TestZeroEncodingIsAllZeroBytes(t *testing.T) {
	enc := Zero().Encode()
	if !bytes.Equal(enc[:], make([]byte, ByteLen)) {
		t.Fatalf("zero element should encode to all-zero bytes, got %x", enc)
	}
}
