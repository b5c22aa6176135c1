// Package commitment derives the pool's commitment, label, and nullifier
// values from the Poseidon primitives in package poseidon. It carries no
// state of its own: every function here is a pure derivation, grounded in
// the same "hash everything through the single sponge" style the source
// material uses for its own note-commitment scheme.
package commitment

import (
	"github.com/ymcrcat/soroban-privacy-pools/field"
	"github.com/ymcrcat/soroban-privacy-pools/poseidon"
)

// Label binds a commitment to the pool instance (scope) and a
// depositor-chosen nonce, so that commitments from distinct pools or
// distinct deposits never collide even for identical (value, nullifier,
// secret) triples.
func Label(scope, nonce field.Fr) field.Fr {
	return poseidon.Hash2(scope, nonce)
}

// Commit derives a leaf commitment from a deposit's value, label, and the
// depositor's secret nullifier/secret pair. The nullifier and secret are
// first bound together under their own Hash2, then combined with
// Hash2(value, label) under an outer Hash2, so that revealing the
// nullifier image alone (public signal 0 at withdrawal, see NullifierImage)
// leaks nothing about secret, value or label.
func Commit(value, nullifier, secret, label field.Fr) field.Fr {
	valueLabel := poseidon.Hash2(value, label)
	nullifierSecret := poseidon.Hash2(nullifier, secret)
	return poseidon.Hash2(valueLabel, nullifierSecret)
}

// NullifierImage derives the public nullifier hash revealed at withdrawal
// time. It depends only on the secret nullifier scalar, never on secret,
// value, or label, so it cannot be linked back to the originating deposit
// without knowledge of nullifier itself.
func NullifierImage(nullifier field.Fr) field.Fr {
	return poseidon.Hash1(nullifier)
}
