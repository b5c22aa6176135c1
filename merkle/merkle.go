// Package merkle implements the Lean Incremental Merkle Tree (LIMT): a
// fixed-depth, zero-padded, append-only Merkle tree over BLS12-381 field
// elements, hashed with the poseidon package.
//
// The sparse, per-level cache design below is adapted from
// MuriData-muri-zkproof's SparseMerkleTree (pkg/merkle/merkle.go): a slice
// of level->index maps plus a precomputed zero-hash chain, so that only the
// O(depth) nodes on an inserted leaf's authentication path are ever computed
// or touched, while an arbitrary earlier leaf's proof can still be recovered
// from the cache without rebuilding anything.
package merkle

import (
	"errors"

	"github.com/ymcrcat/soroban-privacy-pools/field"
	"github.com/ymcrcat/soroban-privacy-pools/poseidon"
)

// ErrFull is returned by Insert once the tree holds 2^depth leaves.
var ErrFull = errors.New("merkle: tree is full")

// ErrOutOfRange is returned by Proof for an index >= the current leaf count.
var ErrOutOfRange = errors.New("merkle: leaf index out of range")

// ErrInvalidDepth is returned by New for a negative depth.
var ErrInvalidDepth = errors.New("merkle: depth must be >= 0")

// LIMT is a fixed-depth, append-only Merkle tree keyed by field elements.
// The zero value is not usable; construct with New.
type LIMT struct {
	depth      int
	capacity   int
	numLeaves  int
	leaves     []field.Fr
	zeroHashes []field.Fr           // zeroHashes[k] = Z_k, len depth+1
	levels     []map[int]field.Fr   // levels[0]=leaf level ... levels[depth]=root level
}

// New builds an empty LIMT of the given fixed depth. The root is the
// precomputed all-zero root Z_depth (Invariant I3, n=0 case).
func New(depth int) (*LIMT, error) {
	if depth < 0 {
		return nil, ErrInvalidDepth
	}

	zh := make([]field.Fr, depth+1)
	zh[0] = field.Zero()
	for k := 1; k <= depth; k++ {
		zh[k] = poseidon.Hash2(zh[k-1], zh[k-1])
	}

	levels := make([]map[int]field.Fr, depth+1)
	for i := range levels {
		levels[i] = make(map[int]field.Fr)
	}

	capacity := 1 << depth

	return &LIMT{
		depth:      depth,
		capacity:   capacity,
		leaves:     nil,
		zeroHashes: zh,
		levels:     levels,
	}, nil
}

// Depth returns the tree's fixed depth.
func (t *LIMT) Depth() int { return t.depth }

// Capacity returns 2^depth, the maximum number of leaves.
func (t *LIMT) Capacity() int { return t.capacity }

// Len returns the current number of inserted leaves.
func (t *LIMT) Len() int { return t.numLeaves }

// Root returns the current root, recomputed from the leaf sequence under
// Invariants I1/I2/I3 (zero-padded beyond n, real zero-hashing not
// shortcut, equal to the height-depth value of the current leaves).
func (t *LIMT) Root() field.Fr {
	if v, ok := t.levels[t.depth][0]; ok {
		return v
	}
	return t.zeroHashes[t.depth]
}

// Leaves returns a copy of the inserted leaf sequence, in insertion order.
func (t *LIMT) Leaves() []field.Fr {
	out := make([]field.Fr, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// Insert appends a leaf and recomputes the O(depth) nodes on its
// authentication path. Returns the leaf's index. Fails with ErrFull once
// the tree holds 2^depth leaves.
func (t *LIMT) Insert(leaf field.Fr) (int, error) {
	if t.numLeaves >= t.capacity {
		return 0, ErrFull
	}

	idx := t.numLeaves
	t.levels[0][idx] = leaf
	t.leaves = append(t.leaves, leaf)
	t.numLeaves++

	cur := idx
	for lvl := 0; lvl < t.depth; lvl++ {
		parentIdx := cur / 2
		leftIdx := parentIdx * 2
		rightIdx := parentIdx*2 + 1

		left, ok := t.levels[lvl][leftIdx]
		if !ok {
			left = t.zeroHashes[lvl]
		}
		right, ok := t.levels[lvl][rightIdx]
		if !ok {
			right = t.zeroHashes[lvl]
		}

		t.levels[lvl+1][parentIdx] = poseidon.Hash2(left, right)
		cur = parentIdx
	}

	return idx, nil
}

// Proof returns the fixed-size authentication path for leaf i: exactly
// depth sibling values, plus i itself as the path-bit vector (bit k of i
// selects whether the node at level k is the left or right child, matching
// the convention used by Insert). Fails with ErrOutOfRange if i >= Len().
func (t *LIMT) Proof(i int) (siblings []field.Fr, pathBits int, err error) {
	if i < 0 || i >= t.numLeaves {
		return nil, 0, ErrOutOfRange
	}

	siblings = make([]field.Fr, t.depth)
	idx := i
	for lvl := 0; lvl < t.depth; lvl++ {
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}

		sib, ok := t.levels[lvl][siblingIdx]
		if !ok {
			sib = t.zeroHashes[lvl]
		}
		siblings[lvl] = sib

		idx /= 2
	}

	return siblings, i, nil
}

// VerifyPath recomputes the root from a leaf value and its authentication
// path and reports whether it matches root. pathBits carries the same
// leaf-index encoding Proof returns: bit k selects left/right at level k.
func VerifyPath(leaf field.Fr, siblings []field.Fr, pathBits int, root field.Fr) bool {
	cur := leaf
	idx := pathBits
	for lvl := 0; lvl < len(siblings); lvl++ {
		sib := siblings[lvl]
		if idx%2 == 0 {
			cur = poseidon.Hash2(cur, sib)
		} else {
			cur = poseidon.Hash2(sib, cur)
		}
		idx /= 2
	}
	return cur.Equal(root)
}

// State is the pure in-memory representation handed to a host's
// persistence layer (the "to_state()/from_state()" interface). Only the
// depth and the ordered leaf sequence are carried: the zero-hash chain and
// the node cache are always deterministically recomputed from them.
type State struct {
	Depth  int
	Leaves []field.Fr
}

// Snapshot returns the tree's persistable state.
func (t *LIMT) Snapshot() State {
	return State{Depth: t.depth, Leaves: t.Leaves()}
}

// Restore rebuilds a LIMT from a snapshot by replaying every leaf insert in
// order, so the resulting root and proofs are bit-identical to the
// original tree's (Tree correctness property).
func Restore(s State) (*LIMT, error) {
	t, err := New(s.Depth)
	if err != nil {
		return nil, err
	}
	for _, leaf := range s.Leaves {
		if _, err := t.Insert(leaf); err != nil {
			return nil, err
		}
	}
	return t, nil
}
