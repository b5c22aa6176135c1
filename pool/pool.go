// Package pool implements the deposit/withdraw state machine: a single
// aggregate holding an immutable verification key, a LIMT of commitments,
// a balance, and a spent-nullifier set, all mutated under one exclusive
// lock per call. Structured logging of state transitions uses zerolog, the
// same logging library the source material's circuit test harness sets up
// (kysee-zk-chains), here wired into the production path instead of tests.
package pool

import (
	"encoding/hex"
	"errors"
	"math/big"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ymcrcat/soroban-privacy-pools/field"
	"github.com/ymcrcat/soroban-privacy-pools/groth16"
	"github.com/ymcrcat/soroban-privacy-pools/merkle"
)

var (
	// ErrMalformedInput covers any decode failure reaching the pool boundary:
	// an off-curve point, a wrong-length byte string, or a non-canonical Fr.
	ErrMalformedInput = errors.New("pool: malformed input")
	// ErrTreeFull is returned by Deposit once the LIMT holds 2^depth leaves.
	ErrTreeFull = merkle.ErrFull
	// ErrInsufficientBalance is returned by Withdraw when balance < denomination.
	ErrInsufficientBalance = errors.New("pool: insufficient balance")
	// ErrStateRootMismatch is returned when the proof's stateRoot signal does
	// not match the tree's current root.
	ErrStateRootMismatch = errors.New("pool: state root mismatch")
	// ErrNullifierUsed is returned on a repeat withdrawal of the same nullifier.
	ErrNullifierUsed = errors.New("pool: nullifier already spent")
	// ErrProofInvalid is returned when the Groth16 check fails.
	ErrProofInvalid = errors.New("pool: proof invalid")
	// ErrDenominationMismatch is returned when the circuit-declared
	// withdrawn value does not equal the pool's fixed denomination.
	ErrDenominationMismatch = errors.New("pool: denomination mismatch")
	// ErrUnauthorized is not returned by anything in this package: Deposit
	// and Withdraw accept any caller identity, including an empty one. It is
	// reserved for hosts that wire in a real caller-auth gate.
	ErrUnauthorized = errors.New("pool: unauthorized caller")
)

const (
	publicSignalIdxNullifierImage = 0
	publicSignalIdxWithdrawnValue = 1
	publicSignalIdxStateRoot      = 2
	minPublicSignals              = 3
)

// Config fixes a pool instance's parameters at construction. There is no
// library-backed config loader here: like the rest of this module's
// ambient stack, a flat struct is the idiom the source material itself
// uses for fixed run parameters.
type Config struct {
	Depth        int
	Denomination *big.Int
}

// Pool is the deposit/withdraw state machine described by this package's
// doc comment. The zero value is not usable; construct with New.
type Pool struct {
	mu sync.Mutex

	vk    groth16.VerificationKey
	depth int
	denom *big.Int

	tree    *merkle.LIMT
	balance *big.Int
	spent   map[string]struct{} // key: hex of the 32-byte nullifier-image encoding

	log zerolog.Logger
}

// New constructs a pool from a wire-encoded verification key and a
// Config. Construction is the only initialization step; there is no
// separate idempotent-free init call; a second call to New with the same
// or different arguments simply produces an independent pool instance;
// hosts wanting "repeat calls reject" semantics enforce that at their own
// call boundary (§6).
func New(vkBytes []byte, cfg Config) (*Pool, error) {
	vk, err := groth16.DecodeVerificationKey(vkBytes)
	if err != nil {
		return nil, ErrMalformedInput
	}
	if cfg.Denomination == nil || cfg.Denomination.Sign() <= 0 {
		return nil, ErrMalformedInput
	}

	tree, err := merkle.New(cfg.Depth)
	if err != nil {
		return nil, ErrMalformedInput
	}

	return &Pool{
		vk:      vk,
		depth:   cfg.Depth,
		denom:   new(big.Int).Set(cfg.Denomination),
		tree:    tree,
		balance: new(big.Int),
		spent:   make(map[string]struct{}),
		log:     zerolog.New(os.Stdout).With().Timestamp().Str("component", "pool").Logger(),
	}, nil
}

// Deposit inserts a commitment leaf and credits the pool's balance by one
// denomination. from identifies the caller for logging/auth purposes; this
// core does not itself enforce an auth policy (§6 leaves that to the
// host's caller-auth gate).
func (p *Pool) Deposit(from []byte, commitment32 []byte) (leafIndex int, err error) {
	commitment, err := field.Decode(commitment32)
	if err != nil {
		return 0, ErrMalformedInput
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx, err := p.tree.Insert(commitment)
	if err != nil {
		p.log.Warn().Hex("from", from).Msg("deposit rejected: tree full")
		return 0, ErrTreeFull
	}

	p.balance.Add(p.balance, p.denom)

	p.log.Info().
		Hex("from", from).
		Int("leaf_index", idx).
		Str("new_root", encodeFrHex(p.tree.Root())).
		Msg("deposit accepted")

	return idx, nil
}

// Withdraw authorizes a withdrawal by a Groth16 proof over the pool's
// current state. Checks run in the strict order fixed by the state
// machine design; a failure at any step returns immediately without
// mutating balance, spent, or the tree (Failure atomicity).
func (p *Pool) Withdraw(to []byte, proofBytes, publicSignalsBytes []byte) error {
	proof, err := groth16.DecodeProof(proofBytes)
	if err != nil {
		return ErrMalformedInput
	}
	signals, err := groth16.DecodePublicSignals(publicSignalsBytes)
	if err != nil {
		return ErrMalformedInput
	}
	if len(signals) < minPublicSignals {
		return ErrMalformedInput
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.balance.Cmp(p.denom) < 0 {
		p.log.Warn().Hex("to", to).Msg("withdraw rejected: insufficient balance")
		return ErrInsufficientBalance
	}

	nfImage := signals[publicSignalIdxNullifierImage]
	withdrawnValue := signals[publicSignalIdxWithdrawnValue]
	stateRoot := signals[publicSignalIdxStateRoot]

	if !stateRoot.Equal(p.tree.Root()) {
		p.log.Warn().Hex("to", to).Msg("withdraw rejected: state root mismatch")
		return ErrStateRootMismatch
	}

	nfKey := encodeFrHex(nfImage)
	if _, used := p.spent[nfKey]; used {
		p.log.Warn().Hex("to", to).Str("nullifier", nfKey).Msg("withdraw rejected: nullifier already spent")
		return ErrNullifierUsed
	}

	if err := groth16.Verify(p.vk, proof, signals); err != nil {
		p.log.Warn().Hex("to", to).Msg("withdraw rejected: proof invalid")
		return ErrProofInvalid
	}

	if withdrawnValue.BigInt().Cmp(p.denom) != 0 {
		p.log.Warn().Hex("to", to).Msg("withdraw rejected: denomination mismatch")
		return ErrDenominationMismatch
	}

	p.spent[nfKey] = struct{}{}
	p.balance.Sub(p.balance, p.denom)

	p.log.Info().
		Hex("to", to).
		Str("nullifier", nfKey).
		Msg("withdraw ok")

	return nil
}

// Root returns the tree's current root.
func (p *Pool) Root() field.Fr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Root()
}

// Depth returns the pool's fixed tree depth.
func (p *Pool) Depth() int { return p.depth }

// CommitmentCount returns the number of deposited commitments so far.
func (p *Pool) CommitmentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Len()
}

// Leaves returns a copy of the deposited commitment sequence, in insertion order.
func (p *Pool) Leaves() []field.Fr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree.Leaves()
}

// Nullifiers returns the set of spent nullifier-image values, in no
// particular order.
func (p *Pool) Nullifiers() []field.Fr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nullifiersLocked()
}

// nullifiersLocked requires p.mu to already be held.
func (p *Pool) nullifiersLocked() []field.Fr {
	out := make([]field.Fr, 0, len(p.spent))
	for k := range p.spent {
		raw, err := hex.DecodeString(k)
		if err != nil {
			continue // spent keys are only ever written by encodeFrHex below.
		}
		f, err := field.Decode(raw)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Balance returns the pool's current balance.
func (p *Pool) Balance() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.balance)
}

// State is the pure representation handed to a host's persistence layer,
// matching the key/value contract of §6: vk, depth, leaves, balance, spent.
type State struct {
	VKBytes []byte
	Depth   int
	Denom   *big.Int
	Leaves  []field.Fr
	Balance *big.Int
	Spent   []field.Fr
}

// Snapshot returns the pool's persistable state.
func (p *Pool) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{
		VKBytes: p.vk.Encode(),
		Depth:   p.depth,
		Denom:   new(big.Int).Set(p.denom),
		Leaves:  p.tree.Leaves(),
		Balance: new(big.Int).Set(p.balance),
		Spent:   p.nullifiersLocked(),
	}
}

// Restore rebuilds a Pool from a snapshot by replaying every deposit's
// tree insertion and reinstating balance and spent directly (balance and
// spent are not re-derived from the leaf sequence, since withdrawals leave
// no trace in the tree itself).
func Restore(s State) (*Pool, error) {
	vk, err := groth16.DecodeVerificationKey(s.VKBytes)
	if err != nil {
		return nil, ErrMalformedInput
	}

	tree, err := merkle.Restore(merkle.State{Depth: s.Depth, Leaves: s.Leaves})
	if err != nil {
		return nil, ErrMalformedInput
	}

	spent := make(map[string]struct{}, len(s.Spent))
	for _, f := range s.Spent {
		spent[encodeFrHex(f)] = struct{}{}
	}

	return &Pool{
		vk:      vk,
		depth:   s.Depth,
		denom:   new(big.Int).Set(s.Denom),
		tree:    tree,
		balance: new(big.Int).Set(s.Balance),
		spent:   spent,
		log:     zerolog.New(os.Stdout).With().Timestamp().Str("component", "pool").Logger(),
	}, nil
}

func encodeFrHex(f field.Fr) string {
	enc := f.Encode()
	return hex.EncodeToString(enc[:])
}
