// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ymcrcat/soroban-privacy-pools/field"
	"github.com/ymcrcat/soroban-privacy-pools/pool"
)

// errStateCorrupt is returned by decodeState on any truncated or
// inconsistent length-prefixed field; this host-side codec is not part of
// the core library's external wire format (§6 leaves persistence layout
// to the host).
var errStateCorrupt = errors.New("poolctl: corrupt state file")

// encodeState flattens a pool.State into the length-prefixed binary layout
// this CLI persists between invocations: each process run is a fresh
// binary, so deposit/withdraw state has to survive on disk across calls.
func encodeState(s pool.State) []byte {
	var out []byte

	putU32 := func(v uint32) {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		out = append(out, b[:]...)
	}
	putBytes := func(b []byte) {
		putU32(uint32(len(b)))
		out = append(out, b...)
	}

	putU32(uint32(s.Depth))
	putBytes(s.VKBytes)
	putBytes(s.Denom.Bytes())
	putBytes(s.Balance.Bytes())

	putU32(uint32(len(s.Leaves)))
	for _, l := range s.Leaves {
		e := l.Encode()
		out = append(out, e[:]...)
	}

	putU32(uint32(len(s.Spent)))
	for _, n := range s.Spent {
		e := n.Encode()
		out = append(out, e[:]...)
	}

	return out
}

func decodeState(b []byte) (pool.State, error) {
	var s pool.State
	off := 0

	readU32 := func() (uint32, bool) {
		if len(b)-off < 4 {
			return 0, false
		}
		v := binary.BigEndian.Uint32(b[off : off+4])
		off += 4
		return v, true
	}
	readBytes := func() ([]byte, bool) {
		n, ok := readU32()
		if !ok || len(b)-off < int(n) {
			return nil, false
		}
		v := b[off : off+int(n)]
		off += int(n)
		return v, true
	}

	depth, ok := readU32()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.Depth = int(depth)

	vk, ok := readBytes()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.VKBytes = append([]byte(nil), vk...)

	denomBytes, ok := readBytes()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.Denom = new(big.Int).SetBytes(denomBytes)

	balanceBytes, ok := readBytes()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.Balance = new(big.Int).SetBytes(balanceBytes)

	numLeaves, ok := readU32()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.Leaves = make([]field.Fr, numLeaves)
	for i := range s.Leaves {
		if len(b)-off < field.ByteLen {
			return pool.State{}, errStateCorrupt
		}
		f, err := field.Decode(b[off : off+field.ByteLen])
		if err != nil {
			return pool.State{}, errStateCorrupt
		}
		s.Leaves[i] = f
		off += field.ByteLen
	}

	numSpent, ok := readU32()
	if !ok {
		return pool.State{}, errStateCorrupt
	}
	s.Spent = make([]field.Fr, numSpent)
	for i := range s.Spent {
		if len(b)-off < field.ByteLen {
			return pool.State{}, errStateCorrupt
		}
		f, err := field.Decode(b[off : off+field.ByteLen])
		if err != nil {
			return pool.State{}, errStateCorrupt
		}
		s.Spent[i] = f
		off += field.ByteLen
	}

	return s, nil
}
