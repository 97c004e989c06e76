// Package tmmerkle provides in-circuit gadgets for the RFC 6962 flavored
// Merkle trees Tendermint uses to hash block headers and Celestia uses for
// its data commitments: SHA-256 with 0x00/0x01 leaf and inner domain
// prefixes.
package tmmerkle

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"

	"github.com/succinctlabs/blobstream-gnark/blobstream/encoding"
)

// ProofDepth is the depth of every inclusion proof against a Tendermint
// header root for the fields this circuit consumes. The header tree has 14
// leaves and the height, last block ID and data hash fields all live in its
// left, fully balanced subtree.
const ProofDepth = 4

// Leaf positions of the header fields in the Tendermint header tree.
const (
	HeightFieldIndex      = 2
	LastBlockIDFieldIndex = 4
	DataHashFieldIndex    = 6
)

const (
	leafPrefix  = 0x00
	innerPrefix = 0x01
)

// Hash is a 32-byte digest wire.
type Hash = [32]uints.U8

// LeafHash computes sha256(0x00 || leaf).
func LeafHash(api frontend.API, leaf []uints.U8) (Hash, error) {
	h, err := sha2.New(api)
	if err != nil {
		return Hash{}, err
	}
	h.Write([]uints.U8{uints.NewU8(leafPrefix)})
	h.Write(leaf)
	return toHash(h.Sum()), nil
}

// InnerHash computes sha256(0x01 || left || right).
func InnerHash(api frontend.API, left, right Hash) (Hash, error) {
	h, err := sha2.New(api)
	if err != nil {
		return Hash{}, err
	}
	h.Write([]uints.U8{uints.NewU8(innerPrefix)})
	h.Write(left[:])
	h.Write(right[:])
	return toHash(h.Sum()), nil
}

// RootFromProof recomputes the root implied by a leaf and its sibling path.
// leafIndex is a compile-time constant, so the left/right ordering at every
// level is fixed when the circuit is built; no in-circuit branching occurs.
func RootFromProof(api frontend.API, leaf []uints.U8, aunts []Hash, leafIndex int) (Hash, error) {
	cur, err := LeafHash(api, leaf)
	if err != nil {
		return Hash{}, err
	}
	return RootFromLeafHash(api, cur, aunts, leafIndex)
}

// RootFromLeafHash walks the sibling path starting from an already hashed
// leaf. Used directly by the height gadget, whose leaf digest is selected
// from a set of variable-length candidates.
func RootFromLeafHash(api frontend.API, leafHash Hash, aunts []Hash, leafIndex int) (Hash, error) {
	cur := leafHash
	var err error
	for i := 0; i < len(aunts); i++ {
		if (leafIndex>>i)&1 == 1 {
			cur, err = InnerHash(api, aunts[i], cur)
		} else {
			cur, err = InnerHash(api, cur, aunts[i])
		}
		if err != nil {
			return Hash{}, err
		}
	}
	return cur, nil
}

// RootFromLeaves computes the commitment root over a fixed-capacity set of
// leaves with per-leaf enabled flags. len(leaves) must be a power of two.
//
// All leaves are hashed unconditionally. Combining is level by level: a
// parent whose right child is disabled passes its left child through
// unchanged and inherits the left child's flag, so disabled leaves never
// influence the result. With the first R flags set this reproduces the
// Tendermint tree over R leaves; with no flags set the result is the
// (disabled) leftmost leaf hash, which callers treat as the empty-tree value.
func RootFromLeaves(api frontend.API, leaves [][]uints.U8, enabled []frontend.Variable) (Hash, error) {
	n := len(leaves)
	if n == 0 || n&(n-1) != 0 {
		panic("tmmerkle: leaf capacity must be a power of two")
	}
	if len(enabled) != n {
		panic("tmmerkle: enabled flags must match leaf capacity")
	}

	level := make([]Hash, n)
	flags := make([]frontend.Variable, n)
	for i := 0; i < n; i++ {
		h, err := LeafHash(api, leaves[i])
		if err != nil {
			return Hash{}, err
		}
		level[i] = h
		flags[i] = enabled[i]
	}

	for size := n; size > 1; size /= 2 {
		next := make([]Hash, size/2)
		nextFlags := make([]frontend.Variable, size/2)
		for j := 0; j < size/2; j++ {
			combined, err := InnerHash(api, level[2*j], level[2*j+1])
			if err != nil {
				return Hash{}, err
			}
			next[j] = SelectHash(api, flags[2*j+1], combined, level[2*j])
			nextFlags[j] = flags[2*j]
		}
		level = next
		flags = nextFlags
	}

	return level[0], nil
}

// VerifyBlockHeight asserts that height is committed at the height-field
// position of the header with root headerHash. The height is re-marshalled
// with the same varint encoding used for validator voting power, so
// heightByteLength is constrained to the minimal varint length rather than
// trusted. The leaf content is variable length; the digest for every
// possible length is computed and the one matching heightByteLength is
// selected, keeping the gadget branch-free.
func VerifyBlockHeight(api frontend.API, headerHash Hash, aunts []Hash, height, heightByteLength frontend.Variable) error {
	varint, minLen := encoding.MarshalVarint(api, height)
	api.AssertIsEqual(heightByteLength, minLen)

	leaf := encoding.EncodeMarshalledVarint(varint)

	var selected Hash
	for i := 0; i < 32; i++ {
		selected[i] = uints.NewU8(0)
	}
	for l := 1; l <= encoding.VarintMaxBytes; l++ {
		h, err := sha2.New(api)
		if err != nil {
			return err
		}
		h.Write(leaf[:2+l])
		digest := toHash(h.Sum())

		isLen := api.IsZero(api.Sub(heightByteLength, l))
		selected = SelectHash(api, isLen, digest, selected)
	}

	root, err := RootFromLeafHash(api, selected, aunts, HeightFieldIndex)
	if err != nil {
		return err
	}
	AssertHashesEqual(api, root, headerHash)
	return nil
}

// SelectHash returns a if cond is 1, b otherwise, byte-wise.
func SelectHash(api frontend.API, cond frontend.Variable, a, b Hash) Hash {
	var out Hash
	for i := 0; i < 32; i++ {
		out[i] = uints.U8{Val: api.Select(cond, a[i].Val, b[i].Val)}
	}
	return out
}

// AssertHashesEqual constrains two digests to be byte-wise equal.
func AssertHashesEqual(api frontend.API, a, b Hash) {
	for i := 0; i < 32; i++ {
		api.AssertIsEqual(a[i].Val, b[i].Val)
	}
}

func toHash(sum []uints.U8) Hash {
	var out Hash
	copy(out[:], sum)
	return out
}
