package encoding

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

type marshalVarintCircuit struct {
	Value          frontend.Variable
	Expected       [VarintMaxBytes]frontend.Variable
	ExpectedLength frontend.Variable
}

func (c *marshalVarintCircuit) Define(api frontend.API) error {
	out, length := MarshalVarint(api, c.Value)
	for i := 0; i < VarintMaxBytes; i++ {
		api.AssertIsEqual(out[i].Val, c.Expected[i])
	}
	api.AssertIsEqual(length, c.ExpectedLength)
	return nil
}

func TestMarshalVarint(t *testing.T) {
	assert := test.NewAssert(t)

	cases := []struct {
		name  string
		value uint64
		bytes []byte
	}{
		{"zero", 0, []byte{0}},
		{"one", 1, []byte{1}},
		{"five bytes", 1234567890, []byte{210, 133, 216, 204, 4}},
		{"six bytes", 38957235239, []byte{167, 248, 160, 144, 145, 1}},
		{"seven bytes", 9999999999999, []byte{255, 191, 202, 243, 132, 163, 2}},
		{"eight bytes", 724325643436111, []byte{207, 128, 183, 165, 211, 216, 164, 1}},
		{"max int64", 1<<63 - 1, []byte{255, 255, 255, 255, 255, 255, 255, 255, 127}},
	}

	for _, tc := range cases {
		assert.Run(func(assert *test.Assert) {
			// The hardcoded bytes are the protobuf ground truth.
			native := make([]byte, binary.MaxVarintLen64)
			n := binary.PutUvarint(native, tc.value)
			assert.Equal(tc.bytes, native[:n])

			witness := &marshalVarintCircuit{
				Value:          tc.value,
				ExpectedLength: len(tc.bytes),
			}
			for i := 0; i < VarintMaxBytes; i++ {
				witness.Expected[i] = 0
			}
			for i, b := range tc.bytes {
				witness.Expected[i] = b
			}
			assert.NoError(test.IsSolved(&marshalVarintCircuit{}, witness, ecc.BN254.ScalarField()))
		}, tc.name)
	}
}

type marshalValidatorCircuit struct {
	Pubkey      [PubkeyBytes]uints.U8
	VotingPower frontend.Variable
	Expected    [ValidatorBytes]frontend.Variable
}

func (c *marshalValidatorCircuit) Define(api frontend.API) error {
	out := MarshalValidator(api, c.Pubkey, c.VotingPower)
	for i := 0; i < ValidatorBytes; i++ {
		api.AssertIsEqual(out[i].Val, c.Expected[i])
	}
	return nil
}

func TestMarshalValidator(t *testing.T) {
	assert := test.NewAssert(t)

	var pubkey [PubkeyBytes]byte
	expected := []byte{10, 34, 10, 32}
	expected = append(expected, pubkey[:]...)
	expected = append(expected, 16)
	expected = append(expected, 207, 128, 183, 165, 211, 216, 164, 1, 0)
	require.Len(t, expected, ValidatorBytes)

	witness := &marshalValidatorCircuit{VotingPower: uint64(724325643436111)}
	for i := range pubkey {
		witness.Pubkey[i] = uints.NewU8(pubkey[i])
	}
	for i, b := range expected {
		witness.Expected[i] = b
	}
	assert.NoError(test.IsSolved(&marshalValidatorCircuit{}, witness, ecc.BN254.ScalarField()))
}

type heightLeafCircuit struct {
	Height   frontend.Variable
	Expected [HeightLeafBytes]frontend.Variable
}

func (c *heightLeafCircuit) Define(api frontend.API) error {
	varint, _ := MarshalVarint(api, c.Height)
	leaf := EncodeMarshalledVarint(varint)
	for i := 0; i < HeightLeafBytes; i++ {
		api.AssertIsEqual(leaf[i].Val, c.Expected[i])
	}
	return nil
}

func TestEncodeMarshalledVarint(t *testing.T) {
	assert := test.NewAssert(t)

	for _, height := range []uint64{1, 3804, 123456789} {
		assert.Run(func(assert *test.Assert) {
			native := make([]byte, binary.MaxVarintLen64)
			n := binary.PutUvarint(native, height)

			witness := &heightLeafCircuit{Height: height}
			witness.Expected[0] = 0
			witness.Expected[1] = 8
			for i := 0; i < VarintMaxBytes; i++ {
				witness.Expected[2+i] = 0
			}
			for i := 0; i < n; i++ {
				witness.Expected[2+i] = native[i]
			}
			assert.NoError(test.IsSolved(&heightLeafCircuit{}, witness, ecc.BN254.ScalarField()))
		})
	}
}

func TestExtractHashFromProtobuf(t *testing.T) {
	buf := make([]byte, 34)
	buf[0] = 0x0a
	buf[1] = 0x20
	for i := 0; i < 32; i++ {
		buf[2+i] = byte(i + 1)
	}

	out := ExtractHashFromProtobuf(uints.NewU8Array(buf), 2)
	for i := 0; i < 32; i++ {
		require.Equal(t, buf[2+i], out[i].Val)
	}
}

type dataRootTupleCircuit struct {
	DataHash [32]uints.U8
	Height   frontend.Variable
	Expected [TupleBytes]frontend.Variable
}

func (c *dataRootTupleCircuit) Define(api frontend.API) error {
	tuple := EncodeDataRootTuple(api, c.DataHash, c.Height)
	for i := 0; i < TupleBytes; i++ {
		api.AssertIsEqual(tuple[i].Val, c.Expected[i])
	}
	return nil
}

func TestEncodeDataRootTuple(t *testing.T) {
	assert := test.NewAssert(t)

	witness := &dataRootTupleCircuit{Height: uint64(256)}
	for i := 0; i < 32; i++ {
		witness.DataHash[i] = uints.NewU8(0xff)
	}
	for i := 0; i < 24; i++ {
		witness.Expected[i] = 0
	}
	for i, b := range []byte{0, 0, 0, 0, 0, 0, 1, 0} {
		witness.Expected[24+i] = b
	}
	for i := 0; i < 32; i++ {
		witness.Expected[32+i] = 0xff
	}
	assert.NoError(test.IsSolved(&dataRootTupleCircuit{}, witness, ecc.BN254.ScalarField()))
}
