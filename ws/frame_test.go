// Copyright 2026 The NextRush Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ws

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskedClientFrame(op opcode, fin bool, payload []byte) []byte {
	var buf bytes.Buffer
	first := byte(op)
	if fin {
		first |= 0x80
	}
	length := len(payload)
	switch {
	case length <= 125:
		buf.Write([]byte{first, byte(0x80) | byte(length)})
	case length <= 0xffff:
		buf.WriteByte(first)
		buf.WriteByte(0x80 | 126)
		buf.WriteByte(byte(length >> 8))
		buf.WriteByte(byte(length))
	}
	mask := []byte{1, 2, 3, 4}
	buf.Write(mask)
	masked := make([]byte, length)
	for i, b := range payload {
		masked[i] = b ^ mask[i%4]
	}
	buf.Write(masked)
	return buf.Bytes()
}

func TestWriteFrameThenReadFrameRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	require.NoError(t, writeFrame(&wire, opText, []byte("hello")))

	// writeFrame produces an unmasked server frame; simulate a client
	// frame with the same payload to exercise readFrame's masking path.
	raw := maskedClientFrame(opText, true, []byte("hello"))
	f, err := readFrame(bytes.NewReader(raw), 0)
	require.NoError(t, err)
	assert.Equal(t, opText, f.opcode)
	assert.Equal(t, "hello", string(f.payload))
	assert.True(t, f.fin)
}

func TestReadFrameRejectsUnmaskedClientFrame(t *testing.T) {
	var wire bytes.Buffer
	require.NoError(t, writeFrame(&wire, opText, []byte("hi")))
	_, err := readFrame(&wire, 0)
	assert.ErrorIs(t, err, errUnmaskedFrame)
}

func TestReadFrameRejectsOversizePayload(t *testing.T) {
	raw := maskedClientFrame(opBinary, true, bytes.Repeat([]byte("x"), 200))
	_, err := readFrame(bytes.NewReader(raw), 100)
	assert.ErrorIs(t, err, errFrameTooLarge)
}

func TestReadFrameRejectsInvalidUTF8Text(t *testing.T) {
	raw := maskedClientFrame(opText, true, []byte{0xff, 0xfe})
	_, err := readFrame(bytes.NewReader(raw), 0)
	assert.ErrorIs(t, err, errInvalidUTF8)
}

func TestAssemblerReassemblesFragments(t *testing.T) {
	asm := &assembler{}

	first := &frame{fin: false, opcode: opText, payload: []byte("hel")}
	complete, err := asm.feed(first, 0)
	require.NoError(t, err)
	assert.Nil(t, complete)

	last := &frame{fin: true, opcode: opContinuation, payload: []byte("lo")}
	complete, err = asm.feed(last, 0)
	require.NoError(t, err)
	require.NotNil(t, complete)
	assert.Equal(t, "hello", string(complete.payload))
}

func TestAssemblerRejectsContinuationWithoutStart(t *testing.T) {
	asm := &assembler{}
	_, err := asm.feed(&frame{fin: true, opcode: opContinuation, payload: []byte("x")}, 0)
	assert.ErrorIs(t, err, errReservedOpcode)
}
