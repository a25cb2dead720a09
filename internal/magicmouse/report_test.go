package magicmouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// header builds a 14 byte report header.
func header(buttons byte, dx, dy int16, wheelV, wheelH int8) []byte {
	h := make([]byte, HeaderSize)
	h[0] = 0x02
	h[1] = buttons
	h[2] = byte(uint16(dx) & 0xFF)
	h[3] = byte(uint16(dx) >> 8)
	h[4] = byte(uint16(dy) & 0xFF)
	h[5] = byte(uint16(dy) >> 8)
	h[6] = byte(wheelV)
	h[7] = byte(wheelH)
	return h
}

// touchSeg builds one 8 byte touch segment with the given fields.
func touchSeg(id, x, y int, size, orientation uint8, state byte) []byte {
	s := make([]byte, TouchSize)
	s[0] = byte(x & 0xFF)
	s[1] = byte((x>>8)&0x0F) | byte((y>>8)&0x0F)<<4
	s[2] = byte(y & 0xFF)
	s[3] = 0x20 // major
	s[4] = 0x18 // minor
	s[5] = size&0x3F | byte(id&0x03)<<6
	s[6] = (orientation&0x3F)<<2 | byte(id>>2&0x03)
	s[7] = state << 4
	return s
}

func report(hdr []byte, segs ...[]byte) []byte {
	out := append([]byte(nil), hdr...)
	for _, s := range segs {
		out = append(out, s...)
	}
	return out
}

func TestDecodeHeader(t *testing.T) {
	raw := report(header(0x01, -5, 300, -2, 3))

	frame, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, byte(0x02), frame.Header.ReportID)
	assert.Equal(t, byte(0x01), frame.Header.Buttons)
	assert.Equal(t, int16(-5), frame.Header.DeltaX)
	assert.Equal(t, int16(300), frame.Header.DeltaY)
	assert.Equal(t, int8(-2), frame.Header.WheelV)
	assert.Equal(t, int8(3), frame.Header.WheelH)
	assert.Empty(t, frame.Touches)
}

func TestDecodeTouchBitExtraction(t *testing.T) {
	// Coordinates chosen so both 12-bit values span their byte
	// boundary, and an ID whose bits split across bytes 5 and 6.
	raw := report(header(0, 0, 0, 0, 0), touchSeg(5, 0x234, 0xABC, 17, 9, 3))

	frame, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, frame.Touches, 1)

	tp := frame.Touches[0]
	assert.Equal(t, 5, tp.ID)
	assert.Equal(t, 0x234, tp.X)
	assert.Equal(t, 0xABC, tp.Y)
	assert.Equal(t, uint8(17), tp.Size)
	assert.Equal(t, uint8(9), tp.Orientation)
	assert.Equal(t, uint8(0x20), tp.Major)
	assert.Equal(t, uint8(0x18), tp.Minor)
	assert.Equal(t, TouchStarting, tp.State)
}

func TestDecodeStates(t *testing.T) {
	cases := []struct {
		name  string
		code  byte
		state TouchState
	}{
		{"start", 3, TouchStarting},
		{"drag", 4, TouchActive},
		{"lifted", 0, TouchLifted},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			seg := touchSeg(1, 100, 100, 10, 0, tt.code)
			frame, err := Decode(report(header(0, 0, 0, 0, 0), seg))
			require.NoError(t, err)
			require.Len(t, frame.Touches, 1)
			assert.Equal(t, tt.state, frame.Touches[0].State)
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	raw := report(header(0x01, 12, -7, 0, 0),
		touchSeg(0, 500, 600, 20, 4, 3),
		touchSeg(1, 900, 610, 22, 5, 4))

	first, err1 := Decode(raw)
	second, err2 := Decode(raw)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestDecodeMalformedLength(t *testing.T) {
	for _, n := range []int{0, 13, 15, 21, HeaderSize + TouchSize + 1, MaxReportSize + TouchSize} {
		_, err := Decode(make([]byte, n))
		assert.ErrorIs(t, err, ErrMalformedLength, "length %d", n)
	}

	// Header-only reports are valid: the mouse sends them while no
	// finger touches the surface.
	_, err := Decode(make([]byte, HeaderSize))
	assert.NoError(t, err)
}

func TestDecodeUnknownStateDropsSegmentOnly(t *testing.T) {
	good := touchSeg(2, 700, 800, 15, 0, 4)
	bad := touchSeg(3, 100, 100, 15, 0, 0x7) // reserved state code

	frame, err := Decode(report(header(0, 0, 0, 0, 0), bad, good))

	assert.ErrorIs(t, err, ErrUnknownTouchState)
	require.Len(t, frame.Touches, 1)
	assert.Equal(t, 2, frame.Touches[0].ID)
	assert.Equal(t, 700, frame.Touches[0].X)
}

func TestDecodeSkipsPaddingSegments(t *testing.T) {
	frame, err := Decode(report(header(0, 0, 0, 0, 0),
		make([]byte, TouchSize), // inactive slot
		touchSeg(1, 320, 240, 12, 0, 4)))

	require.NoError(t, err)
	require.Len(t, frame.Touches, 1)
	assert.Equal(t, 1, frame.Touches[0].ID)
}
