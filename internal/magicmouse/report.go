// Package magicmouse knows the raw HID multitouch report layout of the
// Apple Magic Mouse 2 and decodes reports into structured frames.
package magicmouse

import (
	"errors"
	"fmt"
)

// USB/Bluetooth identifiers for the Magic Mouse 2.
const (
	VendorID  uint16 = 0x004C
	ProductID uint16 = 0x0269
)

// Report geometry: a 14 byte mouse header followed by one 8 byte segment
// per detected finger.
const (
	HeaderSize = 14
	TouchSize  = 8

	// MaxTouches is the largest finger count observed in a single
	// report; reads are sized accordingly.
	MaxTouches = 6

	MaxReportSize = HeaderSize + MaxTouches*TouchSize
)

// Touch state nibble values (byte 7, high nibble of each segment).
// Matches the hid-magicmouse kernel driver's TOUCH_STATE_* codes.
const (
	stateNone  = 0x0 // finger lifted
	stateStart = 0x3 // first contact
	stateDrag  = 0x4 // finger down and tracking
)

var (
	// ErrMalformedLength reports a buffer whose size cannot hold a
	// header plus a whole number of touch segments. The frame is
	// unusable and must be discarded.
	ErrMalformedLength = errors.New("magicmouse: malformed report length")

	// ErrUnknownTouchState reports a touch segment using a reserved
	// state code. Only that segment is dropped; the rest of the frame
	// still decodes.
	ErrUnknownTouchState = errors.New("magicmouse: unknown touch state")
)

// TouchState is the decoded lifecycle state of one finger.
type TouchState uint8

const (
	TouchLifted TouchState = iota
	TouchStarting
	TouchActive
)

func (s TouchState) String() string {
	switch s {
	case TouchLifted:
		return "lifted"
	case TouchStarting:
		return "starting"
	case TouchActive:
		return "active"
	}
	return fmt.Sprintf("TouchState(%d)", uint8(s))
}

// Header is the fixed mouse-motion segment at the start of every report.
type Header struct {
	ReportID byte
	Buttons  byte  // button bitmask, bit 0 = primary
	DeltaX   int16 // relative motion, little endian
	DeltaY   int16
	WheelV   int8 // scroll deltas
	WheelH   int8
}

// TouchPoint is one decoded 8 byte finger segment.
//
// Layout per segment (from the original driver's captures):
//
//	byte 0    X position LSB
//	byte 1    Y MSB (high nibble) | X MSB (low nibble)
//	byte 2    Y position LSB
//	byte 3    touch major axis
//	byte 4    touch minor axis
//	byte 5    ID low 2 bits (bits 6-7) | size (bits 0-5)
//	byte 6    orientation (bits 2-7) | ID high 2 bits (bits 0-1)
//	byte 7    state (high nibble) | reserved
type TouchPoint struct {
	ID          int // stable while the finger stays on the surface
	X           int // 12-bit sensor position
	Y           int
	Major       uint8
	Minor       uint8
	Size        uint8
	Orientation uint8
	State       TouchState
}

// Frame is one fully decoded report.
type Frame struct {
	Header  Header
	Touches []TouchPoint
}

// Decode parses a raw Magic Mouse 2 report.
//
// A length that cannot hold the header plus whole touch segments fails
// with ErrMalformedLength and an empty frame. A segment with a reserved
// state code is dropped and reported via an error wrapping
// ErrUnknownTouchState, but the returned frame is still valid and
// contains every other segment (partial-result policy). All-zero
// segments are inactive slot padding and are skipped silently.
func Decode(raw []byte) (Frame, error) {
	n := len(raw)
	if n < HeaderSize || (n-HeaderSize)%TouchSize != 0 || n > MaxReportSize {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrMalformedLength, n)
	}

	frame := Frame{Header: decodeHeader(raw)}

	var segErrs []error
	for off := HeaderSize; off+TouchSize <= n; off += TouchSize {
		seg := raw[off : off+TouchSize]
		if isZero(seg) {
			continue
		}

		tp, err := decodeTouch(seg)
		if err != nil {
			segErrs = append(segErrs, fmt.Errorf("segment at offset %d: %w", off, err))
			continue
		}
		frame.Touches = append(frame.Touches, tp)
	}

	return frame, errors.Join(segErrs...)
}

func decodeHeader(raw []byte) Header {
	return Header{
		ReportID: raw[0],
		Buttons:  raw[1],
		DeltaX:   int16(uint16(raw[2]) | uint16(raw[3])<<8),
		DeltaY:   int16(uint16(raw[4]) | uint16(raw[5])<<8),
		WheelV:   int8(raw[6]),
		WheelH:   int8(raw[7]),
	}
}

// decodeTouch extracts one finger segment. The 12-bit coordinates span
// byte boundaries and are assembled with explicit masks and shifts.
func decodeTouch(seg []byte) (TouchPoint, error) {
	state, err := decodeState(seg[7] >> 4 & 0x0F)
	if err != nil {
		return TouchPoint{}, err
	}

	return TouchPoint{
		X:           int(seg[0]) | int(seg[1]&0x0F)<<8,
		Y:           int(seg[2]) | int(seg[1]&0xF0)<<4,
		Major:       seg[3],
		Minor:       seg[4],
		Size:        seg[5] & 0x3F,
		ID:          int(seg[5]>>6&0x03) | int(seg[6]&0x03)<<2,
		Orientation: seg[6] >> 2 & 0x3F,
		State:       state,
	}, nil
}

func decodeState(code byte) (TouchState, error) {
	switch code {
	case stateNone:
		return TouchLifted, nil
	case stateStart:
		return TouchStarting, nil
	case stateDrag:
		return TouchActive, nil
	}
	return 0, fmt.Errorf("%w: code 0x%X", ErrUnknownTouchState, code)
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
