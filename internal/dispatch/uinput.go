package dispatch

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// uinput ioctl requests and constants (uinput.h).
const (
	uinputPath  = "/dev/uinput"
	devCreate   = 0x5501
	devDestroy  = 0x5502
	setEvBit    = 0x40045564
	setKeyBit   = 0x40045565
	busVirtual  = 0x06
	maxNameSize = 80
	absSize     = 64
)

// Event types (input-event-codes.h).
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// userDev mirrors struct uinput_user_dev.
type userDev struct {
	Name       [maxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

// inputEvent mirrors struct input_event on 64-bit Linux.
type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// UinputInjector presses combos through a virtual uinput keyboard, so
// no external tool or display-server connection is needed. Requires
// write access to /dev/uinput.
type UinputInjector struct {
	f *os.File
}

func NewUinputInjector(deviceName string) (*UinputInjector, error) {
	f, err := os.OpenFile(uinputPath, syscall.O_WRONLY|syscall.O_NONBLOCK, 0o660)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uinputPath, err)
	}

	if err := ioctl(f, setEvBit, evKey); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("register key events: %w", err)
	}

	// Register every key code the combo table can produce.
	registered := map[uint16]bool{}
	for _, code := range keyCodes {
		if registered[code] {
			continue
		}
		registered[code] = true
		if err := ioctl(f, setKeyBit, uintptr(code)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("register key %d: %w", code, err)
		}
	}

	dev := userDev{
		ID: inputID{Bustype: busVirtual, Vendor: 0x004C, Product: 0x0269, Version: 1},
	}
	copy(dev.Name[:], deviceName)

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, dev); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("encode device descriptor: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write device descriptor: %w", err)
	}
	if err := ioctl(f, devCreate, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create uinput device: %w", err)
	}

	return &UinputInjector{f: f}, nil
}

// Press taps the combo: modifiers down in order, key down/up, modifiers
// up in reverse order, one sync report per step.
func (u *UinputInjector) Press(_ context.Context, combo Combo) error {
	codes, err := combo.codes()
	if err != nil {
		return err
	}

	key := codes[len(codes)-1]
	mods := codes[:len(codes)-1]

	for _, m := range mods {
		if err := u.writeKey(m, 1); err != nil {
			return err
		}
	}
	if err := u.writeKey(key, 1); err != nil {
		return err
	}
	if err := u.writeKey(key, 0); err != nil {
		return err
	}
	for i := len(mods) - 1; i >= 0; i-- {
		if err := u.writeKey(mods[i], 0); err != nil {
			return err
		}
	}
	return nil
}

func (u *UinputInjector) writeKey(code uint16, value int32) error {
	events := []inputEvent{
		{Type: evKey, Code: code, Value: value},
		{Type: evSyn, Code: synReport, Value: 0},
	}
	for _, ev := range events {
		buf := new(bytes.Buffer)
		if err := binary.Write(buf, binary.LittleEndian, ev); err != nil {
			return fmt.Errorf("encode input event: %w", err)
		}
		if _, err := u.f.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write input event: %w", err)
		}
	}
	return nil
}

func (u *UinputInjector) Close() error {
	_ = ioctl(u.f, devDestroy, 0)
	return u.f.Close()
}

func ioctl(f *os.File, req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
