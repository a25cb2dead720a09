// Package hid abstracts the raw HID device handle the gesture pipeline
// reads multitouch reports from.
package hid

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no connected device matched the requested
	// vendor/product IDs.
	ErrNotFound = errors.New("hid: device not found")

	// ErrPermission means the device node exists but cannot be opened;
	// unrecoverable without udev/privilege changes.
	ErrPermission = errors.New("hid: permission denied")

	// ErrDisconnected means the handle became invalid mid-session
	// (ENODEV-equivalent), as opposed to a transient empty read.
	ErrDisconnected = errors.New("hid: device disconnected")
)

// Device is an opened handle delivering raw input reports. Read blocks
// until a report arrives, the context is cancelled, or the device goes
// away; it never returns a partial success with n == 0.
type Device interface {
	Read(ctx context.Context, p []byte) (int, error)
	Path() string
	Close() error
}

// Info describes a candidate device.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	OpenVIDPID(vendorID, productID uint16) (Device, error)
}

// Backends selectable in config.
const (
	BackendHidraw = "hidraw" // native Linux hidraw nodes (Bluetooth or USB)
	BackendUSBHID = "usbhid" // libusb-backed HID access for USB-attached mice
)

// NewManager returns the manager for the chosen backend.
func NewManager(backend string) (Manager, error) {
	switch backend {
	case BackendHidraw:
		return &hidrawManager{}, nil
	case BackendUSBHID:
		return &usbhidManager{}, nil
	}
	return nil, errors.New("hid: unknown backend " + backend)
}
