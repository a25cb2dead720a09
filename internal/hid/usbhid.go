package hid

import (
	"context"
	"fmt"

	usbhid "rafaelmartins.com/p/usbhid"
)

// usbhidManager opens USB-attached devices through the usbhid library.
// Bluetooth-paired mice are not visible here; hidraw is the default
// backend for those.
type usbhidManager struct{}

func (m *usbhidManager) List() ([]Info, error) {
	devs, err := usbhid.Enumerate(nil)
	if err != nil {
		return nil, err
	}
	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, Info{
			Path:         d.Path(),
			VendorID:     d.VendorId(),
			ProductID:    d.ProductId(),
			Product:      d.Product(),
			Manufacturer: d.Manufacturer(),
		})
	}
	return out, nil
}

func (m *usbhidManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	d, err := usbhid.Get(func(dev *usbhid.Device) bool {
		return dev.VendorId() == vendorID && dev.ProductId() == productID
	}, true, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %04x:%04x (usbhid: %v)", ErrNotFound, vendorID, productID, err)
	}
	return &usbhidDevice{d: d}, nil
}

type usbhidDevice struct{ d *usbhid.Device }

func (d *usbhidDevice) Read(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rid, buf, err := d.d.GetInputReport()
	if err != nil {
		// The library does not distinguish unplug from other I/O
		// failures; treat any report-fetch error as a lost session.
		return 0, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	if len(p) == 0 {
		return 0, nil
	}
	// hidraw delivers the report ID as the first byte; this library
	// splits it off, so put it back for a uniform decoder input.
	p[0] = rid
	return copy(p[1:], buf) + 1, nil
}

func (d *usbhidDevice) Path() string { return d.d.Path() }

func (d *usbhidDevice) Close() error { return d.d.Close() }
