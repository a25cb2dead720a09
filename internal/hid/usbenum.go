package hid

import (
	"fmt"

	"github.com/karalabe/usb"
)

// EnumerateUSB lists HID-class USB devices via the libusb stack,
// independent of any backend. Zero IDs match everything. Used by the
// `list` command as a discovery aid when the hidraw scan comes up
// empty (e.g. missing permissions on /sys, containers).
func EnumerateUSB(vendorID, productID uint16) ([]Info, error) {
	devs, err := usb.EnumerateHid(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("usb enumerate: %w", err)
	}

	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, Info{
			Path:         d.Path,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Product:      d.Product,
			Manufacturer: d.Manufacturer,
		})
	}
	return out, nil
}
