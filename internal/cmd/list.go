package cmd

import (
	"fmt"
	"log/slog"

	"github.com/brenoperucchi/magic-mouse-gestures/internal/hid"
	"github.com/brenoperucchi/magic-mouse-gestures/internal/magicmouse"
)

// List prints candidate devices so users can verify the mouse is
// visible before running the daemon.
type List struct {
	Backend string `help:"HID backend to enumerate" enum:"hidraw,usbhid" default:"hidraw"`
	USB     bool   `help:"Additionally enumerate USB HID devices via libusb"`
}

func (l *List) Run(logger *slog.Logger) error {
	mgr, err := hid.NewManager(l.Backend)
	if err != nil {
		return err
	}

	infos, err := mgr.List()
	if err != nil {
		return err
	}

	fmt.Printf("%s devices:\n", l.Backend)
	printInfos(infos)

	if l.USB {
		usbInfos, err := hid.EnumerateUSB(0, 0)
		if err != nil {
			logger.Warn("USB enumeration failed", slog.Any("error", err))
		} else {
			fmt.Println("\nUSB HID devices:")
			printInfos(usbInfos)
		}
	}
	return nil
}

func printInfos(infos []hid.Info) {
	if len(infos) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, info := range infos {
		marker := " "
		if info.VendorID == magicmouse.VendorID && info.ProductID == magicmouse.ProductID {
			marker = "*"
		}
		fmt.Printf("%s %04x:%04x  %-32s %s\n", marker, info.VendorID, info.ProductID, info.Product, info.Path)
	}
}
