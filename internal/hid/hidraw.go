package hid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// hidrawManager discovers devices through /sys/class/hidraw and reads
// from the matching /dev/hidraw* node.
type hidrawManager struct{}

const (
	sysHidrawDir = "/sys/class/hidraw"
	devDir       = "/dev"
)

func (m *hidrawManager) List() ([]Info, error) {
	entries, err := os.ReadDir(sysHidrawDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", sysHidrawDir, err)
	}

	var infos []Info
	for _, e := range entries {
		info, err := readUevent(e.Name())
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m *hidrawManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.VendorID != vendorID || info.ProductID != productID {
			continue
		}
		return openHidraw(info.Path)
	}
	return nil, fmt.Errorf("%w: %04x:%04x", ErrNotFound, vendorID, productID)
}

// readUevent parses /sys/class/hidraw/<name>/device/uevent, which
// carries lines like HID_NAME=... and HID_ID=0005:0000004C:00000269.
func readUevent(name string) (Info, error) {
	raw, err := os.ReadFile(filepath.Join(sysHidrawDir, name, "device", "uevent"))
	if err != nil {
		return Info{}, err
	}

	info := Info{Path: filepath.Join(devDir, name)}
	for _, line := range strings.Split(string(raw), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "HID_NAME":
			info.Product = value
		case "HID_ID":
			// bus:vendor:product, all hex
			fields := strings.Split(value, ":")
			if len(fields) != 3 {
				return Info{}, fmt.Errorf("malformed HID_ID %q", value)
			}
			vid, err := strconv.ParseUint(fields[1], 16, 32)
			if err != nil {
				return Info{}, err
			}
			pid, err := strconv.ParseUint(fields[2], 16, 32)
			if err != nil {
				return Info{}, err
			}
			info.VendorID = uint16(vid)
			info.ProductID = uint16(pid)
		}
	}
	return info, nil
}

type hidrawDevice struct {
	fd   int
	path string
}

func openHidraw(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		switch {
		case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
			return nil, fmt.Errorf("%w: %s (check udev rules or run privileged)", ErrPermission, path)
		case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENODEV):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &hidrawDevice{fd: fd, path: path}, nil
}

// pollInterval bounds how long a Read can outlive a cancelled context.
const pollInterval = 200 * time.Millisecond

// Read blocks via poll(2) so cancellation is honored between reports
// rather than mid-read. Device removal surfaces as ErrDisconnected;
// empty reads and EAGAIN are transient and retried.
func (d *hidrawDevice) Read(ctx context.Context, p []byte) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(pollInterval.Milliseconds()))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("%w: poll: %v", ErrDisconnected, err)
		}
		if n == 0 {
			continue // timeout, re-check context
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			return 0, fmt.Errorf("%w: %s", ErrDisconnected, d.path)
		}

		nr, err := unix.Read(d.fd, p)
		switch {
		case err == nil && nr > 0:
			return nr, nil
		case err == nil:
			continue // transient empty read
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ENODEV), errors.Is(err, unix.EIO):
			return 0, fmt.Errorf("%w: %s", ErrDisconnected, d.path)
		default:
			return 0, fmt.Errorf("read %s: %w", d.path, err)
		}
	}
}

func (d *hidrawDevice) Path() string { return d.path }

func (d *hidrawDevice) Close() error { return unix.Close(d.fd) }
