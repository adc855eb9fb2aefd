//go:build linux

package linuxinput

import (
	"fmt"
	"os"
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// VirtualDeviceName names the uinput pointer created by the runtime.
const VirtualDeviceName = "interval-autoclicker"

type DeviceInfo struct {
	Path       string
	Name       string
	IsVirtual  bool
	IsPointer  bool
	IsKeyboard bool
}

// SourceSelection is the set of keyboards the runtime listens on for
// hotkeys.
type SourceSelection struct {
	Devices []*evdev.InputDevice
}

func (s *SourceSelection) Close() {
	if s == nil {
		return
	}
	closeInputDevices(s.Devices)
	s.Devices = nil
}

func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}
		devices = append(devices, describeDevice(dev, path.Name))
		_ = dev.Close()
	}

	return devices, nil
}

// OpenHotkeySources opens every physical device that exposes at least one
// of the given key codes. An explicit devicePath bypasses discovery.
func OpenHotkeySources(devicePath string, codes []uint16) (*SourceSelection, error) {
	if devicePath != "" {
		dev, err := openInputDevice(devicePath)
		if err != nil {
			return nil, err
		}
		if !deviceSupportsAnyCode(dev, codes) {
			_ = dev.Close()
			return nil, fmt.Errorf("%s does not expose any hotkey (%s)", devicePath, formatCodes(codes))
		}
		return &SourceSelection{Devices: []*evdev.InputDevice{dev}}, nil
	}

	matches, err := findDevicesByCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no input device exposes hotkeys %s; use --list-devices and then pass --device", formatCodes(codes))
	}

	devices := make([]*evdev.InputDevice, 0, len(matches))
	for _, match := range matches {
		dev, err := openInputDevice(match.Path)
		if err != nil {
			continue
		}
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("found hotkey-capable input devices, but failed to open any of them")
	}

	return &SourceSelection{Devices: devices}, nil
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	return evdev.OpenWithFlags(path, os.O_RDONLY)
}

func describeDevice(dev *evdev.InputDevice, fallbackName string) DeviceInfo {
	name := fallbackName
	if actualName, err := dev.Name(); err == nil && actualName != "" {
		name = actualName
	}
	return DeviceInfo{
		Path:       dev.Path(),
		Name:       name,
		IsVirtual:  deviceIsVirtual(dev, name),
		IsPointer:  deviceIsPointer(dev),
		IsKeyboard: deviceIsKeyboard(dev),
	}
}

func deviceSupportsAnyCode(device *evdev.InputDevice, codes []uint16) bool {
	capable := device.CapableEvents(evdev.EV_KEY)
	for _, code := range codes {
		needle := evdev.EvCode(code)
		for _, c := range capable {
			if c == needle {
				return true
			}
		}
	}
	return false
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool", VirtualDeviceName} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func deviceIsPointer(device *evdev.InputDevice) bool {
	var hasRelX, hasRelY bool
	for _, code := range device.CapableEvents(evdev.EV_REL) {
		if code == evdev.REL_X {
			hasRelX = true
		}
		if code == evdev.REL_Y {
			hasRelY = true
		}
	}
	if hasRelX && hasRelY {
		return true
	}
	return len(device.CapableEvents(evdev.EV_ABS)) > 0
}

func deviceIsKeyboard(device *evdev.InputDevice) bool {
	for _, code := range device.CapableEvents(evdev.EV_KEY) {
		if code == evdev.KEY_A || code == evdev.KEY_SPACE || code == evdev.KEY_F1 {
			return true
		}
	}
	return false
}

func findDevicesByCodes(codes []uint16) ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	matches := make([]DeviceInfo, 0)
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}
		if deviceSupportsAnyCode(dev, codes) {
			matches = append(matches, describeDevice(dev, path.Name))
		}
		_ = dev.Close()
	}

	// Never listen on our own uinput pointer or other injectors.
	pool := make([]DeviceInfo, 0, len(matches))
	for _, match := range matches {
		if !match.IsVirtual {
			pool = append(pool, match)
		}
	}

	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Path < pool[j].Path
	})
	return pool, nil
}

func formatCodes(codes []uint16) string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, FormatCodeName(code))
	}
	return strings.Join(names, "/")
}
