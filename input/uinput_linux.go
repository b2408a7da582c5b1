//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// ioctl constants from linux/uinput.h
const (
	uiSetEvbit   = 0x40045564 // UI_SET_EVBIT
	uiSetKeybit  = 0x40045565 // UI_SET_KEYBIT
	uiSetRelbit  = 0x40045566 // UI_SET_RELBIT
	uiSetAbsbit  = 0x40045567 // UI_SET_ABSBIT
	uiDevCreate  = 0x5501     // UI_DEV_CREATE
	uiDevDestroy = 0x5502     // UI_DEV_DESTROY
)

// event types and codes from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03

	synReport = 0x00

	relHWheel      = 0x06
	relWheel       = 0x08
	relWheelHiRes  = 0x0b
	relHWheelHiRes = 0x0c

	absX = 0x00
	absY = 0x01
)

const busUSB = 0x03

const (
	keyboardDeviceName = "vinav-keyboard"
	pointerDeviceName  = "vinav-pointer"
)

// wheelNotch is the hi-res wheel unit for one detent.
const wheelNotch = 120

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

// uinputDevice is one virtual input device. Writes are framed: every call to
// frame ends with a SYN_REPORT and frames never interleave.
type uinputDevice struct {
	mu sync.Mutex
	f  *os.File
}

func openUinput() (*os.File, error) {
	path := "/dev/uinput"
	if _, err := os.Stat(path); err != nil {
		path = "/dev/input/uinput"
		if _, err := os.Stat(path); err != nil {
			return nil, errors.New("uinput device not found, try: sudo modprobe uinput")
		}
	}
	return os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, os.ModeDevice)
}

type deviceSpec struct {
	name    string
	product uint16
	evbits  []int
	keybits []int
	relbits []int
	absmax  map[int]int32
}

func createDevice(ds deviceSpec) (*uinputDevice, error) {
	f, err := openUinput()
	if err != nil {
		return nil, err
	}
	fd := int(f.Fd())
	set := func(req uint, bits []int) error {
		for _, b := range bits {
			if err := unix.IoctlSetInt(fd, req, b); err != nil {
				return fmt.Errorf("ioctl %#x(%d): %w", req, b, err)
			}
		}
		return nil
	}
	absbits := make([]int, 0, len(ds.absmax))
	for code := range ds.absmax {
		absbits = append(absbits, code)
	}
	for _, step := range []struct {
		req  uint
		bits []int
	}{
		{uiSetEvbit, ds.evbits},
		{uiSetKeybit, ds.keybits},
		{uiSetRelbit, ds.relbits},
		{uiSetAbsbit, absbits},
	} {
		if err := set(step.req, step.bits); err != nil {
			f.Close()
			return nil, err
		}
	}

	dev := uinputUserDev{}
	copy(dev.Name[:], ds.name)
	dev.ID.Bustype = busUSB
	dev.ID.Vendor = 0x1234
	dev.ID.Product = ds.product
	dev.ID.Version = 1
	for code, limit := range ds.absmax {
		dev.Absmax[code] = limit
	}
	if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return &uinputDevice{f: f}, nil
}

func (d *uinputDevice) frame(evs ...inputEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range evs {
		if err := binary.Write(d.f, binary.LittleEndian, &evs[i]); err != nil {
			return err
		}
	}
	syn := inputEvent{Type: evSyn, Code: synReport}
	return binary.Write(d.f, binary.LittleEndian, &syn)
}

func (d *uinputDevice) key(code uint16, value int32) error {
	return d.frame(inputEvent{Type: evKey, Code: code, Value: value})
}

func (d *uinputDevice) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	unix.IoctlSetInt(int(d.f.Fd()), uiDevDestroy, 0)
	return d.f.Close()
}

// uinputInjector drives a virtual keyboard and a virtual absolute pointer
// sized to the display.
type uinputInjector struct {
	kbd *uinputDevice
	ptr *uinputDevice
}

func newUinputInjector(width, height int) (*uinputInjector, error) {
	keys := make([]int, 0, keyMax)
	for k := 1; k <= int(keyMax); k++ {
		keys = append(keys, k)
	}
	kbd, err := createDevice(deviceSpec{
		name:    keyboardDeviceName,
		product: 0x5678,
		evbits:  []int{evKey, evSyn},
		keybits: keys,
	})
	if err != nil {
		return nil, fmt.Errorf("virtual keyboard: %w", err)
	}
	ptr, err := createDevice(deviceSpec{
		name:    pointerDeviceName,
		product: 0x5679,
		evbits:  []int{evKey, evRel, evAbs, evSyn},
		keybits: []int{int(ButtonLeft), int(ButtonRight), int(ButtonMiddle)},
		relbits: []int{relWheel, relHWheel, relWheelHiRes, relHWheelHiRes},
		absmax:  map[int]int32{absX: int32(width - 1), absY: int32(height - 1)},
	})
	if err != nil {
		kbd.close()
		return nil, fmt.Errorf("virtual pointer: %w", err)
	}
	// Give compositor time to recognize the new input devices
	time.Sleep(200 * time.Millisecond)
	return &uinputInjector{kbd: kbd, ptr: ptr}, nil
}

func (u *uinputInjector) MoveTo(x, y int) error {
	return u.ptr.frame(
		inputEvent{Type: evAbs, Code: absX, Value: int32(x)},
		inputEvent{Type: evAbs, Code: absY, Value: int32(y)},
	)
}

func (u *uinputInjector) Button(b Button, down bool) error {
	return u.ptr.key(uint16(b), boolValue(down))
}

func (u *uinputInjector) Wheel(dx, dy int) error {
	var evs []inputEvent
	if dy != 0 {
		evs = append(evs,
			inputEvent{Type: evRel, Code: relWheel, Value: int32(dy / wheelNotch)},
			inputEvent{Type: evRel, Code: relWheelHiRes, Value: int32(dy)},
		)
	}
	if dx != 0 {
		evs = append(evs,
			inputEvent{Type: evRel, Code: relHWheel, Value: int32(dx / wheelNotch)},
			inputEvent{Type: evRel, Code: relHWheelHiRes, Value: int32(dx)},
		)
	}
	if len(evs) == 0 {
		return nil
	}
	return u.ptr.frame(evs...)
}

func (u *uinputInjector) Key(k Key, down bool) error {
	return u.kbd.key(uint16(k), boolValue(down))
}

func (u *uinputInjector) Close() error {
	err := u.ptr.close()
	if kerr := u.kbd.close(); err == nil {
		err = kerr
	}
	return err
}

func boolValue(down bool) int32 {
	if down {
		return 1
	}
	return 0
}
