//go:build linux && (amd64 || arm64 || arm)

package audioroute

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/MrWong99/consumerir/internal/ioctl"
)

// elemID and elemInfo have the same layout on every supported arch. The
// structs holding C longs or pointers live in mixer_layout_*.go.

type elemID struct {
	Numid     uint32
	Iface     uint32
	Device    uint32
	Subdevice uint32
	Name      [44]byte
	Index     uint32
}

func (id *elemID) name() string {
	n := bytes.IndexByte(id.Name[:], 0)
	if n < 0 {
		n = len(id.Name)
	}
	return string(id.Name[:n])
}

type elemInfo struct {
	ID     elemID
	Type   uint32
	Access uint32
	Count  uint32
	Owner  int32
	Union  [128]byte
	_      [272 - 64 - 4*4 - 128]byte
}

// enumItems returns value.enumerated.items.
func (info *elemInfo) enumItems() uint32 {
	return binary.LittleEndian.Uint32(info.Union[0:4])
}

const ctlMagic = 'U'

var (
	cmdElemList  = ioctl.IOWR(ctlMagic, 0x10, unsafe.Sizeof(elemList{}))
	cmdElemInfo  = ioctl.IOWR(ctlMagic, 0x11, unsafe.Sizeof(elemInfo{}))
	cmdElemRead  = ioctl.IOWR(ctlMagic, 0x12, unsafe.Sizeof(elemValue{}))
	cmdElemWrite = ioctl.IOWR(ctlMagic, 0x13, unsafe.Sizeof(elemValue{}))
)

// ctlMixer writes controls through /dev/snd/controlC<card>.
type ctlMixer struct {
	path string
	fd   int
	ids  map[string]elemID
}

// OpenMixer opens the control device of card and indexes its elements by
// name. When several elements share a name the first one wins.
func OpenMixer(card uint) (Mixer, error) {
	path := fmt.Sprintf("/dev/snd/controlC%d", card)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("audioroute: open %s: %w", path, err)
	}
	m := &ctlMixer{path: path, fd: fd, ids: make(map[string]elemID)}
	if err := m.index(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return m, nil
}

func (m *ctlMixer) index() error {
	var list elemList
	if err := ioctl.Do(m.fd, cmdElemList, unsafe.Pointer(&list)); err != nil {
		return fmt.Errorf("audioroute: count controls on %s: %w", m.path, err)
	}
	if list.Count == 0 {
		return nil
	}
	ids := make([]elemID, list.Count)
	list = elemList{Space: uint32(len(ids)), Pids: ctlPtr(uintptr(unsafe.Pointer(&ids[0])))}
	err := ioctl.Do(m.fd, cmdElemList, unsafe.Pointer(&list))
	runtime.KeepAlive(ids)
	if err != nil {
		return fmt.Errorf("audioroute: list controls on %s: %w", m.path, err)
	}
	for _, id := range ids[:list.Used] {
		name := id.name()
		if _, dup := m.ids[name]; !dup {
			m.ids[name] = id
		}
	}
	return nil
}

// Set implements [Mixer].
func (m *ctlMixer) Set(s Setting) error {
	id, ok := m.ids[s.Control]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, s.Control)
	}
	info := elemInfo{ID: id}
	if err := ioctl.Do(m.fd, cmdElemInfo, unsafe.Pointer(&info)); err != nil {
		return fmt.Errorf("info %q: %w", s.Control, err)
	}
	val := elemValue{ID: id}
	if err := ioctl.Do(m.fd, cmdElemRead, unsafe.Pointer(&val)); err != nil {
		return fmt.Errorf("read %q: %w", s.Control, err)
	}
	lookup := func(item string) (uint32, bool) { return m.enumIndex(id, info.enumItems(), item) }
	if err := encodeValue(val.Value[:], ctlLongSize, ctlType(info.Type), info.Count, s.Index, s.Value, lookup); err != nil {
		return fmt.Errorf("%q: %w", s.Control, err)
	}
	if err := ioctl.Do(m.fd, cmdElemWrite, unsafe.Pointer(&val)); err != nil {
		return fmt.Errorf("write %q: %w", s.Control, err)
	}
	return nil
}

func (m *ctlMixer) enumIndex(id elemID, items uint32, name string) (uint32, bool) {
	for i := range items {
		q := elemInfo{ID: id}
		binary.LittleEndian.PutUint32(q.Union[4:8], i)
		if err := ioctl.Do(m.fd, cmdElemInfo, unsafe.Pointer(&q)); err != nil {
			continue
		}
		raw := q.Union[8:72]
		if n := bytes.IndexByte(raw, 0); n >= 0 {
			raw = raw[:n]
		}
		if strings.EqualFold(string(raw), name) {
			return i, true
		}
	}
	return 0, false
}

// Close implements [Mixer].
func (m *ctlMixer) Close() error {
	if m.fd < 0 {
		return nil
	}
	err := unix.Close(m.fd)
	m.fd = -1
	if err != nil {
		return fmt.Errorf("audioroute: close %s: %w", m.path, err)
	}
	return nil
}

// Init opens the control device of card and applies the defaults of the
// mixer XML at xmlPath.
func Init(card uint, xmlPath string) (Router, error) {
	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("audioroute: %w", err)
	}
	defer f.Close()

	mixer, err := OpenMixer(card)
	if err != nil {
		return nil, err
	}
	rt, err := New(mixer, f)
	if err != nil {
		mixer.Close()
		return nil, err
	}
	return rt, nil
}
