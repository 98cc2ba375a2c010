package audioroute

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// ctlType is the kernel's snd_ctl_elem_type_t.
type ctlType uint32

const (
	ctlTypeNone       ctlType = 0
	ctlTypeBoolean    ctlType = 1
	ctlTypeInteger    ctlType = 2
	ctlTypeEnumerated ctlType = 3
	ctlTypeBytes      ctlType = 4
	ctlTypeIEC958     ctlType = 5
	ctlTypeInteger64  ctlType = 6
)

func (t ctlType) String() string {
	switch t {
	case ctlTypeNone:
		return "NONE"
	case ctlTypeBoolean:
		return "BOOLEAN"
	case ctlTypeInteger:
		return "INTEGER"
	case ctlTypeEnumerated:
		return "ENUMERATED"
	case ctlTypeBytes:
		return "BYTES"
	case ctlTypeIEC958:
		return "IEC958"
	case ctlTypeInteger64:
		return "INTEGER64"
	default:
		return fmt.Sprintf("TYPE_%d", uint32(t))
	}
}

// slotSize is the width of one value slot in snd_ctl_elem_value when a C
// long is longSize bytes: booleans and integers are longs, 64-bit integers
// are long longs, enumerations are uints.
func (t ctlType) slotSize(longSize int) int {
	switch t {
	case ctlTypeBoolean, ctlTypeInteger:
		return longSize
	case ctlTypeInteger64:
		return 8
	case ctlTypeEnumerated:
		return 4
	case ctlTypeBytes:
		return 1
	default:
		return 0
	}
}

// encodeValue writes value into the value union buf for a control of type
// typ with count slots. index selects one slot or [AllIndices]. buf must
// already hold the current control value so untouched slots keep it.
// longSize is the kernel's C long width. enumIndex resolves an enumerated
// item name to its index.
func encodeValue(buf []byte, longSize int, typ ctlType, count uint32, index int, value string, enumIndex func(string) (uint32, bool)) error {
	if longSize != 4 && longSize != 8 {
		return fmt.Errorf("unsupported long size %d", longSize)
	}
	width := typ.slotSize(longSize)
	if width == 0 {
		return fmt.Errorf("unsupported control type %s", typ)
	}
	if index != AllIndices && (index < 0 || uint32(index) >= count) {
		return fmt.Errorf("index %d out of range (%d values)", index, count)
	}
	if int(count)*width > len(buf) {
		return fmt.Errorf("%d values of %s do not fit the value buffer", count, typ)
	}

	var put func(slot []byte)
	switch typ {
	case ctlTypeBoolean:
		v := int64(0)
		if value == "1" || strings.EqualFold(value, "on") || strings.EqualFold(value, "true") {
			v = 1
		}
		put = func(slot []byte) { putInt(slot, width, v) }
	case ctlTypeInteger, ctlTypeInteger64:
		n, err := strconv.ParseInt(value, 0, width*8)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		put = func(slot []byte) { putInt(slot, width, n) }
	case ctlTypeEnumerated:
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			idx, ok := enumIndex(value)
			if !ok {
				return fmt.Errorf("enum item %q not found", value)
			}
			n = uint64(idx)
		}
		put = func(slot []byte) { binary.LittleEndian.PutUint32(slot, uint32(n)) }
	case ctlTypeBytes:
		n, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid byte %q", value)
		}
		put = func(slot []byte) { slot[0] = byte(n) }
	}

	if index != AllIndices {
		put(buf[index*width:])
		return nil
	}
	for i := 0; i < int(count); i++ {
		put(buf[i*width:])
	}
	return nil
}

func putInt(slot []byte, width int, v int64) {
	if width == 4 {
		binary.LittleEndian.PutUint32(slot, uint32(int32(v)))
		return
	}
	binary.LittleEndian.PutUint64(slot, uint64(v))
}
