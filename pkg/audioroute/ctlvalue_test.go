package audioroute

import (
	"encoding/binary"
	"testing"
)

func noEnum(string) (uint32, bool) { return 0, false }

func TestEncodeValue_Integer(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 1024)
	if err := encodeValue(buf, 8, ctlTypeInteger, 2, AllIndices, "84", noEnum); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	for i := range 2 {
		if got := binary.LittleEndian.Uint64(buf[i*8:]); got != 84 {
			t.Errorf("slot %d = %d, want 84", i, got)
		}
	}
}

func TestEncodeValue_SingleIndexKeepsOthers(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 1024)
	binary.LittleEndian.PutUint64(buf[0:], 7)
	binary.LittleEndian.PutUint64(buf[8:], 7)
	if err := encodeValue(buf, 8, ctlTypeInteger, 2, 1, "-3", noEnum); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	if got := binary.LittleEndian.Uint64(buf[0:]); got != 7 {
		t.Errorf("slot 0 = %d, want untouched 7", got)
	}
	if got := int64(binary.LittleEndian.Uint64(buf[8:])); got != -3 {
		t.Errorf("slot 1 = %d, want -3", got)
	}
}

func TestEncodeValue_Boolean(t *testing.T) {
	t.Parallel()
	cases := map[string]uint64{"1": 1, "On": 1, "true": 1, "0": 0, "off": 0}
	for in, want := range cases {
		buf := make([]byte, 16)
		if err := encodeValue(buf, 8, ctlTypeBoolean, 1, AllIndices, in, noEnum); err != nil {
			t.Fatalf("encodeValue(%q): %v", in, err)
		}
		if got := binary.LittleEndian.Uint64(buf); got != want {
			t.Errorf("encodeValue(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestEncodeValue_Enumerated(t *testing.T) {
	t.Parallel()
	items := map[string]uint32{"ZERO": 0, "RX1": 1, "RX2": 2}
	lookup := func(s string) (uint32, bool) {
		v, ok := items[s]
		return v, ok
	}

	buf := make([]byte, 16)
	if err := encodeValue(buf, 8, ctlTypeEnumerated, 2, AllIndices, "RX2", lookup); err != nil {
		t.Fatalf("encodeValue: %v", err)
	}
	if a, b := binary.LittleEndian.Uint32(buf[0:]), binary.LittleEndian.Uint32(buf[4:]); a != 2 || b != 2 {
		t.Errorf("slots = %d,%d, want 2,2", a, b)
	}
	if err := encodeValue(buf, 8, ctlTypeEnumerated, 1, AllIndices, "1", lookup); err != nil {
		t.Fatalf("numeric enum: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf); got != 1 {
		t.Errorf("numeric enum = %d, want 1", got)
	}
	if err := encodeValue(buf, 8, ctlTypeEnumerated, 1, AllIndices, "AIF9", lookup); err == nil {
		t.Error("unknown enum item accepted")
	}
}

func TestEncodeValue_Errors(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 16)
	cases := []struct {
		name  string
		typ   ctlType
		count uint32
		index int
		value string
	}{
		{"bad integer", ctlTypeInteger, 1, AllIndices, "loud"},
		{"index out of range", ctlTypeInteger, 1, 1, "1"},
		{"too many values", ctlTypeInteger, 3, AllIndices, "1"},
		{"unsupported type", ctlTypeIEC958, 1, AllIndices, "1"},
	}
	for _, tc := range cases {
		if err := encodeValue(buf, 8, tc.typ, tc.count, tc.index, tc.value, noEnum); err == nil {
			t.Errorf("%s: encodeValue succeeded", tc.name)
		}
	}
}

func TestEncodeValue_LongWidth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		longSize int
		typ      ctlType
		value    string
		want     []uint64 // slot values
		width    int
	}{
		{"int on 32-bit", 4, ctlTypeInteger, "84", []uint64{84, 84, 84}, 4},
		{"negative int on 32-bit", 4, ctlTypeInteger, "-1", []uint64{0xffffffff, 0xffffffff, 0xffffffff}, 4},
		{"bool on 32-bit", 4, ctlTypeBoolean, "on", []uint64{1, 1, 1}, 4},
		{"int64 ignores long size", 4, ctlTypeInteger64, "5000000000", []uint64{5000000000, 5000000000, 5000000000}, 8},
		{"int on 64-bit", 8, ctlTypeInteger, "5000000000", []uint64{5000000000, 5000000000, 5000000000}, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			buf := make([]byte, 32)
			if err := encodeValue(buf, tc.longSize, tc.typ, 3, AllIndices, tc.value, noEnum); err != nil {
				t.Fatalf("encodeValue: %v", err)
			}
			for i, want := range tc.want {
				var got uint64
				if tc.width == 4 {
					got = uint64(binary.LittleEndian.Uint32(buf[i*4:]))
				} else {
					got = binary.LittleEndian.Uint64(buf[i*8:])
				}
				if got != want {
					t.Errorf("slot %d = %#x, want %#x", i, got, want)
				}
			}
			// Nothing past the last slot is written.
			for i := 3 * tc.width; i < len(buf); i++ {
				if buf[i] != 0 {
					t.Fatalf("byte %d written past the value slots", i)
				}
			}
		})
	}
}

func TestEncodeValue_LongOverflowOn32Bit(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 16)
	if err := encodeValue(buf, 4, ctlTypeInteger, 1, AllIndices, "5000000000", noEnum); err == nil {
		t.Error("value wider than a 32-bit long accepted")
	}
	if err := encodeValue(buf, 2, ctlTypeInteger, 1, AllIndices, "1", noEnum); err == nil {
		t.Error("long size 2 accepted")
	}
}
