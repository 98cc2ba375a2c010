//go:build linux && arm

package audioroute

// ctlLongSize is sizeof(long) in the control ABI.
const ctlLongSize = 4

// ctlPtr holds a user pointer passed inside a control struct.
type ctlPtr = uint32

// elemList is struct snd_ctl_elem_list, 72 bytes.
type elemList struct {
	Offset uint32
	Space  uint32
	Used   uint32
	Count  uint32
	Pids   ctlPtr
	_      [50]byte
	_      [2]byte // tail padding to 4
}

// elemValue is struct snd_ctl_elem_value, 712 bytes. EABI aligns the value
// union to 8 because of its long long member, hence the word after
// Indirect.
type elemValue struct {
	ID       elemID
	Indirect uint32
	_        uint32
	Value    [128 * ctlLongSize]byte
	_        [128]byte
}
