package ioctl

import (
	"fmt"
	"testing"
)

func TestRequestEncoding(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		// IRRC_START / IRRC_STOP as built by the LG PWM driver header.
		{"irrc start", IOW('a', 0, 4), 0x40046100},
		{"irrc stop", IOW('a', 1, 4), 0x40046101},
		// ALSA control ioctls on 64-bit kernels.
		{"ctl elem list", IOWR('U', 0x10, 80), 0xC0505510},
		{"ctl elem info", IOWR('U', 0x11, 272), 0xC1105511},
		{"ctl elem write", IOWR('U', 0x13, 1224), 0xC4C85513},
		{"ctl card info", IOR('U', 0x01, 376), 0x81785501},
		{"pcm drop", IO('A', 0x43), 0x4143},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("request = %s, want %s", hex(tc.got), hex(tc.want))
			}
		})
	}
}

func hex(v uintptr) string { return fmt.Sprintf("%#x", v) }
