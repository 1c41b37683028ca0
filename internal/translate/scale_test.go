package translate

import "testing"

func TestUpscale7To16FixedPoints(t *testing.T) {
	cases := map[uint8]uint16{
		0: 0, 1: 520, 63: 32767, 64: 32768, 65: 33288, 126: 65015, 127: 65535,
	}
	for in, want := range cases {
		if got := Upscale7To16(in); got != want {
			t.Errorf("Upscale7To16(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDownscaleUpscaleRoundTrip(t *testing.T) {
	for v := 0; v <= 127; v++ {
		up := Upscale7To16(uint8(v))
		down := Downscale16To7(up)
		if int(down) != v {
			t.Errorf("downscale(upscale(%d)) = %d, want %d", v, down, v)
		}
	}
}

func TestUpscale14To32FixedPoints(t *testing.T) {
	if got := Upscale14To32(0); got != 0 {
		t.Errorf("Upscale14To32(0) = %d, want 0", got)
	}
	if got := Upscale14To32(8192); got != 0x80000000 {
		t.Errorf("Upscale14To32(8192) = %#x, want 0x80000000", got)
	}
	if got := Upscale14To32(16383); got != 0xFFFFFFFF {
		t.Errorf("Upscale14To32(16383) = %#x, want 0xFFFFFFFF", got)
	}
}
