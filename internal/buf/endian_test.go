package buf

import "testing"

func TestI32RoundTrip(t *testing.T) {
	data := make([]byte, 6)
	if !PutI32LE(data[2:], -1) {
		t.Fatalf("PutI32LE failed on a 4-byte window")
	}
	if got := I32LE(data[2:]); got != -1 {
		t.Fatalf("I32LE = %d, want -1", got)
	}
	if data[0] != 0 || data[1] != 0 {
		t.Fatalf("PutI32LE wrote outside its window: %v", data)
	}

	PutI32LE(data, 0x01020304)
	if data[0] != 0x04 || data[3] != 0x01 {
		t.Fatalf("PutI32LE not little-endian: %v", data)
	}

	short := []byte{0xAA}
	if PutI32LE(short, 7) || short[0] != 0xAA {
		t.Fatalf("short write should fail without touching the buffer")
	}
	if I32LE(short) != 0 {
		t.Fatalf("short reads should return 0")
	}
}
