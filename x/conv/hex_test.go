package conv

import "testing"

func TestAppendByteHex(t *testing.T) {
	got := AppendByteHex(nil, 0x4A)
	if string(got) != "4A" {
		t.Fatalf("got %q", got)
	}
	got = AppendByteHex(got, 0x00)
	if string(got) != "4A00" {
		t.Fatalf("got %q", got)
	}
}

func TestAppendHexDump(t *testing.T) {
	got := AppendHexDump(nil, []byte("ABC"), 0)
	if string(got) != "41 42 43" {
		t.Fatalf("got %q", got)
	}
	if got := AppendHexDump(nil, nil, 0); len(got) != 0 {
		t.Fatalf("empty src produced %q", got)
	}
}

func TestAppendHexDumpBounded(t *testing.T) {
	// "41 42" needs 5 bytes; the third pair does not fit in 7.
	got := AppendHexDump(nil, []byte("ABC"), 7)
	if string(got) != "41 42" {
		t.Fatalf("got %q", got)
	}
}
