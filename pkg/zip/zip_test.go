package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Summit", want: "summit.txt"},
		{in: "Café au lait", want: "cafe-au-lait.txt"},
		{in: "  ../etc/passwd ", want: "etc-passwd.txt"},
		{in: "東京", want: "untitled.txt"},
		{in: "", want: "untitled.txt"},
	}
	for _, tc := range tests {
		if got := SafeName(tc.in, ".txt"); got != tc.want {
			t.Fatalf("SafeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestArchiveDeduplicatesNames(t *testing.T) {
	data, err := Archive([]Entry{
		{Filename: "climb.txt", Data: []byte("a")},
		{Filename: "climb.txt", Data: []byte("b")},
		{Filename: "beacon.txt", Data: []byte("c")},
	})
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	want := map[string]string{"climb.txt": "a", "climb-2.txt": "b", "beacon.txt": "c"}
	if len(zr.File) != len(want) {
		t.Fatalf("files = %d, want %d", len(zr.File), len(want))
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		_ = rc.Close()
		if want[f.Name] != string(body) {
			t.Fatalf("%s = %q, want %q", f.Name, body, want[f.Name])
		}
	}
}
