package streamio

import (
	"io"
	"testing"

	"github.com/valyala/bytebufferpool"
)

type memFile struct{ data []byte }

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	copy(m.data[off:], p)
	return len(p), nil
}

func TestSourceNoneIsImmediatelyEOF(t *testing.T) {
	s := NewNoneSource()
	buf := make([]byte, 16)
	n, err := s.Read(buf)
	if n != 0 || err != io.EOF {
		t.Fatalf("got n=%d err=%v, want 0, io.EOF", n, err)
	}
}

func TestSourceFDReadsBoundedBySize(t *testing.T) {
	f := &memFile{data: []byte("0123456789")}
	s := NewFDSource(f, 2, 5)

	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "23456" {
		t.Fatalf("got %q, want %q", got, "23456")
	}
	if s.ReadBytesTotal() != 5 {
		t.Fatalf("ReadBytesTotal() = %d, want 5", s.ReadBytesTotal())
	}
}

func TestSourceMemReadsInOrder(t *testing.T) {
	s := NewMemSource([]byte("hello world"))
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestSinkFDWritesAtOffset(t *testing.T) {
	f := &memFile{data: make([]byte, 4)}
	sink := NewFDSink(f, 4, 0)

	n, err := sink.Write([]byte("abc"))
	if err != nil || n != 3 {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}
	if string(f.data) != "\x00\x00\x00\x00abc" {
		t.Fatalf("got %q", f.data)
	}
	if sink.WriteBytesTotal() != 3 {
		t.Fatalf("WriteBytesTotal() = %d, want 3", sink.WriteBytesTotal())
	}
}

func TestSinkFDRespectsSizeLimit(t *testing.T) {
	f := &memFile{data: make([]byte, 10)}
	sink := NewFDSink(f, 0, 4)

	n, err := sink.Write([]byte("abcdef"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4 (bounded by SizeLimit)", n)
	}

	n2, err := sink.Write([]byte("xyz"))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if n2 != 3 {
		t.Fatalf("second write should report full length %d, got %d", len("xyz"), n2)
	}
}

func TestSinkMemGrowsAndAccumulates(t *testing.T) {
	buf := &bytebufferpool.ByteBuffer{}
	sink := NewMemSink(buf, 0)

	for i := 0; i < 3; i++ {
		if _, err := sink.Write([]byte("chunk-")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if string(buf.B) != "chunk-chunk-chunk-" {
		t.Fatalf("got %q", buf.B)
	}
	if sink.WriteBytesTotal() != int64(len("chunk-chunk-chunk-")) {
		t.Fatalf("WriteBytesTotal() = %d", sink.WriteBytesTotal())
	}
}

func TestAppendGrowingFloorsAt8KiB(t *testing.T) {
	var buf []byte
	buf = appendGrowing(buf, []byte("x"))
	if cap(buf) < memGrowFloor {
		t.Fatalf("cap(buf) = %d, want >= %d", cap(buf), memGrowFloor)
	}
}
