// Package streamio implements read/write streaming adapters: pull bytes
// for an outgoing request body, or push bytes from a received response
// body, to either a file descriptor (positional IO) or an in-memory
// buffer, bounded by an optional size limit.
package streamio

import (
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// Kind tags which of the three streaming variants is active. Source and
// Sink are tagged structs, never an untagged union.
type Kind int

const (
	KindNone Kind = iota
	KindFD
	KindMem
)

// FileReaderAt is the positional-read capability a source FD must provide.
type FileReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// FileWriterAt is the positional-write capability a sink FD must provide.
type FileWriterAt interface {
	WriteAt(p []byte, off int64) (n int, err error)
}

const memGrowFloor = 8 * 1024 // minimum growth step for the in-memory sink

// Source is a read adapter: it pulls bytes for an outgoing body.
type Source struct {
	Kind      Kind
	FD        FileReaderAt
	Offset    int64 // base offset for FD; read position for Mem
	Mem       []byte
	SizeLimit int64 // 0 = unbounded

	total int64 // ReadBytesTotal: bytes this source has yielded so far
}

// NewNoneSource builds a Source that immediately signals end-of-stream.
func NewNoneSource() *Source { return &Source{Kind: KindNone} }

// NewFDSource builds a positional-read Source bounded by size.
func NewFDSource(fd FileReaderAt, offset, size int64) *Source {
	return &Source{Kind: KindFD, FD: fd, Offset: offset, SizeLimit: size}
}

// NewMemSource builds a Source that reads directly from buf.
func NewMemSource(buf []byte) *Source {
	return &Source{Kind: KindMem, Mem: buf, SizeLimit: int64(len(buf))}
}

// ReadBytesTotal returns the number of bytes this source has yielded.
func (s *Source) ReadBytesTotal() int64 { return s.total }

// Read implements io.Reader so a Source can be handed directly to
// http.NewRequest as the outgoing body.
func (s *Source) Read(p []byte) (int, error) {
	if s.SizeLimit > 0 {
		remaining := s.SizeLimit - s.total
		if remaining <= 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
	}

	switch s.Kind {
	case KindNone:
		return 0, io.EOF

	case KindFD:
		n, err := s.readAtWithRetry(p)
		s.total += int64(n)
		if err == io.EOF && n > 0 {
			// A short final read still counts; EOF is reported next call.
			return n, nil
		}
		return n, err

	case KindMem:
		if s.total >= int64(len(s.Mem)) {
			return 0, io.EOF
		}
		n := copy(p, s.Mem[s.total:])
		s.total += int64(n)
		return n, nil

	default:
		return 0, fmt.Errorf("streamio: unknown source kind %d", s.Kind)
	}
}

// readAtWithRetry retries ReadAt on transient interruption, matching the
// source's "retries on interruption" read-adapter behavior.
func (s *Source) readAtWithRetry(p []byte) (int, error) {
	for {
		n, err := s.FD.ReadAt(p, s.Offset+s.total)
		if err == nil || n > 0 {
			return n, err
		}
		if isRetryable(err) {
			continue
		}
		return n, err
	}
}

// Sink is a write adapter: it consumes bytes from a received body.
type Sink struct {
	Kind      Kind
	FD        FileWriterAt
	Offset    int64
	Mem       *bytebufferpool.ByteBuffer
	SizeLimit int64 // 0 = unbounded

	total int64 // WriteBytesTotal
}

// NewNoneSink builds a Sink that discards and counts bytes.
func NewNoneSink() *Sink { return &Sink{Kind: KindNone} }

// NewFDSink builds a positional-write Sink bounded by maxSize (0 = unbounded).
func NewFDSink(fd FileWriterAt, offset, maxSize int64) *Sink {
	return &Sink{Kind: KindFD, FD: fd, Offset: offset, SizeLimit: maxSize}
}

// NewMemSink builds a Sink that appends into a pooled growable buffer.
func NewMemSink(buf *bytebufferpool.ByteBuffer, sizeLimit int64) *Sink {
	return &Sink{Kind: KindMem, Mem: buf, SizeLimit: sizeLimit}
}

// WriteBytesTotal returns the number of bytes this sink has accepted.
func (s *Sink) WriteBytesTotal() int64 { return s.total }

// Write implements io.Writer so a Sink can be the destination of io.Copy
// from an HTTP response body.
func (s *Sink) Write(p []byte) (int, error) {
	if s.SizeLimit > 0 {
		remaining := s.SizeLimit - s.total
		if remaining <= 0 {
			return len(p), nil // silently bounded, matching a capped GET range
		}
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
	}

	switch s.Kind {
	case KindNone:
		s.total += int64(len(p))
		return len(p), nil

	case KindFD:
		n, err := s.writeAtWithRetry(p)
		s.total += int64(n)
		return n, err

	case KindMem:
		s.Mem.B = appendGrowing(s.Mem.B, p)
		s.total += int64(len(p))
		return len(p), nil

	default:
		return 0, fmt.Errorf("streamio: unknown sink kind %d", s.Kind)
	}
}

func (s *Sink) writeAtWithRetry(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.FD.WriteAt(p[total:], s.Offset+s.total+int64(total))
		total += n
		if err != nil {
			if isRetryable(err) {
				continue
			}
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// appendGrowing appends p to buf, doubling capacity with an 8 KiB floor
// when growth is needed.
func appendGrowing(buf, p []byte) []byte {
	need := len(buf) + len(p)
	if need <= cap(buf) {
		return append(buf, p...)
	}
	newCap := cap(buf) * 2
	if newCap < memGrowFloor {
		newCap = memGrowFloor
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]byte, len(buf), newCap)
	copy(grown, buf)
	return append(grown, p...)
}

func isRetryable(err error) bool {
	type temporary interface{ Temporary() bool }
	if t, ok := err.(temporary); ok {
		return t.Temporary()
	}
	return false
}
