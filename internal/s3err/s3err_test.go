package s3err

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
)

func TestMapHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Kind
	}{
		{200, KindOK},
		{204, KindOK},
		{401, KindAuth},
		{403, KindAccessDenied},
		{404, KindNotFound},
		{408, KindTimeout},
		{500, KindHTTP},
		{503, KindHTTP},
	}
	for _, c := range cases {
		if got := MapHTTPStatus(c.status); got != c.want {
			t.Errorf("MapHTTPStatus(%d) = %s, want %s", c.status, got, c.want)
		}
	}
}

func TestMapTransportErrCancelled(t *testing.T) {
	got := MapTransportErr(context.Canceled)
	if got.Kind != KindCancelled {
		t.Fatalf("Kind = %s, want %s", got.Kind, KindCancelled)
	}
}

func TestMapTransportErrTimeout(t *testing.T) {
	got := MapTransportErr(&url.Error{Op: "Get", URL: "http://x", Err: timeoutErr{}})
	if got.Kind != KindTimeout {
		t.Fatalf("Kind = %s, want %s", got.Kind, KindTimeout)
	}
}

func TestMapTransportErrConnectFailure(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	got := MapTransportErr(&url.Error{Op: "Get", URL: "http://x", Err: opErr})
	if got.Kind != KindInit {
		t.Fatalf("Kind = %s, want %s", got.Kind, KindInit)
	}
}

func TestMapTransportErrFallsBackToTransport(t *testing.T) {
	got := MapTransportErr(errors.New("something unexpected"))
	if got.Kind != KindTransport {
		t.Fatalf("Kind = %s, want %s", got.Kind, KindTransport)
	}
}

func TestErrorOK(t *testing.T) {
	var zero Error
	if !zero.OK() {
		t.Fatal("zero-value Error should be OK")
	}
	if (Error{Kind: KindHTTP}).OK() {
		t.Fatal("HTTP kind should not be OK")
	}
}

func TestNewTruncatesMessage(t *testing.T) {
	long := make([]byte, maxMessage+100)
	for i := range long {
		long[i] = 'x'
	}
	e := New(KindInternal, 0, "", 0, string(long))
	if len(e.Message) != maxMessage {
		t.Fatalf("len(Message) = %d, want %d", len(e.Message), maxMessage)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
