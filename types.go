package s3client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend selects the concurrency model a Client uses to execute requests.
type Backend int

const (
	// BackendSync runs one request at a time on the calling goroutine.
	BackendSync Backend = iota
	// BackendMultiplexed runs an internal worker that drives many concurrent
	// requests, admitted under connection-pool limits.
	BackendMultiplexed
)

// Flags holds the boolean feature switches a Client can be configured with.
type Flags struct {
	DisableTLSPeerVerify bool
	DisableHostnameCheck bool
	ForcePathStyle       bool
}

// Options configures a new Client.
type Options struct {
	Endpoint        string
	Region          string
	AccessKey       string
	SecretKey       string
	SessionToken    string
	DefaultBucket   string
	RequireSigV4    bool // false selects HTTP Basic auth
	ConnectTimeout  time.Duration
	RequestTimeout  time.Duration
	MaxTotalConns   int
	MaxConnsPerHost int
	MultiIdlePoll   time.Duration
	CAFile          string
	CAPath          string
	Proxy           string
	Flags           Flags
	BackendKind     Backend
	Allocator       interface{} // *alloc.Tracked or alloc.Allocator; kept untyped to avoid exporting internal/alloc
	// MetricsRegisterer, when set, receives the multiplexed backend's
	// Prometheus collectors. Nil (the default) registers nothing.
	MetricsRegisterer prometheus.Registerer
}

// defaults fills in the zero-value fields with usable defaults.
func (o Options) withDefaults() Options {
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 5000 * time.Millisecond
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = 30000 * time.Millisecond
	}
	if o.MaxTotalConns == 0 {
		o.MaxTotalConns = 64
	}
	if o.MaxConnsPerHost == 0 {
		o.MaxConnsPerHost = 16
	}
	if o.MultiIdlePoll == 0 {
		o.MultiIdlePoll = 50 * time.Millisecond
	}
	return o
}

func (o Options) validate() error {
	if o.Endpoint == "" {
		return Error{Kind: KindInvalidArg, Message: "endpoint is required"}
	}
	if o.RequireSigV4 && o.Region == "" {
		return Error{Kind: KindInvalidArg, Message: "region is required when SigV4 is enabled"}
	}
	if o.AccessKey == "" {
		return Error{Kind: KindInvalidArg, Message: "access key is required"}
	}
	if o.SecretKey == "" {
		return Error{Kind: KindInvalidArg, Message: "secret key is required"}
	}
	return nil
}

// ObjectInfo describes one entry in a ListObjects result.
type ObjectInfo struct {
	Key          string
	Size         uint64
	ETag         string
	LastModified string
	StorageClass string
}

// ListObjectsResult is the output of ListObjects.
type ListObjectsResult struct {
	Objects               []ObjectInfo
	IsTruncated           bool
	NextContinuationToken string
}

// Count returns the number of objects in the result.
func (r ListObjectsResult) Count() int { return len(r.Objects) }

// PutFDInput is the input to PutFD.
type PutFDInput struct {
	Bucket      string // empty → client's DefaultBucket
	Key         string
	FD          FileReaderAt
	Offset      int64
	Size        int64
	ContentType string
}

// GetFDInput is the input to GetFD.
type GetFDInput struct {
	Bucket  string
	Key     string
	FD      FileWriterAt
	Offset  int64
	MaxSize int64 // 0 = unbounded
	Range   string
}

// ListObjectsInput is the input to ListObjects.
type ListObjectsInput struct {
	Bucket            string
	Prefix            string
	MaxKeys           int
	ContinuationToken string
}

// DeleteEntry is one element of a DeleteObjects request.
type DeleteEntry struct {
	Key       string
	VersionID string
}

// DeleteObjectsInput is the input to DeleteObjects.
type DeleteObjectsInput struct {
	Bucket  string
	Objects []DeleteEntry
	Quiet   bool
}

// FileReaderAt is the positional-read capability PutFD streams from.
// *os.File satisfies this.
type FileReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// FileWriterAt is the positional-write capability GetFD streams into.
// *os.File satisfies this.
type FileWriterAt interface {
	WriteAt(p []byte, off int64) (n int, err error)
}
