package s3client

import "github.com/zynqcloud/go-s3-client/internal/s3err"

// Kind is the closed taxonomy of failure categories a call can report.
// Callers branch on Kind, not on transport-specific codes, so swapping the
// underlying transport never changes observable error handling.
type Kind = s3err.Kind

const (
	KindOK           = s3err.KindOK
	KindInvalidArg   = s3err.KindInvalidArg
	KindNoMem        = s3err.KindNoMem
	KindInit         = s3err.KindInit
	KindTransport    = s3err.KindTransport
	KindHTTP         = s3err.KindHTTP
	KindSigV4        = s3err.KindSigV4
	KindIO           = s3err.KindIO
	KindTimeout      = s3err.KindTimeout
	KindNotFound     = s3err.KindNotFound
	KindAuth         = s3err.KindAuth
	KindAccessDenied = s3err.KindAccessDenied
	KindCancelled    = s3err.KindCancelled
	KindInternal     = s3err.KindInternal
)

// Error is the uniform error record populated by every failing operation
// and mirrored into the client's last-error slot.
type Error = s3err.Error

// errOK is the zero-value last-error: every client starts in this state.
var errOK = Error{Kind: KindOK}
