// Package reqfactory assembles a configured transport.EasyConfig per
// operation — URL, headers, auth material, and read/write streaming.
package reqfactory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zynqcloud/go-s3-client/internal/s3err"
	"github.com/zynqcloud/go-s3-client/internal/s3sign"
	"github.com/zynqcloud/go-s3-client/internal/streamio"
	"github.com/zynqcloud/go-s3-client/internal/urlbuild"
)

// Auth carries the credential material needed to sign a request.
type Auth struct {
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	RequireSigV4 bool
}

// Limits carries the transport-level settings applied to every request.
type Limits struct {
	ConnectTimeout        time.Duration
	RequestTimeout        time.Duration
	TLSInsecureSkipVerify bool
	DisableHostnameCheck  bool
	CAFile                string
	CAPath                string
	Proxy                 string
}

// Prepared is an assembled, not-yet-executed request.
type Prepared struct {
	RequestID string
	Method    string
	URL       string
	Headers   http.Header

	Body     *streamio.Source
	BodySize int64

	Sink *streamio.Sink
}

func newRequestID() string { return uuid.NewString() }

func baseHeaders(sessionToken string) http.Header {
	h := make(http.Header)
	if sessionToken != "" {
		h.Set("x-amz-security-token", sessionToken)
	}
	return h
}

func applyAuth(ctx context.Context, method, url string, headers http.Header, auth Auth, payloadHash string) error {
	if auth.RequireSigV4 {
		if auth.Region == "" {
			return fmt.Errorf("%w: region is required for SigV4", errInvalidArg)
		}
		if auth.AccessKey == "" || auth.SecretKey == "" {
			return fmt.Errorf("%w: access key and secret key are required for SigV4", errInvalidArg)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		req.Header = headers
		if err := s3sign.SignV4(ctx, req, auth.Region, auth.AccessKey, auth.SecretKey, auth.SessionToken, payloadHash); err != nil {
			return fmt.Errorf("%w: %v", errSigV4, err)
		}
		return nil
	}

	if auth.AccessKey == "" || auth.SecretKey == "" {
		return fmt.Errorf("%w: access key and secret key are required", errInvalidArg)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	s3sign.SetBasicAuth(req, auth.AccessKey, auth.SecretKey)
	headers.Set("Authorization", req.Header.Get("Authorization"))
	return nil
}

// PutObject builds a PUT-from-FD prepared request.
func PutObject(ctx context.Context, endpoint, bucket, key string, auth Auth, src streamio.FileReaderAt, offset, size int64, contentType string) (*Prepared, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", errInvalidArg)
	}
	url := urlbuild.ObjectURL(endpoint, bucket, key)
	headers := baseHeaders(auth.SessionToken)
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	if err := applyAuth(ctx, http.MethodPut, url, headers, auth, s3sign.UnsignedPayload); err != nil {
		return nil, err
	}
	return &Prepared{
		RequestID: newRequestID(),
		Method:    http.MethodPut,
		URL:       url,
		Headers:   headers,
		Body:      streamio.NewFDSource(src, offset, size),
		BodySize:  size,
	}, nil
}

// GetObject builds a GET-to-FD prepared request.
func GetObject(ctx context.Context, endpoint, bucket, key string, auth Auth, dst streamio.FileWriterAt, offset, maxSize int64, rangeHeader string) (*Prepared, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", errInvalidArg)
	}
	url := urlbuild.ObjectURL(endpoint, bucket, key)
	headers := baseHeaders(auth.SessionToken)
	if rangeHeader != "" {
		headers.Set("Range", rangeHeader)
	}
	if err := applyAuth(ctx, http.MethodGet, url, headers, auth, s3sign.HashPayload(nil)); err != nil {
		return nil, err
	}
	return &Prepared{
		RequestID: newRequestID(),
		Method:    http.MethodGet,
		URL:       url,
		Headers:   headers,
		Sink:      streamio.NewFDSink(dst, offset, maxSize),
	}, nil
}

// CreateBucket builds a PUT-with-empty-body prepared request.
func CreateBucket(ctx context.Context, endpoint, bucket string, auth Auth) (*Prepared, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", errInvalidArg)
	}
	url := urlbuild.BucketURL(endpoint, bucket)
	headers := baseHeaders(auth.SessionToken)
	if err := applyAuth(ctx, http.MethodPut, url, headers, auth, s3sign.HashPayload(nil)); err != nil {
		return nil, err
	}
	return &Prepared{
		RequestID: newRequestID(),
		Method:    http.MethodPut,
		URL:       url,
		Headers:   headers,
		Body:      streamio.NewNoneSource(),
		BodySize:  0,
	}, nil
}

// ListObjectsV2 builds the list-objects prepared request, writing the
// response body into responseSink for the caller to parse afterward.
func ListObjectsV2(ctx context.Context, endpoint, bucket, prefix string, maxKeys int, continuationToken string, auth Auth, responseSink *streamio.Sink) (*Prepared, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", errInvalidArg)
	}
	url := urlbuild.ListObjectsURL(endpoint, bucket, prefix, maxKeys, continuationToken)
	headers := baseHeaders(auth.SessionToken)
	if err := applyAuth(ctx, http.MethodGet, url, headers, auth, s3sign.HashPayload(nil)); err != nil {
		return nil, err
	}
	return &Prepared{
		RequestID: newRequestID(),
		Method:    http.MethodGet,
		URL:       url,
		Headers:   headers,
		Sink:      responseSink,
	}, nil
}

// DeleteObjects builds the Multi-Object Delete prepared request. The XML
// body is built and validated before any transport call — an empty key
// returns INVALID_ARG without signing or sending anything.
func DeleteObjects(ctx context.Context, endpoint, bucket string, entries []urlbuild.DeleteEntry, quiet bool, auth Auth, responseSink *streamio.Sink) (*Prepared, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", errInvalidArg)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one object is required", errInvalidArg)
	}
	if len(entries) > 1000 {
		return nil, fmt.Errorf("%w: at most 1000 objects per call", errInvalidArg)
	}

	body, err := urlbuild.BuildDeleteXML(entries, quiet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArg, err)
	}
	bodyBytes := []byte(body)

	url := urlbuild.DeleteObjectsURL(endpoint, bucket)
	headers := baseHeaders(auth.SessionToken)
	headers.Set("Content-Type", "application/xml")
	headers.Set("Content-MD5", urlbuild.ContentMD5(bodyBytes))

	if err := applyAuth(ctx, http.MethodPost, url, headers, auth, s3sign.HashPayload(bodyBytes)); err != nil {
		return nil, err
	}

	return &Prepared{
		RequestID: newRequestID(),
		Method:    http.MethodPost,
		URL:       url,
		Headers:   headers,
		Body:      streamio.NewMemSource(bodyBytes),
		BodySize:  int64(len(bodyBytes)),
		Sink:      responseSink,
	}, nil
}

var (
	errInvalidArg = s3err.Invalid("invalid argument")
	errSigV4      = s3err.New(s3err.KindSigV4, 0, "", 0, "sigv4 signing error")
)
