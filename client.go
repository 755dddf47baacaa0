// Package s3client is a minimal S3-compatible object storage client:
// PUT/GET objects, CreateBucket, ListObjectsV2, and Multi-Object Delete,
// over SigV4 or HTTP Basic auth, with a choice of sync or multiplexed
// concurrency backends.
package s3client

import (
	"log/slog"
	"os"
	"sync"

	"github.com/zynqcloud/go-s3-client/internal/alloc"
	"github.com/zynqcloud/go-s3-client/internal/backend"
	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/transport"
)

// Client is a configured handle to one S3-compatible endpoint. It is safe
// for concurrent use by multiple goroutines; LastError reports the most
// recent failure observed by any of them.
type Client struct {
	opts    Options
	auth    reqfactory.Auth
	limits  reqfactory.Limits
	backend backend.Backend
	alloc   alloc.Allocator
	logger  *slog.Logger

	mu      sync.Mutex
	lastErr Error
}

// New builds a Client from opts, filling in defaults and validating
// required fields. Returns an INVALID_ARG Error on a bad config.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	factory := transport.NewHTTPFactory(opts.MaxTotalConns, opts.MaxConnsPerHost, opts.MultiIdlePoll)

	var be backend.Backend
	switch opts.BackendKind {
	case BackendMultiplexed:
		be = backend.NewMultiplexed(factory, transport.NewMulti(), opts.MaxTotalConns, opts.MaxConnsPerHost, opts.MetricsRegisterer)
	default:
		be = backend.NewSync(factory)
	}

	allocator, ok := opts.Allocator.(alloc.Allocator)
	if !ok {
		allocator = alloc.Default()
	}

	c := &Client{
		opts: opts,
		auth: reqfactory.Auth{
			Region:       opts.Region,
			AccessKey:    opts.AccessKey,
			SecretKey:    opts.SecretKey,
			SessionToken: opts.SessionToken,
			RequireSigV4: opts.RequireSigV4,
		},
		limits: reqfactory.Limits{
			ConnectTimeout:        opts.ConnectTimeout,
			RequestTimeout:        opts.RequestTimeout,
			TLSInsecureSkipVerify: opts.Flags.DisableTLSPeerVerify,
			DisableHostnameCheck:  opts.Flags.DisableHostnameCheck,
			CAFile:                opts.CAFile,
			CAPath:                opts.CAPath,
			Proxy:                 opts.Proxy,
		},
		backend: be,
		alloc:   allocator,
		logger:  logger,
		lastErr: errOK,
	}
	return c, nil
}

// Close releases backend resources (connection pools, worker goroutines).
// It does not block on in-flight requests started via Await.
func (c *Client) Close() {
	c.backend.Close()
}

// LastError returns the most recent failure observed by any operation on
// this Client, or the zero (OK) Error if none has failed yet.
func (c *Client) LastError() Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// setLastError unconditionally replaces the last-error slot, including
// with an OK value: every operation call, success or failure, updates it.
func (c *Client) setLastError(e Error) {
	c.mu.Lock()
	c.lastErr = e
	c.mu.Unlock()
}

func (c *Client) bucketOrDefault(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return c.opts.DefaultBucket
}
