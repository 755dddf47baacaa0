// Package backend drives prepared requests to completion under one of two
// concurrency models: Sync executes one request at a time on the calling
// goroutine; Multiplexed admits many concurrent requests under
// connection-pool limits, the Go reading of a curl-multi worker loop.
package backend

import (
	"context"

	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/s3err"
	"github.com/zynqcloud/go-s3-client/internal/transport"
)

// Result is the outcome of driving one Prepared request to completion.
type Result struct {
	Status int
	Err    s3err.Error
}

// Backend executes a single prepared request and reports its outcome.
// Both Sync and Multiplexed implement it; Client picks one at construction.
type Backend interface {
	Execute(ctx context.Context, req *reqfactory.Prepared, limits reqfactory.Limits) Result
	Close()
}

func toEasyConfig(req *reqfactory.Prepared, limits reqfactory.Limits) transport.EasyConfig {
	cfg := transport.EasyConfig{
		Method:                req.Method,
		URL:                   req.URL,
		Headers:               req.Headers,
		BodySize:              -1,
		ConnectTimeout:        limits.ConnectTimeout,
		RequestTimeout:        limits.RequestTimeout,
		TLSInsecureSkipVerify: limits.TLSInsecureSkipVerify,
		DisableHostnameCheck:  limits.DisableHostnameCheck,
		CAFile:                limits.CAFile,
		CAPath:                limits.CAPath,
		Proxy:                 limits.Proxy,
	}
	if req.Body != nil {
		cfg.Body = req.Body
		cfg.BodySize = req.BodySize
	}
	if req.Sink != nil {
		cfg.WriteTo = req.Sink
	}
	return cfg
}

func resultFor(requestID string, status int, err error) Result {
	if err != nil {
		mapped := s3err.MapTransportErr(err)
		mapped.RequestID = requestID
		return Result{Status: status, Err: mapped}
	}
	kind := s3err.MapHTTPStatus(status)
	if kind == s3err.KindOK {
		return Result{Status: status}
	}
	mapped := s3err.New(kind, status, "", 0, "s3 request failed with status %d", status)
	mapped.RequestID = requestID
	return Result{Status: status, Err: mapped}
}
