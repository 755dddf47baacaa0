package s3client

import (
	"context"
	"errors"
	"time"

	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/streamio"
	"github.com/zynqcloud/go-s3-client/internal/urlbuild"
	"github.com/zynqcloud/go-s3-client/internal/xmlparse"
)

// PutFD uploads in.Size bytes read positionally from in.FD starting at
// in.Offset to bucket/key.
func (c *Client) PutFD(ctx context.Context, in PutFDInput) error {
	bucket := c.bucketOrDefault(in.Bucket)
	req, err := reqfactory.PutObject(ctx, c.opts.Endpoint, bucket, in.Key, c.auth, in.FD, in.Offset, in.Size, in.ContentType)
	if err != nil {
		return c.fail(err, "")
	}
	_, err = c.execute(ctx, "PutObject", bucket, in.Key, req)
	return err
}

// GetFD downloads an object, writing its body positionally into in.FD
// starting at in.Offset, and reports how many bytes were written.
func (c *Client) GetFD(ctx context.Context, in GetFDInput) (int64, error) {
	bucket := c.bucketOrDefault(in.Bucket)
	req, err := reqfactory.GetObject(ctx, c.opts.Endpoint, bucket, in.Key, c.auth, in.FD, in.Offset, in.MaxSize, in.Range)
	if err != nil {
		return 0, c.fail(err, "")
	}
	return c.execute(ctx, "GetObject", bucket, in.Key, req)
}

// CreateBucket issues the empty-body PUT that creates bucket.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	bucket = c.bucketOrDefault(bucket)
	req, err := reqfactory.CreateBucket(ctx, c.opts.Endpoint, bucket, c.auth)
	if err != nil {
		return c.fail(err, "")
	}
	_, err = c.execute(ctx, "CreateBucket", bucket, "", req)
	return err
}

// ListObjects lists up to in.MaxKeys objects under in.Prefix.
func (c *Client) ListObjects(ctx context.Context, in ListObjectsInput) (ListObjectsResult, error) {
	bucket := c.bucketOrDefault(in.Bucket)

	buf := c.alloc.Get()
	defer c.alloc.Put(buf)
	sink := streamio.NewMemSink(buf, 0)

	req, err := reqfactory.ListObjectsV2(ctx, c.opts.Endpoint, bucket, in.Prefix, in.MaxKeys, in.ContinuationToken, c.auth, sink)
	if err != nil {
		return ListObjectsResult{}, c.fail(err, "")
	}
	if _, err := c.execute(ctx, "ListObjectsV2", bucket, "", req); err != nil {
		return ListObjectsResult{}, err
	}

	parsed := xmlparse.ParseListObjectsV2(string(buf.B))
	return toListObjectsResult(parsed), nil
}

// DeleteObjects issues a Multi-Object Delete for in.Objects.
// An empty key in in.Objects is rejected before any transport call.
func (c *Client) DeleteObjects(ctx context.Context, in DeleteObjectsInput) error {
	bucket := c.bucketOrDefault(in.Bucket)

	entries := make([]urlbuild.DeleteEntry, len(in.Objects))
	for i, o := range in.Objects {
		entries[i] = urlbuild.DeleteEntry{Key: o.Key, VersionID: o.VersionID}
	}

	buf := c.alloc.Get()
	defer c.alloc.Put(buf)
	sink := streamio.NewMemSink(buf, 0)

	req, err := reqfactory.DeleteObjects(ctx, c.opts.Endpoint, bucket, entries, in.Quiet, c.auth, sink)
	if err != nil {
		return c.fail(err, "")
	}
	_, err = c.execute(ctx, "DeleteObjects", bucket, "", req)
	return err
}

// execute drives req through the configured backend, logs the outcome, and
// records the outcome as LastError — on every call, success or failure, so
// LastError always reflects the most recent operation. It returns the
// number of response bytes the request's sink accepted, if any.
func (c *Client) execute(ctx context.Context, op, bucket, key string, req *reqfactory.Prepared) (int64, error) {
	start := time.Now()
	res := c.backend.Execute(ctx, req, c.limits)
	c.logAccess(op, bucket, key, req.RequestID, res.Status, time.Since(start), res.Err)
	c.setLastError(res.Err)

	var written int64
	if req.Sink != nil {
		written = req.Sink.WriteBytesTotal()
	}
	if !res.Err.OK() {
		return written, res.Err
	}
	return written, nil
}

func (c *Client) fail(err error, requestID string) error {
	e := toError(err)
	if e.RequestID == "" {
		e.RequestID = requestID
	}
	c.setLastError(e)
	return e
}

func toError(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}
	return Error{Kind: KindInvalidArg, Message: err.Error()}
}

func toListObjectsResult(p xmlparse.ListResult) ListObjectsResult {
	objects := make([]ObjectInfo, len(p.Objects))
	for i, o := range p.Objects {
		objects[i] = ObjectInfo{
			Key:          o.Key,
			Size:         o.Size,
			ETag:         o.ETag,
			LastModified: o.LastModified,
			StorageClass: o.StorageClass,
		}
	}
	return ListObjectsResult{
		Objects:               objects,
		IsTruncated:           p.IsTruncated,
		NextContinuationToken: p.NextContinuationToken,
	}
}
