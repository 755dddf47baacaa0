package s3client

import "time"

// logAccess emits one structured log line per completed operation: a
// single trailing line rather than mid-stream noise, since a PutFD/GetFD
// call can stream for as long as a large upload/download takes.
func (c *Client) logAccess(op, bucket, key, requestID string, status int, dur time.Duration, errResult Error) {
	attrs := []any{
		"op", op,
		"bucket", bucket,
		"request_id", requestID,
		"status", status,
		"duration_ms", dur.Milliseconds(),
	}
	if key != "" {
		attrs = append(attrs, "key", key)
	}

	if errResult.OK() {
		c.logger.Info("s3 request", attrs...)
		return
	}
	attrs = append(attrs, "error_kind", string(errResult.Kind), "error", errResult.Message)
	c.logger.Error("s3 request failed", attrs...)
}
