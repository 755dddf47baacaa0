package urlbuild

import (
	"crypto/md5" //nolint:gosec // required by the S3 Content-MD5 header contract, not for security
	"encoding/base64"
)

// ContentMD5 computes base64(MD5(body)), the exact value the Content-MD5
// header must carry. MD5 is mandated by the wire protocol itself (S3's
// Content-MD5 integrity check), not a security choice, so there is no
// stronger-hash substitute available here.
func ContentMD5(body []byte) string {
	sum := md5.Sum(body) //nolint:gosec
	return base64.StdEncoding.EncodeToString(sum[:])
}
