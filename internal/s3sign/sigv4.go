// Package s3sign attaches authentication material to an outgoing request:
// AWS Signature Version 4 via aws-sdk-go-v2's signer, or HTTP Basic.
package s3sign

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// service is the signing name S3-compatible endpoints expect.
const service = "s3"

// UnsignedPayload is the payload hash sentinel used when the body is
// streamed from a file descriptor and hashing it up front would require
// buffering the whole thing — the same tradeoff real S3 SDKs make for
// streaming uploads.
const UnsignedPayload = "UNSIGNED-PAYLOAD"

var signer = v4.NewSigner()

// HashPayload returns the SHA-256 hex digest of an in-memory body, for
// operations (ListObjectsV2, DeleteObjects) whose body is already buffered.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SignV4 signs req in place with SigV4 using accessKey/secretKey/token for
// region. payloadHash is either HashPayload(body) or UnsignedPayload.
//
// Missing region or credentials is an argument error, not a transport
// failure — callers validate before reaching here.
func SignV4(ctx context.Context, req *http.Request, region, accessKey, secretKey, sessionToken, payloadHash string) error {
	if region == "" {
		return fmt.Errorf("s3sign: region is required for SigV4")
	}
	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("s3sign: access key and secret key are required for SigV4")
	}

	provider := credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken)
	creds, err := provider.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("s3sign: retrieve credentials: %w", err)
	}

	return signer.SignHTTP(ctx, creds, req, payloadHash, service, region, time.Now())
}

// SetBasicAuth attaches HTTP Basic credentials, the non-SigV4 auth path.
func SetBasicAuth(req *http.Request, accessKey, secretKey string) {
	req.SetBasicAuth(accessKey, secretKey)
}
