package s3client_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	s3client "github.com/zynqcloud/go-s3-client"
	"github.com/zynqcloud/go-s3-client/internal/testutil/fakes3"
)

func newTestClient(t *testing.T, srv *fakes3.Server, backendKind s3client.Backend) *s3client.Client {
	t.Helper()
	c, err := s3client.New(s3client.Options{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKey:       "AKIDEXAMPLE",
		SecretKey:       "secret",
		RequireSigV4:    false,
		BackendKind:     backendKind,
		MaxTotalConns:   8,
		MaxConnsPerHost: 4,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestEndToEndPutGetListDelete(t *testing.T) {
	srv := fakes3.New("AKIDEXAMPLE", "secret")
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, s3client.BackendSync)
	ctx := context.Background()

	require.NoError(t, c.CreateBucket(ctx, "bucket"))

	payload := []byte("hello from the integration test")
	srcFile, err := os.CreateTemp(t.TempDir(), "src-*")
	require.NoError(t, err)
	_, err = srcFile.Write(payload)
	require.NoError(t, err)

	err = c.PutFD(ctx, s3client.PutFDInput{
		Bucket:      "bucket",
		Key:         "greeting.txt",
		FD:          srcFile,
		Offset:      0,
		Size:        int64(len(payload)),
		ContentType: "text/plain",
	})
	require.NoError(t, err)

	dstFile, err := os.CreateTemp(t.TempDir(), "dst-*")
	require.NoError(t, err)
	bytesWritten, err := c.GetFD(ctx, s3client.GetFDInput{
		Bucket: "bucket",
		Key:    "greeting.txt",
		FD:     dstFile,
	})
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), bytesWritten)

	got := make([]byte, len(payload))
	_, err = dstFile.ReadAt(got, 0)
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, payload))

	listResult, err := c.ListObjects(ctx, s3client.ListObjectsInput{Bucket: "bucket"})
	require.NoError(t, err)
	require.Equal(t, 1, listResult.Count())
	require.Equal(t, "greeting.txt", listResult.Objects[0].Key)
	require.False(t, listResult.IsTruncated)

	err = c.DeleteObjects(ctx, s3client.DeleteObjectsInput{
		Bucket:  "bucket",
		Objects: []s3client.DeleteEntry{{Key: "greeting.txt"}},
	})
	require.NoError(t, err)

	listResult, err = c.ListObjects(ctx, s3client.ListObjectsInput{Bucket: "bucket"})
	require.NoError(t, err)
	require.Equal(t, 0, listResult.Count())
}

func TestEndToEndRejectsUnauthorizedRequests(t *testing.T) {
	srv := fakes3.New("AKIDEXAMPLE", "secret")
	t.Cleanup(srv.Close)

	c, err := s3client.New(s3client.Options{
		Endpoint:  srv.URL,
		AccessKey: "wrong-key",
		SecretKey: "wrong-secret",
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	err = c.CreateBucket(context.Background(), "bucket")
	require.Error(t, err)

	var s3err s3client.Error
	require.ErrorAs(t, err, &s3err)
	require.Equal(t, s3client.KindAccessDenied, s3err.Kind)
}

func TestEndToEndGetMissingKeyReturnsNotFound(t *testing.T) {
	srv := fakes3.New("AKIDEXAMPLE", "secret")
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, s3client.BackendSync)
	require.NoError(t, c.CreateBucket(context.Background(), "bucket"))

	dstFile, err := os.CreateTemp(t.TempDir(), "dst-*")
	require.NoError(t, err)

	_, err = c.GetFD(context.Background(), s3client.GetFDInput{
		Bucket: "bucket",
		Key:    "missing.txt",
		FD:     dstFile,
	})
	require.Error(t, err)

	var s3err s3client.Error
	require.ErrorAs(t, err, &s3err)
	require.Equal(t, s3client.KindNotFound, s3err.Kind)
}

func TestEndToEndMultiplexedBackendHandlesConcurrentPuts(t *testing.T) {
	srv := fakes3.New("AKIDEXAMPLE", "secret")
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv, s3client.BackendMultiplexed)
	ctx := context.Background()
	require.NoError(t, c.CreateBucket(ctx, "bucket"))

	const n = 5
	outcomes := make([]<-chan s3client.Outcome[struct{}], n)
	for i := 0; i < n; i++ {
		key := "obj-" + string(rune('a'+i))
		data := []byte("payload-" + string(rune('a'+i)))
		f, err := os.CreateTemp(t.TempDir(), "src-*")
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)

		outcomes[i] = s3client.Await(func() (struct{}, error) {
			return struct{}{}, c.PutFD(ctx, s3client.PutFDInput{
				Bucket: "bucket",
				Key:    key,
				FD:     f,
				Size:   int64(len(data)),
			})
		})
	}
	for _, ch := range outcomes {
		out := <-ch
		require.NoError(t, out.Err)
	}

	listResult, err := c.ListObjects(ctx, s3client.ListObjectsInput{Bucket: "bucket"})
	require.NoError(t, err)
	require.Equal(t, n, listResult.Count())
}
