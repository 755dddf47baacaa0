package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

// memReaderAt adapts an in-memory byte slice to s3client.FileReaderAt so
// bench doesn't need a scratch file on disk per submission.
type memReaderAt struct{ data []byte }

func (m memReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(m.data).ReadAt(p, off)
}

func newBenchCommand() *cobra.Command {
	f := &connFlags{}
	var bucket, keyPrefix string
	var count, objectSize int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Submit many concurrent PutFD calls and report completion latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.multiplexed = true
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			payload := bytes.Repeat([]byte{'x'}, objectSize)
			src := memReaderAt{data: payload}

			outcomes := make([]<-chan s3client.Outcome[struct{}], count)
			start := time.Now()
			for i := 0; i < count; i++ {
				key := fmt.Sprintf("%s-%d", keyPrefix, i)
				outcomes[i] = s3client.Await(func() (struct{}, error) {
					err := c.PutFD(cmd.Context(), s3client.PutFDInput{
						Bucket: bucket,
						Key:    key,
						FD:     src,
						Size:   int64(len(payload)),
					})
					return struct{}{}, err
				})
			}

			failures := 0
			for _, ch := range outcomes {
				res := <-ch
				if res.Err != nil {
					failures++
				}
			}
			elapsed := time.Since(start)

			fmt.Fprintf(cmd.OutOrStdout(), "submitted=%d failed=%d elapsed=%s\n", count, failures, elapsed)
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "destination bucket (required)")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "bench", "key prefix for generated objects")
	cmd.Flags().IntVar(&count, "count", 100, "number of concurrent submissions")
	cmd.Flags().IntVar(&objectSize, "object-size", 1024, "bytes per submitted object")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck

	return cmd
}
