package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

func newGetCommand() *cobra.Command {
	f := &connFlags{}
	var bucket, key, file, rangeHeader string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Download bucket/key to a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			fh, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
			if err != nil {
				return err
			}
			defer fh.Close()

			n, err := c.GetFD(cmd.Context(), s3client.GetFDInput{
				Bucket: bucket,
				Key:    key,
				FD:     fh,
				Range:  rangeHeader,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded s3://%s/%s to %s (%d bytes)\n", bucket, key, file, n)
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "source bucket (required)")
	cmd.Flags().StringVar(&key, "key", "", "source object key (required)")
	cmd.Flags().StringVar(&file, "file", "", "local file to write (required)")
	cmd.Flags().StringVar(&rangeHeader, "range", "", "byte range, e.g. bytes=0-1023")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck
	cmd.MarkFlagRequired("key")    //nolint:errcheck
	cmd.MarkFlagRequired("file")   //nolint:errcheck

	return cmd
}
