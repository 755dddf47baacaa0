package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

func newPutCommand() *cobra.Command {
	f := &connFlags{}
	var bucket, key, file, contentType string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Upload a file to bucket/key",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			st, err := fh.Stat()
			if err != nil {
				return err
			}

			err = c.PutFD(cmd.Context(), s3client.PutFDInput{
				Bucket:      bucket,
				Key:         key,
				FD:          fh,
				Offset:      0,
				Size:        st.Size(),
				ContentType: contentType,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to s3://%s/%s (%d bytes)\n", file, bucket, key, st.Size())
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "destination bucket (required)")
	cmd.Flags().StringVar(&key, "key", "", "destination object key (required)")
	cmd.Flags().StringVar(&file, "file", "", "local file to upload (required)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content-Type header")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck
	cmd.MarkFlagRequired("key")    //nolint:errcheck
	cmd.MarkFlagRequired("file")   //nolint:errcheck

	return cmd
}
