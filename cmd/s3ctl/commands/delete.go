package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

func newDeleteCommand() *cobra.Command {
	f := &connFlags{}
	var bucket string
	var keys []string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one or more objects from a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			entries := make([]s3client.DeleteEntry, len(keys))
			for i, k := range keys {
				entries[i] = s3client.DeleteEntry{Key: k}
			}

			if err := c.DeleteObjects(cmd.Context(), s3client.DeleteObjectsInput{
				Bucket:  bucket,
				Objects: entries,
				Quiet:   quiet,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d object(s) from %s\n", len(keys), bucket)
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket to delete from (required)")
	cmd.Flags().StringSliceVar(&keys, "key", nil, "object key to delete (repeatable)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-key results in the response")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck
	cmd.MarkFlagRequired("key")    //nolint:errcheck

	return cmd
}
