package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

func newListCommand() *cobra.Command {
	f := &connFlags{}
	var bucket, prefix, continuationToken string
	var maxKeys int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects in a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.ListObjects(cmd.Context(), s3client.ListObjectsInput{
				Bucket:            bucket,
				Prefix:            prefix,
				MaxKeys:           maxKeys,
				ContinuationToken: continuationToken,
			})
			if err != nil {
				return err
			}

			for _, obj := range res.Objects {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12d %-40s %s\n", obj.Size, obj.Key, obj.ETag)
			}
			if res.IsTruncated {
				fmt.Fprintf(cmd.OutOrStdout(), "# truncated, next-continuation-token=%s\n", res.NextContinuationToken)
			}
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket to list (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix filter")
	cmd.Flags().StringVar(&continuationToken, "continuation-token", "", "resume a previous truncated listing")
	cmd.Flags().IntVar(&maxKeys, "max-keys", 0, "maximum keys per page (0 = server default)")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck

	return cmd
}
