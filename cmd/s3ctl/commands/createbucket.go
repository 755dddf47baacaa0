package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateBucketCommand() *cobra.Command {
	f := &connFlags{}
	var bucket string

	cmd := &cobra.Command{
		Use:   "createbucket",
		Short: "Create a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.CreateBucket(cmd.Context(), bucket); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created bucket %s\n", bucket)
			return nil
		},
	}

	addConnFlags(cmd, f)
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket name (required)")
	cmd.MarkFlagRequired("bucket") //nolint:errcheck

	return cmd
}
