// Package commands implements the s3ctl subcommands: put, get,
// createbucket, list, delete, and bench, each a thin CLI wrapper over
// package s3client.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	s3client "github.com/zynqcloud/go-s3-client"
)

// connFlags holds the connection/auth flags every subcommand shares.
type connFlags struct {
	endpoint     string
	region       string
	accessKey    string
	secretKey    string
	sessionToken string
	sigv4        bool
	insecureTLS  bool
	multiplexed  bool
	maxTotal     int
	maxPerHost   int
	timeout      time.Duration
}

func addConnFlags(cmd *cobra.Command, f *connFlags) {
	cmd.PersistentFlags().StringVar(&f.endpoint, "endpoint", "", "S3-compatible endpoint URL (required)")
	cmd.PersistentFlags().StringVar(&f.region, "region", "us-east-1", "SigV4 signing region")
	cmd.PersistentFlags().StringVar(&f.accessKey, "access-key", "", "access key (env S3CTL_ACCESS_KEY)")
	cmd.PersistentFlags().StringVar(&f.secretKey, "secret-key", "", "secret key (env S3CTL_SECRET_KEY)")
	cmd.PersistentFlags().StringVar(&f.sessionToken, "session-token", "", "temporary session token")
	cmd.PersistentFlags().BoolVar(&f.sigv4, "sigv4", true, "sign requests with AWS SigV4 (false uses HTTP Basic)")
	cmd.PersistentFlags().BoolVar(&f.insecureTLS, "insecure", false, "skip TLS certificate verification")
	cmd.PersistentFlags().BoolVar(&f.multiplexed, "multiplexed", false, "use the multiplexed concurrency backend")
	cmd.PersistentFlags().IntVar(&f.maxTotal, "max-conns", 64, "maximum total connections (multiplexed backend)")
	cmd.PersistentFlags().IntVar(&f.maxPerHost, "max-conns-per-host", 16, "maximum connections per host (multiplexed backend)")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 30*time.Second, "per-request timeout")
}

func (f *connFlags) newClient() (*s3client.Client, error) {
	backendKind := s3client.BackendSync
	if f.multiplexed {
		backendKind = s3client.BackendMultiplexed
	}
	return s3client.New(s3client.Options{
		Endpoint:        f.endpoint,
		Region:          f.region,
		AccessKey:       envOr(f.accessKey, "S3CTL_ACCESS_KEY"),
		SecretKey:       envOr(f.secretKey, "S3CTL_SECRET_KEY"),
		SessionToken:    f.sessionToken,
		RequireSigV4:    f.sigv4,
		RequestTimeout:  f.timeout,
		MaxTotalConns:   f.maxTotal,
		MaxConnsPerHost: f.maxPerHost,
		BackendKind:     backendKind,
		Flags: s3client.Flags{
			DisableTLSPeerVerify: f.insecureTLS,
		},
	})
}

// Root builds the s3ctl command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "s3ctl",
		Short:         "Command-line client for an S3-compatible object store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newPutCommand())
	root.AddCommand(newGetCommand())
	root.AddCommand(newCreateBucketCommand())
	root.AddCommand(newListCommand())
	root.AddCommand(newDeleteCommand())
	root.AddCommand(newBenchCommand())

	return root
}
