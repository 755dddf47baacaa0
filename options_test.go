package s3client

import "testing"

func TestWithDefaultsFillsZeroValues(t *testing.T) {
	got := Options{}.withDefaults()
	if got.ConnectTimeout == 0 || got.RequestTimeout == 0 || got.MaxTotalConns == 0 || got.MaxConnsPerHost == 0 || got.MultiIdlePoll == 0 {
		t.Fatalf("expected all defaults to be filled, got %+v", got)
	}
}

func TestWithDefaultsPreservesExplicitValues(t *testing.T) {
	in := Options{MaxTotalConns: 8}
	got := in.withDefaults()
	if got.MaxTotalConns != 8 {
		t.Fatalf("MaxTotalConns = %d, want 8", got.MaxTotalConns)
	}
}

func TestValidateRejectsMissingEndpoint(t *testing.T) {
	opts := Options{AccessKey: "a", SecretKey: "b"}
	if err := opts.validate(); err == nil {
		t.Fatal("expected an error for a missing endpoint")
	}
}

func TestValidateRejectsSigV4WithoutRegion(t *testing.T) {
	opts := Options{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "b", RequireSigV4: true}
	if err := opts.validate(); err == nil {
		t.Fatal("expected an error for SigV4 without a region")
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	opts := Options{Endpoint: "https://s3.example.com"}
	if err := opts.validate(); err == nil {
		t.Fatal("expected an error for missing credentials")
	}
}

func TestValidateAcceptsMinimalValidOptions(t *testing.T) {
	opts := Options{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "b"}
	if err := opts.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestListObjectsResultCount(t *testing.T) {
	r := ListObjectsResult{Objects: []ObjectInfo{{Key: "a"}, {Key: "b"}}}
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", r.Count())
	}
}
