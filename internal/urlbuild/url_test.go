package urlbuild

import "testing"

func TestQueryEscapeLeavesUnreservedAlone(t *testing.T) {
	in := "abcXYZ019-._~"
	if got := QueryEscape(in); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestQueryEscapeEncodesSpaceAndSlash(t *testing.T) {
	got := QueryEscape("a b/c")
	want := "a%20b%2Fc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestObjectURLDoesNotEncodeKey(t *testing.T) {
	got := ObjectURL("https://s3.example.com", "bucket", "a/b c.txt")
	want := "https://s3.example.com/bucket/a/b c.txt"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBucketURLTrimsTrailingSlash(t *testing.T) {
	got := BucketURL("https://s3.example.com/", "bucket")
	want := "https://s3.example.com/bucket"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListObjectsURLBuildsQuery(t *testing.T) {
	got := ListObjectsURL("https://s3.example.com", "bucket", "logs/", 50, "tok en")
	want := "https://s3.example.com/bucket?list-type=2&prefix=logs%2F&max-keys=50&continuation-token=tok%20en"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeleteObjectsURL(t *testing.T) {
	got := DeleteObjectsURL("https://s3.example.com", "bucket")
	want := "https://s3.example.com/bucket?delete"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
