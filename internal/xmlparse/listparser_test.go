package xmlparse

import "testing"

func TestParseListObjectsV2Empty(t *testing.T) {
	got := ParseListObjectsV2("")
	if len(got.Objects) != 0 || got.IsTruncated {
		t.Fatalf("got %+v, want zero value", got)
	}
}

func TestParseListObjectsV2OneEntry(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<IsTruncated>false</IsTruncated>
<Contents>
<Key>logs/2024-01-01.log</Key>
<Size>1024</Size>
<ETag>"abc123"</ETag>
<LastModified>2024-01-01T00:00:00.000Z</LastModified>
<StorageClass>STANDARD</StorageClass>
</Contents>
</ListBucketResult>`

	got := ParseListObjectsV2(xml)
	if got.IsTruncated {
		t.Fatal("expected IsTruncated=false")
	}
	if len(got.Objects) != 1 {
		t.Fatalf("got %d objects, want 1", len(got.Objects))
	}
	obj := got.Objects[0]
	if obj.Key != "logs/2024-01-01.log" {
		t.Errorf("Key = %q", obj.Key)
	}
	if obj.Size != 1024 {
		t.Errorf("Size = %d", obj.Size)
	}
	if obj.ETag != "abc123" {
		t.Errorf("ETag = %q, want unquoted", obj.ETag)
	}
	if obj.StorageClass != "STANDARD" {
		t.Errorf("StorageClass = %q", obj.StorageClass)
	}
}

func TestParseListObjectsV2MultipleEntriesAndTruncation(t *testing.T) {
	xml := `<ListBucketResult>
<IsTruncated>true</IsTruncated>
<NextContinuationToken>next-token</NextContinuationToken>
<Contents><Key>a</Key><Size>1</Size></Contents>
<Contents><Key>b</Key><Size>2</Size></Contents>
</ListBucketResult>`

	got := ParseListObjectsV2(xml)
	if !got.IsTruncated {
		t.Fatal("expected IsTruncated=true")
	}
	if got.NextContinuationToken != "next-token" {
		t.Fatalf("NextContinuationToken = %q", got.NextContinuationToken)
	}
	if len(got.Objects) != 2 || got.Objects[0].Key != "a" || got.Objects[1].Key != "b" {
		t.Fatalf("got %+v", got.Objects)
	}
}

func TestParseContentsFirstMatchWinsOnDuplicateTag(t *testing.T) {
	block := `<Contents><Key>first</Key><Key>second</Key><Size>5</Size></Contents>`
	obj := parseContents(block)
	if obj.Key != "first" {
		t.Fatalf("Key = %q, want %q (first match wins)", obj.Key, "first")
	}
}

func TestUnquoteETagStripsSurroundingQuotes(t *testing.T) {
	if got := unquoteETag(`"abc"`); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := unquoteETag("abc"); got != "abc" {
		t.Fatalf("got %q (no quotes to strip)", got)
	}
}
