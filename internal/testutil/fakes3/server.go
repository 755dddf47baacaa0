// Package fakes3 is an in-process httptest fixture standing in for a real
// S3-compatible endpoint, so integration tests can exercise the client
// against request/response handling instead of a live service.
package fakes3

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// object is one stored body's metadata; the body itself lives in the
// backing fsStore, keyed by "bucket/key".
type object struct {
	etag        string
	lastModifed string
}

// Server is an S3-compatible fake: object metadata lives in a flat
// key→object map per bucket guarded by one mutex, bodies are persisted to
// a temp-backed fsStore — adequate for the test concurrency this package
// drives (tens of concurrent requests, not production load).
type Server struct {
	*httptest.Server

	store *fsStore

	mu           sync.Mutex
	buckets      map[string]map[string]object
	requireBasic bool
	accessKey    string
	secretKey    string

	RequestsSeen int // total handled requests, for assertions
}

// New starts a fake S3 server. When accessKey/secretKey are non-empty,
// every request must carry a matching Authorization header (Basic or
// AWS4-HMAC-SHA256 — this fixture checks presence and the access key
// only, not a real SigV4 signature, since callers use it to exercise
// client-side request shaping, not AWS's verification algorithm). The
// access key comparison is constant-time to avoid timing side channels.
func New(accessKey, secretKey string) *Server {
	store, err := newFSStore()
	if err != nil {
		panic(err) // test fixture: a temp-dir failure means the environment is broken
	}
	s := &Server{
		store:        store,
		buckets:      make(map[string]map[string]object),
		requireBasic: accessKey != "" || secretKey != "",
		accessKey:    accessKey,
		secretKey:    secretKey,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.route)
	s.Server = httptest.NewServer(mux)
	return s
}

// Close shuts down the HTTP listener and removes the backing temp store.
func (s *Server) Close() {
	s.Server.Close()
	s.store.close() //nolint:errcheck
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.RequestsSeen++
	s.mu.Unlock()

	if !s.authorized(r) {
		writeS3Error(w, http.StatusForbidden, "AccessDenied", "authorization header missing or invalid")
		return
	}

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := parts[0]

	switch {
	case r.Method == http.MethodPut && len(parts) == 1:
		s.createBucket(w, bucket)
	case r.Method == http.MethodPut && len(parts) == 2:
		s.putObject(w, r, bucket, parts[1])
	case r.Method == http.MethodGet && len(parts) == 2:
		s.getObject(w, r, bucket, parts[1])
	case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		s.listObjects(w, r, bucket)
	case r.Method == http.MethodPost && r.URL.Query().Has("delete"):
		s.deleteObjects(w, r, bucket)
	default:
		writeS3Error(w, http.StatusNotFound, "NoSuchKey", "no route matched")
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if !s.requireBasic {
		return true
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}
	if user, _, ok := r.BasicAuth(); ok {
		return subtle.ConstantTimeCompare([]byte(user), []byte(s.accessKey)) == 1
	}
	// SigV4: "AWS4-HMAC-SHA256 Credential=<accessKey>/..."
	return strings.Contains(auth, "Credential="+s.accessKey+"/")
}

func (s *Server) createBucket(w http.ResponseWriter, bucket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]object)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) putObject(w http.ResponseWriter, r *http.Request, bucket, key string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeS3Error(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}

	s.mu.Lock()
	b, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "bucket does not exist")
		return
	}
	etag := fmt.Sprintf("%x", len(body))
	b[key] = object{etag: etag, lastModifed: "2024-01-01T00:00:00.000Z"}
	s.mu.Unlock()

	if err := s.store.put(bucket+"/"+key, body); err != nil {
		writeS3Error(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}

	w.Header().Set("ETag", `"`+etag+`"`)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request, bucket, key string) {
	s.mu.Lock()
	b, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "bucket does not exist")
		return
	}
	obj, ok := b[key]
	s.mu.Unlock()
	if !ok {
		writeS3Error(w, http.StatusNotFound, "NoSuchKey", "key does not exist")
		return
	}

	full, err := s.store.get(bucket + "/" + key)
	if err != nil {
		writeS3Error(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}

	body := full
	status := http.StatusOK
	if rng := r.Header.Get("Range"); rng != "" {
		start, end, ok := parseRange(rng, len(body))
		if ok {
			body = body[start:end]
			status = http.StatusPartialContent
			w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, len(full)))
		}
	}
	w.Header().Set("ETag", `"`+obj.etag+`"`)
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}

// parseRange handles a single "bytes=start-end" range, the only form the
// client's GetFD.Range field ever produces.
func parseRange(header string, size int) (start, end int, ok bool) {
	header = strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(header, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(parts[0])
	endInclusive, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || start < 0 || endInclusive >= size || start > endInclusive {
		return 0, 0, false
	}
	return start, endInclusive + 1, true
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request, bucket string) {
	s.mu.Lock()
	b, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "bucket does not exist")
		return
	}
	keys := make([]string, 0, len(b))
	prefix := r.URL.Query().Get("prefix")
	for k := range b {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	maxKeys := len(keys)
	if mk, err := strconv.Atoi(r.URL.Query().Get("max-keys")); err == nil && mk > 0 && mk < maxKeys {
		maxKeys = mk
	}
	token := r.URL.Query().Get("continuation-token")
	start := 0
	if token != "" {
		for i, k := range keys {
			if k == token {
				start = i + 1
				break
			}
		}
	}
	end := start + maxKeys
	truncated := end < len(keys)
	if end > len(keys) {
		end = len(keys)
	}
	page := keys[start:end]

	var xmlBody strings.Builder
	xmlBody.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	xmlBody.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	fmt.Fprintf(&xmlBody, "<IsTruncated>%t</IsTruncated>", truncated)
	for _, k := range page {
		obj := b[k]
		size := 0
		if body, err := s.store.get(bucket + "/" + k); err == nil {
			size = len(body)
		}
		xmlBody.WriteString("<Contents>")
		fmt.Fprintf(&xmlBody, "<Key>%s</Key>", escapeXML(k))
		fmt.Fprintf(&xmlBody, "<Size>%d</Size>", size)
		fmt.Fprintf(&xmlBody, `<ETag>"%s"</ETag>`, obj.etag)
		fmt.Fprintf(&xmlBody, "<LastModified>%s</LastModified>", obj.lastModifed)
		xmlBody.WriteString("<StorageClass>STANDARD</StorageClass>")
		xmlBody.WriteString("</Contents>")
	}
	if truncated && len(page) > 0 {
		fmt.Fprintf(&xmlBody, "<NextContinuationToken>%s</NextContinuationToken>", page[len(page)-1])
	}
	xmlBody.WriteString("</ListBucketResult>")
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, xmlBody.String()) //nolint:errcheck
}

func (s *Server) deleteObjects(w http.ResponseWriter, r *http.Request, bucket string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeS3Error(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}
	keys := extractKeys(string(body))
	quiet := strings.Contains(string(body), "<Quiet>true</Quiet>")

	s.mu.Lock()
	b, ok := s.buckets[bucket]
	if !ok {
		s.mu.Unlock()
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket", "bucket does not exist")
		return
	}
	var deleted []string
	for _, k := range keys {
		if _, ok := b[k]; ok {
			delete(b, k)
			deleted = append(deleted, k)
		}
	}
	s.mu.Unlock()

	for _, k := range deleted {
		s.store.delete(bucket + "/" + k) //nolint:errcheck
	}

	var out strings.Builder
	out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	out.WriteString(`<DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
	if !quiet {
		for _, k := range deleted {
			fmt.Fprintf(&out, "<Deleted><Key>%s</Key></Deleted>", k)
		}
	}
	out.WriteString("</DeleteResult>")

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, out.String()) //nolint:errcheck
}

// extractKeys pulls every <Key>...</Key> value out of a Multi-Object
// Delete request body — a minimal mirror of xmlparse's substring scan,
// kept separate since this is server-side fixture code, not client code
// under test.
func extractKeys(body string) []string {
	var keys []string
	rest := body
	for {
		i := strings.Index(rest, "<Key>")
		if i == -1 {
			break
		}
		rest = rest[i+len("<Key>"):]
		j := strings.Index(rest, "</Key>")
		if j == -1 {
			break
		}
		keys = append(keys, rest[:j])
		rest = rest[j+len("</Key>"):]
	}
	return keys
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func writeS3Error(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, message)
	w.Write(buf.Bytes()) //nolint:errcheck
}
