package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// httpFactory builds Easy handles backed by one shared *http.Client, so
// connection pooling (keep-alives) is shared across every request a
// backend issues — the Go equivalent of curl's connection-pool reuse.
type httpFactory struct {
	client *http.Client
}

// NewHTTPFactory builds a Factory whose http.Transport enforces
// maxConnsPerHost and maxIdleConns.
func NewHTTPFactory(maxTotalConns, maxConnsPerHost int, idlePoll time.Duration) Factory {
	tr := &http.Transport{
		MaxConnsPerHost:       maxConnsPerHost,
		MaxIdleConns:          maxTotalConns,
		MaxIdleConnsPerHost:   maxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 0, // per-request timeout applied via context instead
	}
	return &httpFactory{client: &http.Client{Transport: tr}}
}

func (f *httpFactory) NewEasy(cfg EasyConfig) (Easy, error) {
	return &httpEasy{client: f.client, cfg: cfg}, nil
}

type httpEasy struct {
	client *http.Client
	cfg    EasyConfig
}

func (e *httpEasy) Do(ctx context.Context) (int, error) {
	deadline := e.cfg.RequestTimeout
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, e.cfg.Method, e.cfg.URL, e.cfg.Body)
	if err != nil {
		return 0, err
	}
	if e.cfg.Headers != nil {
		req.Header = e.cfg.Headers.Clone()
	}
	if e.cfg.BodySize >= 0 {
		req.ContentLength = e.cfg.BodySize
	}

	client := e.effectiveClient()

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if e.cfg.WriteTo != nil {
		if _, err := io.Copy(e.cfg.WriteTo, resp.Body); err != nil {
			return resp.StatusCode, err
		}
	} else {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
	}

	return resp.StatusCode, nil
}

// effectiveClient returns the shared client, or a per-request one when
// per-request TLS/proxy overrides were set, so the common case keeps using
// the shared connection pool.
func (e *httpEasy) effectiveClient() *http.Client {
	if !e.cfg.TLSInsecureSkipVerify && !e.cfg.DisableHostnameCheck && e.cfg.Proxy == "" && e.cfg.CAFile == "" && e.cfg.CAPath == "" {
		return e.client
	}

	base, _ := e.client.Transport.(*http.Transport)
	tr := base.Clone()
	tr.TLSClientConfig = e.buildTLSConfig()
	if e.cfg.Proxy != "" {
		if proxyURL, err := url.Parse(e.cfg.Proxy); err == nil {
			tr.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Client{Transport: tr, Timeout: e.client.Timeout}
}

// buildTLSConfig turns the easy handle's CAFile/CAPath/DisableHostnameCheck
// settings into an actual tls.Config: a custom root pool when a CA is
// pinned, and a certificate-chain check that skips only the hostname match
// when DisableHostnameCheck is set (plain InsecureSkipVerify would also
// skip chain validation, which is stronger than asked for).
func (e *httpEasy) buildTLSConfig() *tls.Config {
	cfg := &tls.Config{InsecureSkipVerify: e.cfg.TLSInsecureSkipVerify} //nolint:gosec // opt-in via Flags.DisableTLSPeerVerify

	var roots *x509.CertPool
	if e.cfg.CAFile != "" || e.cfg.CAPath != "" {
		roots = loadRootCAs(e.cfg.CAFile, e.cfg.CAPath)
		cfg.RootCAs = roots
	}

	if e.cfg.TLSInsecureSkipVerify {
		return cfg
	}

	if e.cfg.DisableHostnameCheck {
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			return verifyChainWithoutHostname(rawCerts, roots)
		}
	}

	return cfg
}

// verifyChainWithoutHostname validates the peer's certificate chain against
// roots (or the system pool, if roots is nil) without matching the
// connection's server name against the leaf certificate.
func verifyChainWithoutHostname(rawCerts [][]byte, roots *x509.CertPool) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificate presented")
	}
	certs := make([]*x509.Certificate, len(rawCerts))
	for i, raw := range rawCerts {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return fmt.Errorf("parse peer certificate: %w", err)
		}
		certs[i] = cert
	}

	intermediates := x509.NewCertPool()
	for _, cert := range certs[1:] {
		intermediates.AddCert(cert)
	}
	_, err := certs[0].Verify(x509.VerifyOptions{Roots: roots, Intermediates: intermediates})
	return err
}

// loadRootCAs builds a cert pool from a single PEM file (caFile), a
// directory of PEM files (caPath), or both. It falls back to a pool seeded
// from the system roots on any read error, so a misconfigured path degrades
// to default verification rather than accepting everything.
func loadRootCAs(caFile, caPath string) *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}

	if caFile != "" {
		if pem, err := os.ReadFile(caFile); err == nil {
			pool.AppendCertsFromPEM(pem)
		}
	}

	if caPath != "" {
		entries, err := os.ReadDir(caPath)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if pem, err := os.ReadFile(filepath.Join(caPath, entry.Name())); err == nil {
					pool.AppendCertsFromPEM(pem)
				}
			}
		}
	}

	return pool
}

// multi spawns one goroutine per registered Easy — the Go reading of
// curl-multi's non-blocking perform/poll loop, documented in DESIGN.md.
type multi struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewMulti builds a Multi.
func NewMulti() Multi { return &multi{} }

func (m *multi) Register(ctx context.Context, id uint64, easy Easy) <-chan Completion {
	out := make(chan Completion, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		out <- Completion{ID: id, Err: context.Canceled}
		close(out)
		return out
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		status, err := easy.Do(ctx)
		out <- Completion{ID: id, Status: status, Err: err}
		close(out)
	}()

	return out
}

func (m *multi) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wg.Wait()
}
