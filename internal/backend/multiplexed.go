package backend

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/s3err"
	"github.com/zynqcloud/go-s3-client/internal/transport"
)

// Multiplexed admits many concurrent requests under connection-pool limits
// and drives each through a shared transport.Multi. Total admission is a
// single weighted semaphore; per-host admission is a second weighted
// semaphore created lazily per host, enforcing a MaxConnsPerHost cap on top
// of MaxTotalConns.
//
// Each admitted request holds one semaphore token + one goroutine in
// transport.Multi (~8 KB stack) for its lifetime. Sizing MaxTotalConns is
// the caller's job; this type only enforces the number it's given.
type Multiplexed struct {
	factory transport.Factory
	multi   transport.Multi

	total       *semaphore.Weighted
	perHostCap  int64
	hostSemMu   sync.Mutex
	hostSem     map[string]*semaphore.Weighted
	nextID      atomic.Uint64
	inFlight    prometheus.Gauge
	completions *prometheus.CounterVec
}

// NewMultiplexed builds a Multiplexed backend admitting at most
// maxTotalConns concurrent requests overall and maxConnsPerHost per host.
func NewMultiplexed(factory transport.Factory, multi transport.Multi, maxTotalConns, maxConnsPerHost int, reg prometheus.Registerer) *Multiplexed {
	m := &Multiplexed{
		factory:    factory,
		multi:      multi,
		total:      semaphore.NewWeighted(int64(maxTotalConns)),
		perHostCap: int64(maxConnsPerHost),
		hostSem:    make(map[string]*semaphore.Weighted),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "s3client",
			Subsystem: "multiplexed",
			Name:      "in_flight_requests",
			Help:      "Requests currently admitted and executing on the multiplexed backend.",
		}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "s3client",
			Subsystem: "multiplexed",
			Name:      "completions_total",
			Help:      "Completed multiplexed requests, labeled by outcome kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.inFlight, m.completions)
	}
	return m
}

func (m *Multiplexed) hostSemaphore(host string) *semaphore.Weighted {
	m.hostSemMu.Lock()
	defer m.hostSemMu.Unlock()
	sem, ok := m.hostSem[host]
	if !ok {
		sem = semaphore.NewWeighted(m.perHostCap)
		m.hostSem[host] = sem
	}
	return sem
}

func (m *Multiplexed) Execute(ctx context.Context, req *reqfactory.Prepared, limits reqfactory.Limits) Result {
	host := hostOf(req.URL)
	hostSem := m.hostSemaphore(host)

	if err := m.total.Acquire(ctx, 1); err != nil {
		return resultFor(req.RequestID, 0, err)
	}
	defer m.total.Release(1)

	if err := hostSem.Acquire(ctx, 1); err != nil {
		return resultFor(req.RequestID, 0, err)
	}
	defer hostSem.Release(1)

	m.inFlight.Inc()
	defer m.inFlight.Dec()

	easy, err := m.factory.NewEasy(toEasyConfig(req, limits))
	if err != nil {
		res := resultFor(req.RequestID, 0, err)
		m.completions.WithLabelValues(string(res.Err.Kind)).Inc()
		return res
	}

	id := m.nextID.Add(1)
	completion := <-m.multi.Register(ctx, id, easy)

	res := resultFor(req.RequestID, completion.Status, completion.Err)
	label := string(s3err.KindOK)
	if !res.Err.OK() {
		label = string(res.Err.Kind)
	}
	m.completions.WithLabelValues(label).Inc()
	return res
}

func (m *Multiplexed) Close() {
	m.multi.Close()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
