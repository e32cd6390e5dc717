package health

import (
	"context"
	"sync"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

// DefaultTimeout bounds a probe when the caller does not supply a timeout.
const DefaultTimeout = 5 * time.Second

// Prober performs one reachability check. A nil error means connected.
type Prober interface {
	Ping(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Ping(ctx context.Context) error { return f(ctx) }

type Monitor struct {
	prober         Prober
	log            logging.Logger
	now            func() time.Time
	defaultTimeout time.Duration

	mu          sync.Mutex
	started     uint64
	recordedSeq uint64
	status      models.ConnectionStatus
}

// Option configures NewMonitor.
type Option func(*Monitor)

// WithDefaultTimeout sets the deadline used when Check gets a non-positive
// timeout. Non-positive values are ignored.
func WithDefaultTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.defaultTimeout = d
		}
	}
}

// WithClock overrides time.Now for CheckedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func NewMonitor(p Prober, log logging.Logger, opts ...Option) *Monitor {
	if log == nil {
		log = logging.Nop()
	}
	m := &Monitor{
		prober:         p,
		log:            log,
		now:            time.Now,
		defaultTimeout: DefaultTimeout,
		status:         models.ConnectionStatus{State: models.StateUnknown, FallbackActive: true},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Check probes the remote service, waiting at most timeout (the monitor's
// default when timeout <= 0).
func (m *Monitor) Check(ctx context.Context, timeout time.Duration) models.ConnectionStatus {
	if timeout <= 0 {
		timeout = m.defaultTimeout
	}

	m.mu.Lock()
	m.started++
	seq := m.started
	m.mu.Unlock()

	probeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so the probe goroutine never blocks after losing the race.
	result := make(chan error, 1)
	go func() {
		result <- m.prober.Ping(probeCtx)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var st models.ConnectionStatus
	select {
	case err := <-result:
		if err != nil {
			st = models.NewConnectionStatus(models.StateDisconnected, m.now(), err.Error())
		} else {
			st = models.NewConnectionStatus(models.StateConnected, m.now(), "")
		}
	case <-timer.C:
		st = models.NewConnectionStatus(models.StateDisconnected, m.now(), common.ErrProbeTimeout.Error())
	case <-ctx.Done():
		st = models.NewConnectionStatus(models.StateDisconnected, m.now(), ctx.Err().Error())
	}

	m.record(ctx, seq, st)
	return st
}

// record stores st unless a check that started later has already recorded.
func (m *Monitor) record(ctx context.Context, seq uint64, st models.ConnectionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seq < m.recordedSeq {
		m.log.Debug(ctx, "discarding stale probe result", "seq", seq, "state", st.State)
		return
	}
	if m.status.State != st.State {
		m.log.Info(ctx, "connection state changed", "from", m.status.State, "to", st.State, "detail", st.Detail)
	}
	m.recordedSeq = seq
	m.status = st
}

// Status returns the last recorded status. Before the first check the state
// is StateUnknown.
func (m *Monitor) Status() models.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Watch checks immediately and then every interval until ctx is done,
// calling fn whenever the state differs from the previous check.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration, fn func(prev, cur models.ConnectionStatus)) {
	prev := m.Status()
	tick := func() {
		cur := m.Check(ctx, 0)
		if ctx.Err() != nil {
			return
		}
		if cur.State != prev.State && fn != nil {
			fn(prev, cur)
		}
		prev = cur
	}

	tick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return
		}
	}
}
