package fold

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/1broseidon/foldscreen/internal/metrics"
)

// DefaultHallDebounce is the minimum spacing between two hall reports.
const DefaultHallDebounce = 100 * time.Millisecond

// Transition describes a fold status change.
type Transition struct {
	From  Status    `json:"from"`
	To    Status    `json:"to"`
	Angle float64   `json:"angle"`
	Hall  int       `json:"hall"`
	At    time.Time `json:"at"`
}

// Snapshot is a consistent view of the manager state.
type Snapshot struct {
	Status        Status  `json:"status"`
	HallSwitchApp bool    `json:"hallSwitchApp"`
	TentMode      bool    `json:"tentMode"`
	LastAngle     float64 `json:"lastAngle"`
	LastHall      int     `json:"lastHall"`
	Policy        string  `json:"policy"`
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	// Policy defaults to a DualPolicy with DefaultThresholds.
	Policy Policy
	// HallSwitchApps lists bundles that suppress hall-driven changes while
	// in the foreground.
	HallSwitchApps []string
	Foreground     ForegroundProvider
	// Power defaults to AlwaysOn.
	Power        PowerState
	HallDebounce time.Duration
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// Manager is the fold state machine. All handlers are safe for concurrent
// use; state is guarded by one mutex and listeners run after it is released.
type Manager struct {
	policy     Policy
	apps       []string
	foreground ForegroundProvider
	power      PowerState
	logger     *slog.Logger
	metrics    *metrics.Metrics

	hallMu  sync.Mutex
	limiter *rate.Limiter

	mu            sync.Mutex
	status        Status
	hallSwitchApp bool
	tent          bool
	lastAngle     float64
	lastHall      int
	listeners     []func(Transition)
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		policy:        opts.Policy,
		apps:          slices.Clone(opts.HallSwitchApps),
		foreground:    opts.Foreground,
		power:         opts.Power,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		hallSwitchApp: true,
		lastHall:      HallOpen,
	}
	if m.policy == nil {
		m.policy = NewDualPolicy(DefaultThresholds())
	}
	if m.power == nil {
		m.power = AlwaysOn{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.HallDebounce
	if debounce <= 0 {
		debounce = DefaultHallDebounce
	}
	m.limiter = rate.NewLimiter(rate.Every(debounce), 1)
	return m
}

// OnChange registers fn to be called after every status transition.
func (m *Manager) OnChange(fn func(Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) IsHallSwitchApp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hallSwitchApp
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Status:        m.status,
		HallSwitchApp: m.hallSwitchApp,
		TentMode:      m.tent,
		LastAngle:     m.lastAngle,
		LastHall:      m.lastHall,
		Policy:        m.policy.Name(),
	}
}

// ComputeTargetState returns the status the policy would move to for angle
// without changing anything.
func (m *Manager) ComputeTargetState(angle float64) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, _ := m.policy.Next(m.status, angle, m.lastHall, m.hallSwitchApp)
	return next
}

// HandleAngleChange processes a hinge angle report.
func (m *Manager) HandleAngleChange(angle float64, hall int) {
	m.mu.Lock()
	m.lastAngle = angle
	if m.tent {
		t, ok := m.tentSensorChangeLocked(angle, hall)
		m.mu.Unlock()
		if ok {
			m.notify(t)
		}
		return
	}
	eval, reason := m.policy.FilterAngle(angle, hall)
	if reason != "" {
		m.mu.Unlock()
		m.ignore(reason, angle, hall)
		return
	}
	t, ok := m.decideLocked(eval, hall)
	m.mu.Unlock()
	if ok {
		m.notify(t)
	}
}

// HandleHallChange processes a hall sensor report. Reports arriving within
// the debounce interval of the previous one wait for the remainder; if ctx
// ends first the report is dropped and ctx.Err() is returned.
func (m *Manager) HandleHallChange(ctx context.Context, angle float64, hall int) error {
	m.hallMu.Lock()
	defer m.hallMu.Unlock()

	now := time.Now()
	r := m.limiter.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		m.metrics.RecordDebounceWait()
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.CancelAt(now)
			return ctx.Err()
		case <-timer.C:
		}
	}

	m.mu.Lock()
	m.lastHall = hall
	if m.tent {
		t, ok := m.tentSensorChangeLocked(angle, hall)
		m.mu.Unlock()
		if ok {
			m.notify(t)
		}
		return nil
	}
	if m.suppressedByForegroundApp(hall) {
		m.hallSwitchApp = false
		m.mu.Unlock()
		m.ignore(ReasonHallSwitchApp, angle, hall)
		return nil
	}
	t, ok := m.decideLocked(m.policy.HallAngle(angle, hall), hall)
	m.mu.Unlock()
	if ok {
		m.notify(t)
	}
	return nil
}

func (m *Manager) suppressedByForegroundApp(hall int) bool {
	if m.foreground == nil || hall != HallOpen || !m.power.IsScreenOn() {
		return false
	}
	return slices.Contains(m.apps, m.foreground.ForegroundApp())
}

// HandleTentChange enters or leaves tent mode. Entering forces the folded
// status. Leaving recomputes the status from the last angle and hall, or
// the last recorded hall when hall is HallUnchanged.
func (m *Manager) HandleTentChange(on bool, hall int) {
	m.mu.Lock()
	if on == m.tent {
		m.mu.Unlock()
		m.logger.Debug("repeated tent mode report", "tent", on)
		return
	}
	m.tent = on

	var (
		t  Transition
		ok bool
	)
	if on {
		m.logger.Info("entering tent mode")
		t, ok = m.applyLocked(StatusFolded, m.lastAngle, m.lastHall)
	} else {
		if hall == HallFolded {
			m.lastAngle = 0
		}
		if hall == HallUnchanged {
			hall = m.lastHall
		}
		m.logger.Info("leaving tent mode", "angle", m.lastAngle, "hall", hall)
		t, ok = m.decideLocked(m.lastAngle, hall)
	}
	m.mu.Unlock()
	if ok {
		m.notify(t)
	}
}

// tentSensorChangeLocked leaves tent mode when the event says the device is
// no longer propped up, otherwise the event is dropped.
func (m *Manager) tentSensorChangeLocked(angle float64, hall int) (Transition, bool) {
	if !m.policy.ExitsTent(angle, hall) {
		m.metrics.RecordIgnored(ReasonTentModeIgnored)
		return Transition{}, false
	}
	m.tent = false
	m.logger.Info("exit tent mode", "angle", angle, "hall", hall)
	return m.decideLocked(angle, hall)
}

// decideLocked feeds the reading to stateful policies and applies the
// target status. Only a matched threshold refreshes the hall switch flag; a
// kept status leaves it as it was.
func (m *Manager) decideLocked(angle float64, hall int) (Transition, bool) {
	if o, ok := m.policy.(Observer); ok {
		o.Observe(angle, hall)
	}
	next, matched := m.policy.Next(m.status, angle, hall, m.hallSwitchApp)
	if matched {
		m.hallSwitchApp = true
	}
	return m.applyLocked(next, angle, hall)
}

func (m *Manager) applyLocked(next Status, angle float64, hall int) (Transition, bool) {
	if next == m.status {
		return Transition{}, false
	}
	t := Transition{From: m.status, To: next, Angle: angle, Hall: hall, At: time.Now()}
	m.status = next
	return t, true
}

func (m *Manager) notify(t Transition) {
	m.logger.Info("fold status changed", "from", t.From.String(), "to", t.To.String(), "angle", t.Angle, "hall", t.Hall)
	m.metrics.RecordTransition(t.From.String(), t.To.String())
	m.metrics.SetFoldStatus(int(t.To))

	m.mu.Lock()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(t)
	}
}

func (m *Manager) ignore(reason string, angle float64, hall int) {
	m.logger.Debug("ignoring sensor event", "reason", reason, "angle", angle, "hall", hall)
	m.metrics.RecordIgnored(reason)
}
