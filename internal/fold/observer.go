package fold

import "sync"

// AppState is the lifecycle state reported for an application.
type AppState int

const (
	AppStateForeground AppState = iota
	AppStateBackground
)

// ParseAppState maps "foreground" and "background"; anything else is
// reported as not ok.
func ParseAppState(s string) (AppState, bool) {
	switch s {
	case "foreground":
		return AppStateForeground, true
	case "background":
		return AppStateBackground, true
	default:
		return 0, false
	}
}

// ForegroundProvider reports the bundle currently in the foreground.
type ForegroundProvider interface {
	ForegroundApp() string
}

// AppStateObserver tracks the foreground application from lifecycle
// notifications.
type AppStateObserver struct {
	mu     sync.Mutex
	bundle string
}

func NewAppStateObserver() *AppStateObserver {
	return &AppStateObserver{}
}

// OnForegroundApplicationChanged records a lifecycle change. A background
// report only clears the foreground bundle when it names that bundle.
func (o *AppStateObserver) OnForegroundApplicationChanged(bundle string, state AppState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch state {
	case AppStateForeground:
		o.bundle = bundle
	case AppStateBackground:
		if o.bundle == bundle {
			o.bundle = ""
		}
	}
}

func (o *AppStateObserver) ForegroundApp() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bundle
}
