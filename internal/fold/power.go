package fold

// PowerState reports whether the screen is lit.
type PowerState interface {
	IsScreenOn() bool
}

// AlwaysOn is a PowerState for hosts without a screen power signal.
type AlwaysOn struct{}

func (AlwaysOn) IsScreenOn() bool { return true }
