package sensor

import (
	"os"
	"strings"
)

// ScreenFile reports screen power from a file holding "1"/"on" or
// "0"/"off". A missing or unreadable file counts as on.
type ScreenFile struct {
	Path string
}

func (s ScreenFile) IsScreenOn() bool {
	if s.Path == "" {
		return true
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case "0", "off", "false":
		return false
	default:
		return true
	}
}
