package config

// FoldDisplayMode is the logical arrangement of a foldable device's panels.
type FoldDisplayMode uint32

const (
	FoldDisplayModeUnknown FoldDisplayMode = iota
	FoldDisplayModeFull
	FoldDisplayModeMain
	FoldDisplayModeSub
	FoldDisplayModeCoordination
	FoldDisplayModeGlobalFull
)

const foldDisplayModePrefix = "FOLD_DISPLAY_MODE_"

func (m FoldDisplayMode) String() string {
	switch m {
	case FoldDisplayModeFull:
		return "full"
	case FoldDisplayModeMain:
		return "main"
	case FoldDisplayModeSub:
		return "sub"
	case FoldDisplayModeCoordination:
		return "coordination"
	case FoldDisplayModeGlobalFull:
		return "global_full"
	default:
		return "unknown"
	}
}

// MarshalText renders the mode in its short lower-case form.
func (m FoldDisplayMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseFoldDisplayMode accepts the short form used on the command line
// ("full", "main", ...). Unrecognised names map to Unknown.
func ParseFoldDisplayMode(s string) FoldDisplayMode {
	switch s {
	case "full":
		return FoldDisplayModeFull
	case "main":
		return FoldDisplayModeMain
	case "sub":
		return FoldDisplayModeSub
	case "coordination":
		return FoldDisplayModeCoordination
	case "global_full":
		return FoldDisplayModeGlobalFull
	default:
		return FoldDisplayModeUnknown
	}
}

// resolutionDisplayMode maps a physicalDisplayResolution displayMode
// attribute. Matching is case-sensitive.
func resolutionDisplayMode(attr string) FoldDisplayMode {
	switch attr {
	case foldDisplayModePrefix + "FULL":
		return FoldDisplayModeFull
	case foldDisplayModePrefix + "MAIN":
		return FoldDisplayModeMain
	case foldDisplayModePrefix + "SUB":
		return FoldDisplayModeSub
	case foldDisplayModePrefix + "GLOBAL_FULL":
		return FoldDisplayModeGlobalFull
	default:
		return FoldDisplayModeUnknown
	}
}

// scrollableDisplayMode maps a scrollableParam displayMode attribute.
func scrollableDisplayMode(attr string) FoldDisplayMode {
	switch attr {
	case foldDisplayModePrefix + "FULL":
		return FoldDisplayModeFull
	case foldDisplayModePrefix + "MAIN":
		return FoldDisplayModeMain
	case foldDisplayModePrefix + "SUB":
		return FoldDisplayModeSub
	case foldDisplayModePrefix + "COORDINATION":
		return FoldDisplayModeCoordination
	default:
		return FoldDisplayModeUnknown
	}
}
