package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from, e.g.
//
//	device
//	thresholds.expand
//	sensor.poll_interval
//	display
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Settings == nil {
		return nil, Source{}, fmt.Errorf("no settings loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Settings, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// lookupValue walks the YAML form of s so every settings key is reachable
// by the same name the file uses.
func lookupValue(s *Settings, path string) (any, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	var cur any
	if err := yaml.Unmarshal(data, &cur); err != nil {
		return nil, err
	}
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}
	return cur, nil
}

// FormatSource renders a source for CLI output.
func FormatSource(src Source) string {
	switch src.Kind {
	case SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
