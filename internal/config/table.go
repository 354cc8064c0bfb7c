package config

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/1broseidon/foldscreen/internal/geometry"
	"github.com/1broseidon/foldscreen/internal/svgpath"
)

// Table is the typed store for device configuration. It is filled once by
// the loader and read by the cutout controller, the fold display mode
// resolver and the fold state manager. Every getter returns a safe default
// when the entry is missing.
type Table struct {
	mu sync.RWMutex

	enable         map[string]bool
	numbers        map[string][]int
	stringVals     map[string]string
	stringLists    map[string][]string
	cutoutBoundary map[uint64][]geometry.Rect
	subCutout      []geometry.Rect
	displays       []DisplayConfig
	resolutions    []DisplayPhysicalResolution
	scrollable     map[FoldDisplayMode]ScrollableParam

	pocketFold       bool
	defaultDisplayID uint64
	logger           *slog.Logger
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithSinglePocketFold marks the device as a single-panel pocket foldable,
// which overrides the fold display mode lookup.
func WithSinglePocketFold(enabled bool) TableOption {
	return func(t *Table) { t.pocketFold = enabled }
}

// WithDefaultDisplayID sets the display that receives the default cutout
// path. It defaults to 0.
func WithDefaultDisplayID(id uint64) TableOption {
	return func(t *Table) { t.defaultDisplayID = id }
}

// WithTableLogger sets the logger used for configuration diagnostics.
func WithTableLogger(l *slog.Logger) TableOption {
	return func(t *Table) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTable returns an empty table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		enable:         make(map[string]bool),
		numbers:        make(map[string][]int),
		stringVals:     make(map[string]string),
		stringLists:    make(map[string][]string),
		cutoutBoundary: make(map[uint64][]geometry.Rect),
		scrollable:     make(map[FoldDisplayMode]ScrollableParam),
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsSinglePocketFold reports whether the pocket-fold override is active.
func (t *Table) IsSinglePocketFold() bool {
	return t.pocketFold
}

func (t *Table) SetEnable(name string, v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enable[name] = v
}

func (t *Table) SetNumbers(name string, v []int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.numbers[name] = slices.Clone(v)
}

func (t *Table) SetString(name, v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stringVals[name] = v
}

func (t *Table) SetStringList(name string, v []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stringLists[name] = slices.Clone(v)
}

func (t *Table) AddDisplay(d DisplayConfig) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.displays = append(t.displays, d)
}

func (t *Table) AddPhysicalResolution(r DisplayPhysicalResolution) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolutions = append(t.resolutions, r)
}

func (t *Table) SetScrollableParam(mode FoldDisplayMode, p ScrollableParam) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scrollable[mode] = p
}

// SetCutoutBoundary stores rects for displayID. Every call clears the
// boundaries of all displays first, so only the last display set survives.
func (t *Table) SetCutoutBoundary(displayID uint64, rects []geometry.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.cutoutBoundary)
	t.cutoutBoundary[displayID] = slices.Clone(rects)
}

// SetCutoutSvgPath computes the bounds of path and stores them as the cutout
// boundary of displayID. An empty path is ignored.
func (t *Table) SetCutoutSvgPath(displayID uint64, path string) {
	if path == "" {
		return
	}
	r := svgpath.Bounds(path)
	if r.IsNone() {
		t.logger.Warn("cutout path has no usable bounds", "display", displayID, "path", path)
	}
	t.SetCutoutBoundary(displayID, []geometry.Rect{r})
}

// GetCutoutBoundary returns the boundary rects for displayID.
func (t *Table) GetCutoutBoundary(displayID uint64) []geometry.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.cutoutBoundary[displayID])
}

// SetSubCutoutBoundary replaces the sub-display boundary.
func (t *Table) SetSubCutoutBoundary(rects []geometry.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subCutout = slices.Clone(rects)
}

// SetSubCutoutSvgPath stores the bounds of path as the sub-display boundary.
func (t *Table) SetSubCutoutSvgPath(path string) {
	if path == "" {
		return
	}
	r := svgpath.Bounds(path)
	if r.IsNone() {
		t.logger.Warn("sub cutout path has no usable bounds", "path", path)
	}
	t.SetSubCutoutBoundary([]geometry.Rect{r})
}

func (t *Table) GetSubCutoutBoundary() []geometry.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.subCutout)
}

// GetFoldDisplayMode resolves the fold display mode for a panel size. The
// configured resolutions are scanned in order and a swapped width/height
// also matches.
func (t *Table) GetFoldDisplayMode(width, height uint32) FoldDisplayMode {
	if t.pocketFold {
		// Pocket foldables ship resolution tables that do not match the
		// panels, so mode is derived from the aspect alone.
		if width == height {
			return FoldDisplayModeMain
		}
		return FoldDisplayModeFull
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.resolutions {
		if (r.PhysicalWidth == width && r.PhysicalHeight == height) ||
			(r.PhysicalWidth == height && r.PhysicalHeight == width) {
			return r.FoldDisplayMode
		}
	}
	return FoldDisplayModeUnknown
}

func (t *Table) GetEnableConfig() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]bool, len(t.enable))
	for k, v := range t.enable {
		out[k] = v
	}
	return out
}

// IsEnabled reports the enable flag called name, false when missing.
func (t *Table) IsEnabled(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enable[name]
}

func (t *Table) GetNumberConfig(name string) []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.numbers[name])
}

// GetNumberConfigValue returns the first number of name, or def.
func (t *Table) GetNumberConfigValue(name string, def uint32) uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.numbers[name]
	if !ok || len(v) == 0 {
		return def
	}
	return uint32(v[0])
}

// NumberConfigNames lists the number entries present, for dumps.
func (t *Table) NumberConfigNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.numbers))
	for k := range t.numbers {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (t *Table) GetStringConfig() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.stringVals))
	for k, v := range t.stringVals {
		out[k] = v
	}
	return out
}

func (t *Table) GetStringConfigValue(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stringVals[name]
}

func (t *Table) GetStringListConfig() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string][]string, len(t.stringLists))
	for k, v := range t.stringLists {
		out[k] = slices.Clone(v)
	}
	return out
}

func (t *Table) GetStringListConfigValue(name string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.stringLists[name])
}

func (t *Table) GetDisplays() []DisplayConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.displays)
}

func (t *Table) GetPhysicalResolutions() []DisplayPhysicalResolution {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.resolutions)
}

func (t *Table) GetScrollableParams() map[FoldDisplayMode]ScrollableParam {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[FoldDisplayMode]ScrollableParam, len(t.scrollable))
	for k, v := range t.scrollable {
		out[k] = v
	}
	return out
}

func (t *Table) GetScrollableParam(mode FoldDisplayMode) (ScrollableParam, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.scrollable[mode]
	return p, ok
}

func (t *Table) IsWaterfallDisplay() bool {
	return t.IsEnabled(KeyIsWaterfallDisplay)
}

// IsWaterfallAreaCompressionEnableWhenHorizontal requires the waterfall flag
// as well as the compression flag.
func (t *Table) IsWaterfallAreaCompressionEnableWhenHorizontal() bool {
	return t.IsWaterfallDisplay() && t.IsEnabled(KeyIsWaterfallAreaCompressionEnableWhenHorizontal)
}

// GetCurvedCompressionAreaInLandscape returns the compression size applied to
// curved edges in landscape, or 0 when compression is off.
func (t *Table) GetCurvedCompressionAreaInLandscape() uint32 {
	if !t.IsWaterfallAreaCompressionEnableWhenHorizontal() {
		t.logger.Debug("waterfall compression disabled")
		return 0
	}
	return t.GetNumberConfigValue(KeyWaterfallAreaCompressionSizeWhenHorzontal, 0)
}

func (t *Table) GetCurvedScreenBoundaryConfig() []int {
	return t.GetNumberConfig(KeyCurvedScreenBoundary)
}

func (t *Table) IsSupportRotateWithSensor() bool {
	return t.IsEnabled(KeySupportRotateWithSensor)
}

func (t *Table) GetExternalScreenDefaultMode() string {
	return t.GetStringConfigValue(KeyExternalScreenDefaultMode)
}

func (t *Table) GetOffScreenPPIThreshold() uint32 {
	return t.GetNumberConfigValue(KeyOffScreenPPIThreshold, 0)
}

func (t *Table) IsSupportOffScreenRendering() bool {
	return t.IsEnabled(KeyIsSupportOffScreenRendering)
}

func (t *Table) IsSupportDuringCall() bool {
	return t.IsEnabled(KeySupportDuringCall)
}

func (t *Table) IsConcurrentUser() bool {
	return t.IsEnabled(KeyConcurrentUser)
}

func (t *Table) IsSupportCapture() bool {
	return t.IsEnabled(KeyIsSupportCapture)
}

func (t *Table) IsRightPowerButton() bool {
	return t.IsEnabled(KeyIsRightPowerButton)
}

func (t *Table) GetDefaultDeviceRotationOffset() uint32 {
	return t.GetNumberConfigValue(KeyDefaultDeviceRotationOffset, 0)
}

func (t *Table) GetBuildInDefaultOrientation() uint32 {
	return t.GetNumberConfigValue(KeyBuildInDefaultOrientation, 0)
}

func (t *Table) GetHallSwitchApps() []string {
	return t.GetStringListConfigValue(KeyHallSwitchApp)
}
