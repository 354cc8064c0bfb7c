package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/fold"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

const deviceXML = `<?xml version="1.0" encoding="utf-8"?>
<Configs>
  <isWaterfallDisplay enable="true"></isWaterfallDisplay>
  <curvedScreenBoundary>10 20 30 40</curvedScreenBoundary>
  <halfFoldMaxThreshold>150</halfFoldMaxThreshold>
  <hallSwitchApp>
    <bundleName>com.example.video</bundleName>
  </hallSwitchApp>
</Configs>
`

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	dir := t.TempDir()
	s := config.DefaultSettings()
	s.XMLConfig = filepath.Join(dir, "display_manager_config.xml")
	require.NoError(t, os.WriteFile(s.XMLConfig, []byte(deviceXML), 0644))
	s.HTTP.Listen = ""
	s.Display = config.DisplaySettings{
		Source:       config.DisplaySourceStatic,
		Width:        400,
		Height:       800,
		PollInterval: 10 * time.Millisecond,
	}
	s.Sensor.AnglePath = filepath.Join(dir, "angle")
	s.Sensor.HallPath = filepath.Join(dir, "hall")
	s.Sensor.PollInterval = 10 * time.Millisecond
	require.NoError(t, os.WriteFile(s.Sensor.HallPath, []byte("1\n"), 0644))
	require.NoError(t, os.WriteFile(s.Sensor.AnglePath, []byte("170\n"), 0644))
	return s
}

type running struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func startDaemon(t *testing.T, d *Daemon) *running {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{cancel: cancel, done: make(chan struct{})}
	go func() {
		r.err = d.Run(ctx)
		close(r.done)
	}()
	t.Cleanup(func() {
		cancel()
		<-r.done
	})
	return r
}

func TestNew_RequiresSettings(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_MissingXMLUsesEmptyTable(t *testing.T) {
	s := testSettings(t)
	s.XMLConfig = filepath.Join(t.TempDir(), "missing.xml")
	reg := prometheus.NewRegistry()

	d, err := New(Config{Settings: s, Registry: reg})
	require.NoError(t, err)
	assert.Nil(t, d.Server())
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ConfigLoadErrors.WithLabelValues("xml")))
}

func TestNew_MalformedXMLFails(t *testing.T) {
	s := testSettings(t)
	require.NoError(t, os.WriteFile(s.XMLConfig, []byte("<Configs><broken"), 0644))
	_, err := New(Config{Settings: s})
	assert.Error(t, err)
}

func TestNew_AxisPolicyUsesTableThresholds(t *testing.T) {
	s := testSettings(t)
	s.Policy = config.PolicyAxis
	d, err := New(Config{Settings: s})
	require.NoError(t, err)
	assert.Equal(t, "axis", d.Fold().Snapshot().Policy)
}

func TestRun_DrivesFoldAndDisplays(t *testing.T) {
	s := testSettings(t)
	d, err := New(Config{Settings: s})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool {
		return d.Fold().Status() == fold.StatusExpand
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(d.Monitor().Displays()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	st := d.Monitor().Displays()[0]
	assert.Equal(t, geometry.Rect{PosY: 760, Width: 400, Height: 40}, st.Cutout.Waterfall.Bottom)

	require.NoError(t, os.WriteFile(s.Sensor.AnglePath, []byte("100\n"), 0644))
	require.Eventually(t, func() bool {
		return d.Fold().Status() == fold.StatusHalfFold
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRun_RotationSensorTurnsDisplay(t *testing.T) {
	s := testSettings(t)
	xml := strings.Replace(deviceXML, "<Configs>",
		`<Configs><supportRotateWithSensor enable="true"></supportRotateWithSensor>`, 1)
	require.NoError(t, os.WriteFile(s.XMLConfig, []byte(xml), 0644))
	s.Sensor.RotationPath = filepath.Join(filepath.Dir(s.Sensor.AnglePath), "rotation")
	require.NoError(t, os.WriteFile(s.Sensor.RotationPath, []byte("1\n"), 0644))

	d, err := New(Config{Settings: s})
	require.NoError(t, err)
	startDaemon(t, d)

	require.Eventually(t, func() bool {
		ds := d.Monitor().Displays()
		return len(ds) == 1 && ds[0].Display.Rotation == geometry.Rotation90
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, uint32(40), d.Monitor().Displays()[0].Cutout.Waterfall.Left.Width)
}

func TestRun_SecondInstanceFails(t *testing.T) {
	s := testSettings(t)
	first, err := New(Config{Settings: s})
	require.NoError(t, err)
	startDaemon(t, first)

	require.Eventually(t, func() bool {
		return len(first.Monitor().Displays()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	second, err := New(Config{Settings: s})
	require.NoError(t, err)
	assert.ErrorIs(t, second.Run(context.Background()), ErrAlreadyRunning)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := testSettings(t)
	d, err := New(Config{Settings: s})
	require.NoError(t, err)
	r := startDaemon(t, d)

	r.cancel()
	select {
	case <-r.done:
		assert.NoError(t, r.err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestReload_PicksUpNewTable(t *testing.T) {
	s := testSettings(t)
	d, err := New(Config{Settings: s})
	require.NoError(t, err)
	d.Monitor().PollNow()
	assert.False(t, d.Monitor().Displays()[0].Cutout.Waterfall.IsEmpty())

	require.NoError(t, os.WriteFile(s.XMLConfig, []byte("<Configs></Configs>"), 0644))
	require.NoError(t, d.Reload())
	assert.True(t, d.Monitor().Displays()[0].Cutout.Waterfall.IsEmpty())
}
