package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/1broseidon/foldscreen/internal/geometry"
)

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<Configs>
    <isWaterfallDisplay enable="true"></isWaterfallDisplay>
    <isWaterfallAreaCompressionEnableWhenHorizontal enable="false"></isWaterfallAreaCompressionEnableWhenHorizontal>
    <supportRotateWithSensor></supportRotateWithSensor>
    <dpi>480</dpi>
    <curvedScreenBoundary>10 20 30 40</curvedScreenBoundary>
    <subDpi>4x0</subDpi>
    <defaultDisplayCutoutPath>M 507 18 L 573 18 L 573 84 L 507 84 Z</defaultDisplayCutoutPath>
    <rotationPolicy> 11 </rotationPolicy>
    <hallSwitchApp>
        <bundleName>com.example.camera</bundleName>
        <bundleName> com.example.video </bundleName>
    </hallSwitchApp>
    <physicalDisplayResolution displayMode="FOLD_DISPLAY_MODE_FULL">2224:2496</physicalDisplayResolution>
    <physicalDisplayResolution displayMode="FOLD_DISPLAY_MODE_MAIN">1344:2772</physicalDisplayResolution>
    <physicalDisplayResolution displayMode="FOLD_DISPLAY_MODE_COORDINATION">1:2</physicalDisplayResolution>
    <physicalDisplayResolution displayMode="FOLD_DISPLAY_MODE_SUB">wide:tall</physicalDisplayResolution>
    <physicalDisplayResolution displayMode="FOLD_DISPLAY_MODE_SUB">1:2:3</physicalDisplayResolution>
    <scrollableParam displayMode="FOLD_DISPLAY_MODE_COORDINATION">1.2:0.8</scrollableParam>
    <displays>
        <display>
            <physicalId>0</physicalId>
            <logicalId>x</logicalId>
            <name>main</name>
            <dpi>480</dpi>
            <flags>
                <flag type="broken"></flag>
                <flag type="refresh" value="120"></flag>
                <flag type="late" value="1"></flag>
            </flags>
        </display>
    </displays>
    <somethingElse>ignored</somethingElse>
</Configs>`

func loadSample(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	if err := LoadXML(strings.NewReader(sampleXML), tbl); err != nil {
		t.Fatalf("load: %v", err)
	}
	return tbl
}

func TestLoadXML_Enables(t *testing.T) {
	tbl := loadSample(t)
	if !tbl.IsWaterfallDisplay() {
		t.Fatalf("expected isWaterfallDisplay to be true")
	}
	enables := tbl.GetEnableConfig()
	if v, ok := enables[KeyIsWaterfallAreaCompressionEnableWhenHorizontal]; !ok || v {
		t.Fatalf("expected compression flag present and false, got %v %v", v, ok)
	}
	if _, ok := enables[KeySupportRotateWithSensor]; ok {
		t.Fatalf("expected enable node without attribute to be skipped")
	}
}

func TestLoadXML_Numbers(t *testing.T) {
	tbl := loadSample(t)
	if got := tbl.GetCurvedScreenBoundaryConfig(); !slices.Equal(got, []int{10, 20, 30, 40}) {
		t.Fatalf("unexpected curved boundary %v", got)
	}
	if got := tbl.GetNumberConfig(KeySubDPI); got != nil {
		t.Fatalf("expected malformed subDpi to be dropped, got %v", got)
	}
}

func TestLoadXML_StringsAndLists(t *testing.T) {
	tbl := loadSample(t)
	if got := tbl.GetStringConfigValue(KeyRotationPolicy); got != "11" {
		t.Fatalf("expected trimmed rotation policy, got %q", got)
	}
	want := []string{"com.example.camera", "com.example.video"}
	if got := tbl.GetHallSwitchApps(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadXML_Resolutions(t *testing.T) {
	tbl := loadSample(t)
	got := tbl.GetPhysicalResolutions()
	want := []DisplayPhysicalResolution{
		{FoldDisplayMode: FoldDisplayModeFull, PhysicalWidth: 2224, PhysicalHeight: 2496},
		{FoldDisplayMode: FoldDisplayModeMain, PhysicalWidth: 1344, PhysicalHeight: 2772},
		{FoldDisplayMode: FoldDisplayModeUnknown, PhysicalWidth: 1, PhysicalHeight: 2},
		{FoldDisplayMode: FoldDisplayModeSub},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if mode := tbl.GetFoldDisplayMode(2772, 1344); mode != FoldDisplayModeMain {
		t.Fatalf("expected main, got %v", mode)
	}
}

func TestLoadXML_ScrollableParam(t *testing.T) {
	tbl := loadSample(t)
	p, ok := tbl.GetScrollableParam(FoldDisplayModeCoordination)
	if !ok {
		t.Fatalf("expected coordination scrollable param")
	}
	if p.VelocityScale != "1.2" || p.Friction != "0.8" {
		t.Fatalf("unexpected param %+v", p)
	}
}

func TestLoadXML_ScrollableParamNotNumeric(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(WithTableLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	doc := `<Configs><scrollableParam displayMode="FOLD_DISPLAY_MODE_FULL">1.5:fast</scrollableParam></Configs>`
	if err := LoadXML(strings.NewReader(doc), tbl); err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := tbl.GetScrollableParam(FoldDisplayModeFull)
	if !ok || p.Friction != "fast" {
		t.Fatalf("expected the param kept verbatim, got %+v", p)
	}
	if !strings.Contains(buf.String(), "friction is not a number") {
		t.Fatalf("expected a friction warning, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "velocityScale is not a number") {
		t.Fatalf("unexpected velocityScale warning: %q", buf.String())
	}
}

func TestLoadXML_Displays(t *testing.T) {
	tbl := loadSample(t)
	displays := tbl.GetDisplays()
	if len(displays) != 1 {
		t.Fatalf("expected 1 display, got %d", len(displays))
	}
	d := displays[0]
	if d.LogicalID != 0 || d.Name != "main" || d.DPI != 480 {
		t.Fatalf("unexpected display %+v", d)
	}
	if !d.HasFlag || d.Flag != (DisplayFlag{Type: "refresh", Value: 120}) {
		t.Fatalf("expected first complete flag, got %+v", d.Flag)
	}
}

func TestLoadXML_DisplayOutOfRangeValues(t *testing.T) {
	const doc = `<Configs>
    <displays>
        <display>
            <physicalId>1</physicalId>
            <dpi>99999999999</dpi>
            <flags>
                <flag type="refresh" value="-99999999999"></flag>
            </flags>
        </display>
    </displays>
</Configs>`
	tbl := NewTable()
	if err := LoadXML(strings.NewReader(doc), tbl); err != nil {
		t.Fatalf("load: %v", err)
	}
	displays := tbl.GetDisplays()
	if len(displays) != 1 {
		t.Fatalf("expected 1 display, got %d", len(displays))
	}
	d := displays[0]
	if d.PhysicalID != 1 || d.DPI != 0 {
		t.Fatalf("expected out of range dpi to read as 0, got %+v", d)
	}
	if !d.HasFlag || d.Flag != (DisplayFlag{Type: "refresh", Value: 0}) {
		t.Fatalf("expected out of range flag value to read as 0, got %+v", d.Flag)
	}
}

func TestLoadXML_CutoutPathApplied(t *testing.T) {
	tbl := loadSample(t)
	got := tbl.GetCutoutBoundary(0)
	want := geometry.Rect{PosX: 507, PosY: 18, Width: 66, Height: 66}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if sub := tbl.GetSubCutoutBoundary(); len(sub) != 0 {
		t.Fatalf("expected no sub cutout, got %v", sub)
	}
}

func TestLoadXML_UnexpectedRoot(t *testing.T) {
	err := LoadXML(strings.NewReader("<Other></Other>"), NewTable())
	if !errors.Is(err, ErrUnexpectedRoot) {
		t.Fatalf("expected ErrUnexpectedRoot, got %v", err)
	}
}

func TestLoadXML_Malformed(t *testing.T) {
	if err := LoadXML(strings.NewReader("<Configs><dpi>"), NewTable()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadXMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "display_manager_config.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl := NewTable()
	if err := LoadXMLFile(path, tbl); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tbl.IsWaterfallDisplay() {
		t.Fatalf("expected table to be populated")
	}

	if err := LoadXMLFile(filepath.Join(dir, "missing.xml"), NewTable()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
