package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultXMLPath is where devices ship their display manager config.
const DefaultXMLPath = "/system/etc/window/resources/display_manager_config.xml"

// ErrUnexpectedRoot is returned when the document root is not <Configs>.
var ErrUnexpectedRoot = errors.New("unexpected root element")

// xmlNode is a generic element tree. The loader only needs names,
// attributes, text and children.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// text returns the concatenated character data of n and its descendants.
func (n *xmlNode) text() string {
	if len(n.Nodes) == 0 {
		return n.Content
	}
	var b strings.Builder
	b.WriteString(n.Content)
	for i := range n.Nodes {
		b.WriteString(n.Nodes[i].text())
	}
	return b.String()
}

// LoadXMLFile reads the device config at path into t.
func LoadXMLFile(path string, t *Table) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open device config: %w", err)
	}
	defer f.Close()
	if err := LoadXML(f, t); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadXML walks a device config document and fills t. Malformed nodes are
// logged and skipped; only an unreadable document or a wrong root element
// is reported as an error.
func LoadXML(r io.Reader, t *Table) error {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return fmt.Errorf("failed to parse device config: %w", err)
	}
	if root.XMLName.Local != rootNode {
		return fmt.Errorf("%w: %q", ErrUnexpectedRoot, root.XMLName.Local)
	}

	for i := range root.Nodes {
		t.readNode(&root.Nodes[i])
	}
	t.ApplyCutoutPaths()
	return nil
}

// ApplyCutoutPaths turns the configured cutout SVG paths into boundary rects
// for the default display and the sub display.
func (t *Table) ApplyCutoutPaths() {
	t.SetCutoutSvgPath(t.defaultDisplayID, t.GetStringConfigValue(KeyDefaultDisplayCutoutPath))
	t.SetSubCutoutSvgPath(t.GetStringConfigValue(KeySubDisplayCutoutPath))
}

func (t *Table) readNode(n *xmlNode) {
	name := n.XMLName.Local
	kind, ok := nodeTable[name]
	if !ok {
		t.logger.Debug("ignoring unknown config node", "node", name)
		return
	}

	switch kind {
	case kindEnable:
		t.readEnable(n)
	case kindNumber:
		t.readNumbers(n)
	case kindString:
		t.SetString(name, strings.TrimSpace(n.text()))
	case kindStringList:
		t.readStringList(n)
	case kindDisplays:
		t.readDisplays(n)
	case kindPhysicalResolution:
		t.readPhysicalResolution(n)
	case kindScrollableParam:
		t.readScrollableParam(n)
	}
}

func (t *Table) readEnable(n *xmlNode) {
	v, ok := n.attr("enable")
	if !ok {
		t.logger.Warn("enable node missing enable attribute", "node", n.XMLName.Local)
		return
	}
	t.SetEnable(n.XMLName.Local, v == "true")
}

func (t *Table) readNumbers(n *xmlNode) {
	fields := strings.Fields(n.text())
	if len(fields) == 0 {
		return
	}
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		if !isNumber(f) {
			t.logger.Warn("invalid number in config node", "node", n.XMLName.Local, "value", f)
			return
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			t.logger.Warn("number out of range in config node", "node", n.XMLName.Local, "value", f)
			return
		}
		nums = append(nums, v)
	}
	t.SetNumbers(n.XMLName.Local, nums)
}

func (t *Table) readStringList(n *xmlNode) {
	var list []string
	for i := range n.Nodes {
		list = append(list, strings.TrimSpace(n.Nodes[i].text()))
	}
	t.SetStringList(n.XMLName.Local, list)
}

func (t *Table) readDisplays(n *xmlNode) {
	for i := range n.Nodes {
		d := &n.Nodes[i]
		if d.XMLName.Local != nodeDisplay {
			continue
		}
		t.AddDisplay(t.parseDisplay(d))
	}
}

func (t *Table) parseDisplay(n *xmlNode) DisplayConfig {
	var cfg DisplayConfig
	for i := range n.Nodes {
		child := &n.Nodes[i]
		content := strings.TrimSpace(child.text())
		switch child.XMLName.Local {
		case "physicalId":
			cfg.PhysicalID = t.parseID(content)
		case "logicalId":
			cfg.LogicalID = t.parseID(content)
		case "name":
			cfg.Name = content
		case "dpi":
			dpi, err := strconv.ParseInt(content, 10, 32)
			if err != nil {
				t.logger.Warn("invalid display dpi", "value", content, "error", err)
				dpi = 0
			}
			cfg.DPI = int32(dpi)
		case nodeFlags:
			cfg.Flag, cfg.HasFlag = firstFlag(child)
		}
	}
	return cfg
}

func (t *Table) parseID(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		t.logger.Warn("invalid display id", "value", s, "error", err)
		return 0
	}
	return v
}

// firstFlag returns the first <flag> carrying both type and value.
func firstFlag(flags *xmlNode) (DisplayFlag, bool) {
	for i := range flags.Nodes {
		f := &flags.Nodes[i]
		if f.XMLName.Local != nodeFlag {
			continue
		}
		typ, okType := f.attr("type")
		val, okVal := f.attr("value")
		if !okType || !okVal {
			continue
		}
		// ParseInt returns the clamped value on ErrRange.
		v, err := strconv.ParseInt(strings.TrimSpace(val), 10, 32)
		if err != nil {
			v = 0
		}
		return DisplayFlag{Type: typ, Value: int32(v)}, true
	}
	return DisplayFlag{}, false
}

func (t *Table) readPhysicalResolution(n *xmlNode) {
	mode, ok := n.attr("displayMode")
	if !ok {
		t.logger.Warn("physical resolution missing displayMode")
		return
	}
	content := strings.TrimSpace(n.text())
	if content == "" {
		return
	}
	parts := strings.Split(content, ":")
	if len(parts) != 2 {
		t.logger.Warn("physical resolution must be W:H", "value", content)
		return
	}
	res := DisplayPhysicalResolution{FoldDisplayMode: resolutionDisplayMode(mode)}
	if isNumber(parts[0]) && isNumber(parts[1]) {
		w, errW := strconv.ParseUint(parts[0], 10, 32)
		h, errH := strconv.ParseUint(parts[1], 10, 32)
		if errW == nil && errH == nil {
			res.PhysicalWidth = uint32(w)
			res.PhysicalHeight = uint32(h)
		}
	}
	t.AddPhysicalResolution(res)
}

func (t *Table) readScrollableParam(n *xmlNode) {
	mode, ok := n.attr("displayMode")
	if !ok {
		t.logger.Warn("scrollable param missing displayMode")
		return
	}
	content := strings.TrimSpace(n.text())
	if content == "" {
		return
	}
	parts := strings.Split(content, ":")
	if len(parts) != 2 {
		t.logger.Warn("scrollable param must be velocityScale:friction", "value", content)
		return
	}
	p := ScrollableParam{
		VelocityScale: parts[0],
		Friction:      parts[1],
	}
	if _, ok := p.VelocityScaleFloat(); !ok {
		t.logger.Warn("scrollable param velocityScale is not a number", "displayMode", mode, "value", p.VelocityScale)
	}
	if _, ok := p.FrictionFloat(); !ok {
		t.logger.Warn("scrollable param friction is not a number", "displayMode", mode, "value", p.Friction)
	}
	t.SetScrollableParam(scrollableDisplayMode(mode), p)
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
