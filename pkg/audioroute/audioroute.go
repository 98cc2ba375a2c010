// Package audioroute applies named mixer paths from an Android
// mixer_paths.xml file to an ALSA card.
//
// The file has the usual shape:
//
//	<mixer>
//	    <ctl name="RX1 MIX1 INP1" value="ZERO" />
//	    <path name="lg-irrc-lineout">
//	        <ctl name="RX1 MIX1 INP1" value="RX1" />
//	        <path name="speaker" />
//	    </path>
//	</mixer>
//
// Top-level ctl elements are the card defaults and are written when a
// [Route] is created. A path groups ctl settings and may include other
// paths by name. [Route.ApplyPath] only stages the settings; nothing
// reaches the hardware until [Route.Update].
package audioroute

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrUnknownPath is returned when a path name is not defined.
	ErrUnknownPath = errors.New("audioroute: unknown path")

	// ErrUnknownControl is returned by a [Mixer] for a control name the
	// card does not expose.
	ErrUnknownControl = errors.New("audioroute: unknown control")

	// ErrUnsupported is returned by [Init] on platforms without ALSA.
	ErrUnsupported = errors.New("audioroute: not supported on this platform")
)

// AllIndices applies a setting to every value slot of a control.
const AllIndices = -1

// Setting assigns Value to one control. Value is either a number or, for
// enumerated controls, the item name.
type Setting struct {
	Control string
	Index   int
	Value   string
}

func (s Setting) String() string {
	if s.Index == AllIndices {
		return fmt.Sprintf("%q=%s", s.Control, s.Value)
	}
	return fmt.Sprintf("%q[%d]=%s", s.Control, s.Index, s.Value)
}

// Mixer writes control values to a sound card.
type Mixer interface {
	Set(s Setting) error
	Close() error
}

// Router is the subset of [Route] callers need to switch paths.
type Router interface {
	// ApplyPath stages every setting of the named path.
	ApplyPath(name string) error
	// Update writes the staged settings.
	Update() error
	// Close releases the mixer.
	Close() error
}

// Opener creates a Router for the given card and mixer XML file.
type Opener func(card uint, xmlPath string) (Router, error)

type entry struct {
	setting Setting
	ref     string // non-empty for a nested <path name="..."/>
}

// Route holds the parsed paths of one mixer_paths.xml and the settings
// staged since the last Update.
type Route struct {
	mu      sync.Mutex
	mixer   Mixer
	paths   map[string][]entry
	pending []Setting
}

var _ Router = (*Route)(nil)

// New parses the mixer XML in r and writes its defaults through mixer.
// On error the mixer is left open; the caller owns it.
func New(mixer Mixer, r io.Reader) (*Route, error) {
	defaults, paths, err := parse(r)
	if err != nil {
		return nil, err
	}
	rt := &Route{
		mixer:   mixer,
		paths:   paths,
		pending: defaults,
	}
	if err := rt.Update(); err != nil {
		return nil, fmt.Errorf("audioroute: apply defaults: %w", err)
	}
	return rt, nil
}

// Paths returns the sorted names of all defined paths.
func (r *Route) Paths() []string {
	return slices.Sorted(maps.Keys(r.paths))
}

// Check parses the mixer XML in r without touching any hardware and reports
// whether every path in required is defined and resolvable.
func Check(r io.Reader, required ...string) error {
	_, paths, err := parse(r)
	if err != nil {
		return err
	}
	rt := &Route{paths: paths}
	var errs []error
	for _, name := range required {
		if _, err := rt.resolve(name, map[string]bool{}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyPath implements [Router].
func (r *Route) ApplyPath(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, err := r.resolve(name, map[string]bool{})
	if err != nil {
		return err
	}
	r.pending = append(r.pending, settings...)
	return nil
}

func (r *Route) resolve(name string, visiting map[string]bool) ([]Setting, error) {
	entries, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPath, name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("audioroute: path %q includes itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	var out []Setting
	for _, e := range entries {
		if e.ref == "" {
			out = append(out, e.setting)
			continue
		}
		nested, err := r.resolve(e.ref, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// Update implements [Router]. Settings are written in the order they were
// staged, so a later path wins over an earlier one for the same control.
// Every setting is attempted; the failures are joined.
func (r *Route) Update() error {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	var errs []error
	for _, s := range pending {
		if err := r.mixer.Set(s); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// Close implements [Router].
func (r *Route) Close() error {
	return r.mixer.Close()
}

// ── XML ─────────────────────────────────────────────────────────────────────

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

func (n node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func parse(r io.Reader) ([]Setting, map[string][]entry, error) {
	var root node
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("audioroute: parse mixer xml: %w", err)
	}
	if root.XMLName.Local != "mixer" {
		return nil, nil, fmt.Errorf("audioroute: root element is <%s>, want <mixer>", root.XMLName.Local)
	}

	var defaults []Setting
	paths := make(map[string][]entry)
	for _, n := range root.Nodes {
		switch n.XMLName.Local {
		case "ctl":
			s, err := parseCtl(n)
			if err != nil {
				return nil, nil, err
			}
			defaults = append(defaults, s)
		case "path":
			name, ok := n.attr("name")
			if !ok || name == "" {
				return nil, nil, errors.New("audioroute: <path> without name")
			}
			entries, err := parsePath(name, n)
			if err != nil {
				return nil, nil, err
			}
			// Later definitions replace earlier ones.
			paths[name] = entries
		}
	}
	return defaults, paths, nil
}

// charsetReader accepts the Latin-1 declaration found at the top of most
// vendor mixer files.
func charsetReader(label string, in io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "us-ascii", "ascii", "utf-8":
		return in, nil
	case "iso-8859-1", "latin1", "latin-1":
		raw, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		runes := make([]rune, len(raw))
		for i, b := range raw {
			runes[i] = rune(b)
		}
		return strings.NewReader(string(runes)), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}

func parsePath(name string, n node) ([]entry, error) {
	var entries []entry
	for _, c := range n.Nodes {
		switch c.XMLName.Local {
		case "ctl":
			s, err := parseCtl(c)
			if err != nil {
				return nil, fmt.Errorf("audioroute: path %q: %w", name, err)
			}
			entries = append(entries, entry{setting: s})
		case "path":
			ref, ok := c.attr("name")
			if !ok || ref == "" {
				return nil, fmt.Errorf("audioroute: path %q: nested <path> without name", name)
			}
			entries = append(entries, entry{ref: ref})
		}
	}
	return entries, nil
}

func parseCtl(n node) (Setting, error) {
	name, ok := n.attr("name")
	if !ok || name == "" {
		return Setting{}, errors.New("audioroute: <ctl> without name")
	}
	value, ok := n.attr("value")
	if !ok {
		return Setting{}, fmt.Errorf("audioroute: <ctl name=%q> without value", name)
	}
	s := Setting{Control: name, Index: AllIndices, Value: value}
	if id, ok := n.attr("id"); ok {
		idx, err := strconv.Atoi(id)
		if err != nil || idx < 0 {
			return Setting{}, fmt.Errorf("audioroute: <ctl name=%q> bad id %q", name, id)
		}
		s.Index = idx
	}
	return s, nil
}
