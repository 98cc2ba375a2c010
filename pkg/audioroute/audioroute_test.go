package audioroute_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/MrWong99/consumerir/pkg/audioroute"
	"github.com/MrWong99/consumerir/pkg/audioroute/mock"
)

const mixerXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<!-- trimmed G3 mixer paths -->
<mixer>
    <ctl name="RX1 MIX1 INP1" value="ZERO" />
    <ctl name="RX1 Digital Volume" value="84" />
    <ctl name="HPHL Volume" id="0" value="0" />
    <path name="lineout">
        <ctl name="LINEOUT1 Volume" value="13" />
    </path>
    <path name="lg-irrc-lineout">
        <ctl name="RX1 MIX1 INP1" value="RX1" />
        <path name="lineout" />
    </path>
    <path name="lg-irrc-playback">
        <ctl name="SLIM RX1 MUX" value="AIF1_PB" />
        <ctl name="RX1 MIX1 INP1" value="RX2" />
    </path>
    <path name="loop-a">
        <path name="loop-b" />
    </path>
    <path name="loop-b">
        <path name="loop-a" />
    </path>
</mixer>`

func newRoute(t *testing.T, m *mock.Mixer) *audioroute.Route {
	t.Helper()
	rt, err := audioroute.New(m, strings.NewReader(mixerXML))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()
	m := &mock.Mixer{}
	newRoute(t, m)

	want := []audioroute.Setting{
		{Control: "RX1 MIX1 INP1", Index: audioroute.AllIndices, Value: "ZERO"},
		{Control: "RX1 Digital Volume", Index: audioroute.AllIndices, Value: "84"},
		{Control: "HPHL Volume", Index: 0, Value: "0"},
	}
	if !slices.Equal(m.Sets, want) {
		t.Errorf("Sets = %v, want %v", m.Sets, want)
	}
}

func TestRoute_ApplyPathStagesUntilUpdate(t *testing.T) {
	t.Parallel()
	m := &mock.Mixer{}
	rt := newRoute(t, m)
	before := len(m.Sets)

	if err := rt.ApplyPath("lg-irrc-lineout"); err != nil {
		t.Fatalf("ApplyPath: %v", err)
	}
	if len(m.Sets) != before {
		t.Fatalf("ApplyPath wrote %d settings; want none before Update", len(m.Sets)-before)
	}
	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := m.Sets[before:]
	if len(got) != 2 || got[0].Control != "RX1 MIX1 INP1" || got[1].Control != "LINEOUT1 Volume" {
		t.Errorf("lineout settings = %v", got)
	}

	// A second Update with nothing staged writes nothing.
	n := len(m.Sets)
	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(m.Sets) != n {
		t.Errorf("empty Update wrote %d settings", len(m.Sets)-n)
	}
}

func TestRoute_LaterPathWins(t *testing.T) {
	t.Parallel()
	m := &mock.Mixer{}
	rt := newRoute(t, m)

	for _, p := range []string{"lg-irrc-lineout", "lg-irrc-playback"} {
		if err := rt.ApplyPath(p); err != nil {
			t.Fatalf("ApplyPath(%q): %v", p, err)
		}
	}
	if err := rt.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v, _ := m.Value("RX1 MIX1 INP1"); v != "RX2" {
		t.Errorf("RX1 MIX1 INP1 = %q, want RX2", v)
	}
	if v, _ := m.Value("LINEOUT1 Volume"); v != "13" {
		t.Errorf("LINEOUT1 Volume = %q, want 13", v)
	}
}

func TestRoute_UnknownPath(t *testing.T) {
	t.Parallel()
	rt := newRoute(t, &mock.Mixer{})
	if err := rt.ApplyPath("speaker"); !errors.Is(err, audioroute.ErrUnknownPath) {
		t.Errorf("ApplyPath(speaker) = %v, want ErrUnknownPath", err)
	}
}

func TestRoute_CyclicPath(t *testing.T) {
	t.Parallel()
	rt := newRoute(t, &mock.Mixer{})
	err := rt.ApplyPath("loop-a")
	if err == nil || !strings.Contains(err.Error(), "includes itself") {
		t.Errorf("ApplyPath(loop-a) = %v, want cycle error", err)
	}
}

func TestRoute_UpdateJoinsErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := &mock.Mixer{}
	rt := newRoute(t, m)
	m.SetError = func(s audioroute.Setting) error {
		if s.Control == "SLIM RX1 MUX" {
			return boom
		}
		return nil
	}
	if err := rt.ApplyPath("lg-irrc-playback"); err != nil {
		t.Fatalf("ApplyPath: %v", err)
	}
	err := rt.Update()
	if !errors.Is(err, boom) {
		t.Fatalf("Update = %v, want boom", err)
	}
	// The failing setting does not stop the ones after it.
	if v, _ := m.Value("RX1 MIX1 INP1"); v != "RX2" {
		t.Errorf("RX1 MIX1 INP1 = %q, want RX2", v)
	}
}

func TestNew_DefaultFailure(t *testing.T) {
	t.Parallel()
	m := &mock.Mixer{SetError: func(audioroute.Setting) error { return audioroute.ErrUnknownControl }}
	_, err := audioroute.New(m, strings.NewReader(mixerXML))
	if !errors.Is(err, audioroute.ErrUnknownControl) {
		t.Errorf("New = %v, want ErrUnknownControl", err)
	}
}

func TestNew_BadXML(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not xml":        "{",
		"wrong root":     `<paths><path name="a"/></paths>`,
		"nameless ctl":   `<mixer><ctl value="1"/></mixer>`,
		"valueless ctl":  `<mixer><ctl name="A"/></mixer>`,
		"bad id":         `<mixer><ctl name="A" id="x" value="1"/></mixer>`,
		"nameless path":  `<mixer><path><ctl name="A" value="1"/></path></mixer>`,
		"nameless ref":   `<mixer><path name="a"><path/></path></mixer>`,
		"bad ctl inside": `<mixer><path name="a"><ctl value="1"/></path></mixer>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := audioroute.New(&mock.Mixer{}, strings.NewReader(doc)); err == nil {
				t.Error("New succeeded; want error")
			}
		})
	}
}

func TestRoute_PathsAndClose(t *testing.T) {
	t.Parallel()
	m := &mock.Mixer{}
	rt := newRoute(t, m)
	want := []string{"lg-irrc-lineout", "lg-irrc-playback", "lineout", "loop-a", "loop-b"}
	if got := rt.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths = %v, want %v", got, want)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.CallCountClose != 1 {
		t.Errorf("mixer closed %d times, want 1", m.CallCountClose)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	if err := audioroute.Check(strings.NewReader(mixerXML), "lg-irrc-lineout", "lg-irrc-playback"); err != nil {
		t.Errorf("Check = %v, want nil", err)
	}
	err := audioroute.Check(strings.NewReader(mixerXML), "lg-irrc-playback", "speaker")
	if !errors.Is(err, audioroute.ErrUnknownPath) {
		t.Errorf("Check = %v, want ErrUnknownPath", err)
	}
}
