package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}

	r.Start(3)
	r.Update(1, "guide.md")
	r.Update(2, "broken.md")
	r.Skip("broken.md", errors.New("bad front matter"))
	r.Update(3, "faq.md")
	r.Finish()

	out := buf.String()
	for _, want := range []string{
		"Rendering 3 documents",
		"[1/3] guide.md",
		"skipped broken.md: bad front matter",
		"[3/3] faq.md",
		"2 documents rendered, 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := r.Tally(); got != (Tally{Total: 3, Rendered: 2, Skipped: 1}) {
		t.Errorf("Tally = %+v", got)
	}
}

func TestTerminalReporterListsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf}

	r.Start(2)
	r.Update(1, "guide.md")
	r.Update(2, "broken.md")
	r.Skip("broken.md", errors.New("unreadable"))
	r.Finish()

	if got := r.Tally(); got != (Tally{Total: 2, Rendered: 1, Skipped: 1}) {
		t.Errorf("Tally = %+v", got)
	}
	if !strings.Contains(buf.String(), "broken.md: unreadable") {
		t.Errorf("skipped document not listed:\n%s", buf.String())
	}
}

func TestTallyString(t *testing.T) {
	if got := (Tally{Rendered: 4}).String(); got != "4 documents rendered" {
		t.Errorf("String = %q", got)
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterOutsideCI(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}
