package acroform

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formfill/pkg/fields"
)

func TestFitFontSize(t *testing.T) {
	if got := fitFontSize(40, 0.6); got != 12 {
		t.Fatalf("tall rects must clamp to 12, got %v", got)
	}
	if got := fitFontSize(10, 0.6); got != 8 {
		t.Fatalf("short rects must clamp to 8, got %v", got)
	}
	if got := fitFontSize(18, 0.6); got <= 8 || got >= 12 {
		t.Fatalf("mid-height rects must scale between the clamps, got %v", got)
	}
}

func TestEscapeString(t *testing.T) {
	got := string(escapeString([]byte(`a(b)c\d`)))
	want := `a\(b\)c\\d`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOverlayText(t *testing.T) {
	o := newOverlay("FFHelv")
	if !o.empty() {
		t.Fatal("fresh overlay must be empty")
	}
	o.text(74, 655, 12, "Alice (Smith)")
	out := string(o.bytes())

	if !strings.HasPrefix(out, "q\n") || !strings.HasSuffix(out, "Q\n") {
		t.Fatalf("overlay must be q/Q wrapped: %q", out)
	}
	if !strings.Contains(out, "/FFHelv 12.00 Tf") {
		t.Fatalf("missing font op: %q", out)
	}
	if !strings.Contains(out, `(Alice \(Smith\)) Tj`) {
		t.Fatalf("missing text op: %q", out)
	}
}

func TestOverlayTextSkipsEmpty(t *testing.T) {
	o := newOverlay("FFHelv")
	o.text(0, 0, 10, "")
	if !o.empty() {
		t.Fatal("empty strings must not emit ops")
	}
}

func TestOverlayCrossLineWidthFloor(t *testing.T) {
	o := newOverlay("FFHelv")
	o.cross(fields.Rect{LLX: 0, LLY: 0, URX: 5, URY: 5})
	out := string(o.bytes())
	if !strings.Contains(out, "1.00 w") {
		t.Fatalf("line width must floor at 1: %q", out)
	}
}

func TestDrawFieldMultiSelectStacksFromTop(t *testing.T) {
	o := newOverlay("FFHelv")
	o.drawField(fields.Field{
		Name:  "Languages",
		Kind:  fields.KindList,
		Multi: true,
		Value: []string{"English", "French"},
		Rect:  fields.Rect{LLX: 72, LLY: 480, URX: 300, URY: 530},
	})
	out := string(o.bytes())

	first := strings.Index(out, "(English)")
	second := strings.Index(out, "(French)")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("stacked lines missing or misordered: %q", out)
	}
}

func TestDrawFieldTinyRectTruncatesStack(t *testing.T) {
	o := newOverlay("FFHelv")
	o.drawField(fields.Field{
		Kind:  fields.KindList,
		Multi: true,
		Value: []string{"a", "b", "c", "d", "e", "f"},
		Rect:  fields.Rect{LLX: 0, LLY: 0, URX: 100, URY: 22},
	})
	out := string(o.bytes())
	if strings.Count(out, "Tj") >= 6 {
		t.Fatalf("stack must stop at the rect bottom: %q", out)
	}
}

func TestDrawFieldUncheckedDrawsNothing(t *testing.T) {
	o := newOverlay("FFHelv")
	o.drawField(fields.Field{Kind: fields.KindCheckbox, Checked: false, Rect: fields.Rect{URX: 10, URY: 10}})
	if !o.empty() {
		t.Fatal("unchecked boxes must not draw")
	}
}

func TestDrawFieldChoiceUsesDisplayLabel(t *testing.T) {
	o := newOverlay("FFHelv")
	o.drawField(fields.Field{
		Kind:  fields.KindCombo,
		Value: []string{"CA"},
		Options: []fields.Option{
			{Export: "CA", Display: "Canada"},
		},
		Rect: fields.Rect{LLX: 72, LLY: 540, URX: 300, URY: 560},
	})
	out := string(o.bytes())
	if !strings.Contains(out, "(Canada) Tj") {
		t.Fatalf("display label missing: %q", out)
	}
}

func TestWinAnsiReplacesUnmappable(t *testing.T) {
	got := winAnsi("déjà 世")
	if len(got) == 0 {
		t.Fatal("encoder returned nothing")
	}
	// Latin-1 range survives, CJK falls back to a replacement byte.
	if got[1] != 0xe9 {
		t.Fatalf("é must map to 0xe9, got % x", got)
	}
}
