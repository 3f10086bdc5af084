package render

import "testing"

func TestViewportSetLinesKeepsBottom(t *testing.T) {
	vp := NewViewport(10, 2)
	vp.SetLines([]string{"a", "b"})
	vp.GotoBottom()

	vp.SetLines([]string{"a", "b", "c"})
	if !vp.AtBottom() {
		t.Fatalf("viewport should stay anchored at bottom after append")
	}
}

func TestViewportKeepsScrollPosition(t *testing.T) {
	vp := NewViewport(8, 2)
	vp.SetLines([]string{"a", "b", "c", "d"})
	vp.SetYOffset(0)

	vp.SetLines([]string{"a", "b", "c", "d", "e"})
	if vp.YOffset != 0 {
		t.Fatalf("YOffset = %d, want 0 when not at bottom", vp.YOffset)
	}
}

func TestViewportResize(t *testing.T) {
	vp := NewViewport(8, 2)
	if vp.Resize(8, 5) {
		t.Fatalf("height-only resize reported width change")
	}
	if !vp.Resize(12, 5) {
		t.Fatalf("width change not reported")
	}
}
