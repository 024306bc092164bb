package paneset

import "testing"

func TestSplitAndClose(t *testing.T) {
	root := Leaf(1)
	root, ok := root.SplitLeaf(1, 2, KindHSplit)
	if !ok {
		t.Fatal("split failed")
	}
	if root.Kind != KindHSplit || root.Ratio != 0.5 {
		t.Fatalf("root = %+v", root)
	}
	ids := root.PaneIDs()
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}

	root, ok = root.Remove(2)
	if !ok {
		t.Fatal("remove failed")
	}
	if root.Kind != KindLeaf || root.PaneID != 1 {
		t.Fatalf("root after remove = %+v", root)
	}
}

func TestDirectionalFocusLayout(t *testing.T) {
	// HSplit(Leaf(A), VSplit(Leaf(B), Leaf(C), 0.5), 0.5) in a 200x200 rect.
	a := Leaf(1)
	b := Leaf(2)
	c := Leaf(3)
	right := split(KindVSplit, b, c, 0.5)
	root := split(KindHSplit, a, right, 0.5)

	rects := root.ComputeRects(Rect{X: 0, Y: 0, W: 200, H: 200})
	byID := map[uint64]Rect{}
	for _, pr := range rects {
		byID[pr.PaneID] = pr.Rect
	}
	if byID[1].W != 100 || byID[1].H != 200 {
		t.Fatalf("A rect = %+v", byID[1])
	}
	if byID[2].H != 100 || byID[2].X != 100 {
		t.Fatalf("B rect = %+v", byID[2])
	}
	if byID[3].Y != 100 || byID[3].X != 100 {
		t.Fatalf("C rect = %+v", byID[3])
	}
}

func TestRatioStaysClamped(t *testing.T) {
	root := split(KindHSplit, Leaf(1), Leaf(2), 0.5)
	for i := 0; i < 20; i++ {
		var ok bool
		root, ok = root.NudgeRatioFor(1, -0.1)
		if !ok {
			t.Fatal("nudge failed")
		}
		if root.Ratio < MinRatio || root.Ratio > MaxRatio {
			t.Fatalf("ratio out of range: %v", root.Ratio)
		}
	}
	if root.Ratio != MinRatio {
		t.Fatalf("ratio = %v, want clamped to %v", root.Ratio, MinRatio)
	}
}

func TestPaneIDsPermutationAfterOps(t *testing.T) {
	root := Leaf(1)
	root, _ = root.SplitLeaf(1, 2, KindHSplit)
	root, _ = root.SplitLeaf(2, 3, KindVSplit)
	ids := root.PaneIDs()
	want := map[uint64]bool{1: true, 3: true}
	// 2 was replaced by split into (2,3); the tree should contain 1,2,3.
	want[2] = true
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want 3 entries", ids)
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected id %d", id)
		}
	}
}
