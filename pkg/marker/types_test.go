package marker

import "testing"

func TestBBox_Translate(t *testing.T) {
	b := BBox{X: 10, Y: 20, W: 5, H: 5}
	got := b.Translate(100, 200)
	want := BBox{X: 110, Y: 220, W: 5, H: 5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestBBox_IoU_NonOverlappingIsZero(t *testing.T) {
	a := BBox{X: 0, Y: 0, W: 10, H: 10}
	b := BBox{X: 100, Y: 100, W: 10, H: 10}
	if iou := a.IoU(b); iou != 0 {
		t.Fatalf("expected 0 IoU, got %v", iou)
	}
}

func TestBBox_IoU_IdenticalIsOne(t *testing.T) {
	a := BBox{X: 0, Y: 0, W: 10, H: 10}
	if iou := a.IoU(a); iou != 1 {
		t.Fatalf("expected IoU 1, got %v", iou)
	}
}

func TestProjectContext_HasDetail_EmptySetAllowsAny(t *testing.T) {
	pc := NewProjectContext([]string{"A7"}, nil)
	if !pc.HasDetail("99") {
		t.Fatal("expected empty ValidDetails to allow any detail")
	}
}

func TestProjectContext_HasDetail_NonEmptySetRestricts(t *testing.T) {
	pc := NewProjectContext(nil, []string{"3", "7"})
	if !pc.HasDetail("3") {
		t.Fatal("expected 3 to be allowed")
	}
	if pc.HasDetail("9") {
		t.Fatal("expected 9 to be rejected")
	}
}
