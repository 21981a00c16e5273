package recording

import (
	"testing"

	"github.com/gogpu/sigplay"
)

func TestResourcePoolAddPath(t *testing.T) {
	pool := NewResourcePool()
	a := sigplay.MustParsePathData("M0 0 L1 0")
	b := sigplay.MustParsePathData("M0 0 L2 0")

	ra := pool.AddPath(a)
	rb := pool.AddPath(b)
	if ra == rb {
		t.Fatalf("AddPath returned the same ref %d for different paths", ra)
	}
	if again := pool.AddPath(a); again != ra {
		t.Errorf("AddPath(a) again = %d, want %d", again, ra)
	}
	if got := pool.PathCount(); got != 2 {
		t.Errorf("PathCount() = %d, want 2", got)
	}
	if got := pool.GetPath(rb); got != b {
		t.Errorf("GetPath(%d) = %p, want %p", rb, got, b)
	}
}

func TestResourcePoolInvalidRef(t *testing.T) {
	pool := NewResourcePool()
	if got := pool.GetPath(PathRef(InvalidRef)); got != nil {
		t.Errorf("GetPath(InvalidRef) = %v, want nil", got)
	}
	if got := pool.GetPath(0); got != nil {
		t.Errorf("GetPath(0) on empty pool = %v, want nil", got)
	}
}
