package shape

import "testing"

func TestBroadcast(t *testing.T) {
	cases := []struct {
		a, b TensorShape
		want TensorShape
		ok   bool
	}{
		{New(), New(), New(), true},
		{New(2, 3), New(), New(2, 3), true},
		{New(), New(2, 3), New(2, 3), true},
		{New(2, 3), New(3), New(2, 3), true},
		{New(2, 1), New(1, 3), New(2, 3), true},
		{New(2, 3), New(2, 4), New(), false},
	}
	for _, c := range cases {
		got, ok := c.a.Broadcast(c.b)
		if ok != c.ok {
			t.Fatalf("Broadcast(%s, %s) ok = %v, want %v", c.a, c.b, ok, c.ok)
		}
		if ok && !got.Equal(c.want) {
			t.Fatalf("Broadcast(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestConcatenating(t *testing.T) {
	out, ok := New(2, 3).Concatenating(New(2, 4), 1)
	if !ok || !out.Equal(New(2, 7)) {
		t.Fatalf("Concatenating along axis 1 = %s, %v", out, ok)
	}
	if _, ok := New(2, 3).Concatenating(New(3, 3), 1); ok {
		t.Fatalf("Concatenating should reject mismatched non-axis dimension")
	}
}

func TestMatrixMultiplied(t *testing.T) {
	out, ok := New(2, 3).MatrixMultiplied(New(3, 4))
	if !ok || !out.Equal(New(2, 4)) {
		t.Fatalf("MatrixMultiplied = %s, %v", out, ok)
	}
	if _, ok := New(2, 3).MatrixMultiplied(New(4, 3)); ok {
		t.Fatalf("MatrixMultiplied should reject mismatched inner dimension")
	}
}

func TestTranspose(t *testing.T) {
	out := New(2, 3, 4).Transpose()
	if !out.Equal(New(4, 3, 2)) {
		t.Fatalf("Transpose = %s", out)
	}
}

func TestDroppingDimensions(t *testing.T) {
	out := New(2, 3, 4).DroppingDimensions(map[int]struct{}{0: {}, 2: {}})
	if !out.Equal(New(3)) {
		t.Fatalf("DroppingDimensions = %s", out)
	}
}

func TestPaddingDimension(t *testing.T) {
	out := New(2, 3).PaddingDimension(1)
	if !out.Equal(New(2, 1, 3)) {
		t.Fatalf("PaddingDimension = %s", out)
	}
}

func TestIsScalarIsVector(t *testing.T) {
	if !New().IsScalar() {
		t.Fatalf("New() should be scalar")
	}
	if !New(3).IsVector() {
		t.Fatalf("New(3) should be vector")
	}
	if New(2, 3).IsScalar() || New(2, 3).IsVector() {
		t.Fatalf("New(2,3) should be neither scalar nor vector")
	}
}
