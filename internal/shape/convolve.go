package shape

import "fmt"

// Padding is a (low, high) pair of padding amounts for one spatial
// dimension of a convolve instruction.
type Padding struct {
	Low  int64
	High int64
}

// ConvolveConfig bundles the optional convolve arguments of spec §4.2,
// already defaulted by the caller (strides=1, padding=0, dilations=1,
// groups=1) when omitted in source.
type ConvolveConfig struct {
	Strides []int64
	Padding []Padding
	// LhsDilation dilates the input (ld in spec §4.2); RhsDilation dilates
	// the kernel (rd in spec §4.2).
	LhsDilation []int64
	RhsDilation []int64
	Groups      int64
}

// ConvolveOutput computes the output shape of a convolve instruction per
// spec §4.2's shape rule, or an error describing which precondition failed.
func ConvolveOutput(lhs, kernel TensorShape, cfg ConvolveConfig) (TensorShape, error) {
	rank := lhs.Rank()
	if rank < 3 {
		return TensorShape{}, fmt.Errorf("convolve requires rank >= 3, got %d", rank)
	}
	if kernel.Rank() != rank {
		return TensorShape{}, fmt.Errorf("convolve lhs rank %d does not match kernel rank %d", rank, kernel.Rank())
	}
	n := rank - 2

	strides := cfg.Strides
	if strides == nil {
		strides = onesI64(n)
	}
	padding := cfg.Padding
	if padding == nil {
		padding = make([]Padding, n)
	}
	ld := cfg.LhsDilation
	if ld == nil {
		ld = onesI64(n)
	}
	rd := cfg.RhsDilation
	if rd == nil {
		rd = onesI64(n)
	}
	groups := cfg.Groups
	if groups == 0 {
		groups = 1
	}

	if len(strides) != n || len(padding) != n || len(ld) != n || len(rd) != n {
		return TensorShape{}, fmt.Errorf("convolve spatial argument count must equal %d", n)
	}
	for i, st := range strides {
		if st < 1 {
			return TensorShape{}, fmt.Errorf("convolve stride[%d] must be >= 1, got %d", i, st)
		}
	}
	for i, p := range padding {
		if p.Low < 0 || p.High < 0 {
			return TensorShape{}, fmt.Errorf("convolve padding[%d] must be >= 0, got (%d,%d)", i, p.Low, p.High)
		}
	}
	for i := 0; i < n; i++ {
		if ld[i] < 1 || rd[i] < 1 {
			return TensorShape{}, fmt.Errorf("convolve dilation[%d] must be > 0, got ld=%d rd=%d", i, ld[i], rd[i])
		}
	}
	if groups < 1 || groups > kernel.Dims[0] {
		return TensorShape{}, fmt.Errorf("convolve groups must be in [1, kernel.dim[0]=%d], got %d", kernel.Dims[0], groups)
	}
	if lhs.Dims[1]/groups != kernel.Dims[1] {
		return TensorShape{}, fmt.Errorf("convolve lhs channel dim / groups (%d) must equal kernel.dim[1] (%d)", lhs.Dims[1]/groups, kernel.Dims[1])
	}

	out := make([]int64, rank)
	out[0] = lhs.Dims[0]
	out[1] = (kernel.Dims[0] / groups) * groups
	for i := 0; i < n; i++ {
		dilatedBase := (lhs.Dims[i+2]-1)*ld[i] + 1
		paddedDilatedBase := padding[i].Low + dilatedBase + padding[i].High
		dilatedWindow := (kernel.Dims[i+2]-1)*rd[i] + 1
		if dilatedWindow > paddedDilatedBase {
			out[i+2] = 0
			continue
		}
		out[i+2] = (paddedDilatedBase-dilatedWindow)/strides[i] + 1
	}
	return TensorShape{Dims: out}, nil
}

func onesI64(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
