package diag

// Bag accumulates diagnostics across a single parse or verification pass,
// mirroring the teacher's internal/diag.Bag: entry points keep returning
// the first error all-or-nothing (spec §7), but a caller that wants every
// independent finding can inspect the Bag instead.
type Bag struct {
	diags []*Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) {
	if b == nil || d == nil {
		return
	}
	b.diags = append(b.diags, d)
}

// All returns every diagnostic collected so far, in insertion order.
func (b *Bag) All() []*Diagnostic {
	if b == nil {
		return nil
	}
	return b.diags
}

// HasErrors reports whether any diagnostic in the bag has Error severity.
func (b *Bag) HasErrors() bool {
	if b == nil {
		return false
	}
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// FirstError returns the first Error-severity diagnostic, or nil.
func (b *Bag) FirstError() *Diagnostic {
	if b == nil {
		return nil
	}
	for _, d := range b.diags {
		if d.Severity == Error {
			return d
		}
	}
	return nil
}
