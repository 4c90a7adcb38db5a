package types

// Resolver looks up nominal type descriptors by handle. The IR module
// implements Resolver so that Type methods needing to see through an alias
// or look up a struct field never need to embed the nominal table inline,
// matching the "referenced by shared identity" invariant of spec §9.
type Resolver interface {
	// AliasUnderlying returns the alias's underlying type and true, or
	// (zero, false) if the alias is opaque (no underlying type).
	AliasUnderlying(handle NominalHandle) (Type, bool)
	// StructField returns the type of a named field and true, or
	// (zero, false) if no such field exists.
	StructField(handle NominalHandle, name string) (Type, bool)
	// EnumCase returns the associated-types list of a named case and true,
	// or (nil, false) if no such case exists.
	EnumCase(handle NominalHandle, name string) ([]Type, bool)
}
