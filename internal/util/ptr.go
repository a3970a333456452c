// Package util holds small generic helpers shared by the protocol layers.
package util

// Ptr returns a pointer to v, for optional protocol fields set from literals.
func Ptr[T any](v T) *T {
	return &v
}

// PtrOrNil returns nil for the zero value of T and a pointer to v otherwise.
// Optional LSP fields use nil to mean "absent", so empty strings stay off the wire.
func PtrOrNil[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
