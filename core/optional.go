// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Set stores v.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// HasValue reports whether a value was stored.
func (o Optional[T]) HasValue() bool {
	return o.set
}

// Get returns the stored value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// MustGet returns the stored value and panics when it is absent.
func (o Optional[T]) MustGet() T {
	if !o.set {
		panic("core: value of an empty Optional requested")
	}
	return o.value
}
