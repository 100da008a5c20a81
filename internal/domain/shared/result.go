package shared

// SoftResult is the outcome of a best-effort operation. Value always holds a
// usable value (the fallback when the operation failed) and Err records why
// the fallback was used. Callers must not treat Err as fatal.
type SoftResult[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful best-effort value
func Ok[T any](value T) SoftResult[T] {
	return SoftResult[T]{Value: value}
}

// Fallback wraps the default used after a best-effort failure
func Fallback[T any](value T, err error) SoftResult[T] {
	return SoftResult[T]{Value: value, Err: err}
}

// Degraded reports whether the fallback value was used
func (r SoftResult[T]) Degraded() bool {
	return r.Err != nil
}
