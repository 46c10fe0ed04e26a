// Package options implements the With*-constructor functional-options
// pattern config.New builds Config from: each With* function returns an
// Option that mutates the target in place, so a caller only names the
// bounds it wants to override and New fills in the rest from defaults.
package options

// Option mutates a *T, or reports why it can't. config.WithMaxArraySize
// and its siblings each return one of these.
type Option[T any] interface {
	apply(T) error
}

// Func adapts a plain function to Option.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New wraps a fallible setter as an Option.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Apply runs opts over target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError wraps a setter that cannot fail as an Option — every With*
// constructor in config uses this, since none of the resource bounds it
// sets can themselves be invalid.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}
