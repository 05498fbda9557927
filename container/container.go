// Package container is a small type-keyed injection container.
//
// It plays the part of the object-resolution service behind handler
// factories: "given a type, produce an instance or fail". Mediator handler
// factories call Resolve, and a failure surfaces to the sender unchanged as
// a *ResolutionError.
//
//	c := container.New()
//	container.Instance(c, &Dependency{})
//
//	mediator.Register(reg, func() (mediator.Handler[Ping, Pong], error) {
//	    dep, err := container.Resolve[*Dependency](c)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &PingHandler{dep: dep}, nil
//	})
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNotProvided is matched by resolution errors for types without a
// provider.
var ErrNotProvided = errors.New("container: no provider")

// ResolutionError reports that an instance of Type could not be produced.
// Cause is nil when no provider was registered.
type ResolutionError struct {
	Type  reflect.Type
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("container: no provider for %s", e.Type)
	}
	return fmt.Sprintf("container: resolve %s: %v", e.Type, e.Cause)
}

// Unwrap returns the provider's error.
func (e *ResolutionError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrNotProvided and no provider was found.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrNotProvided && e.Cause == nil
}

// Provider builds an instance, resolving its own dependencies from c.
type Provider func(c *Container) (any, error)

// Container maps types to providers. It is safe for concurrent use.
type Container struct {
	mu        sync.RWMutex
	providers map[reflect.Type]Provider
}

// New creates an empty Container.
func New() *Container {
	return &Container{providers: make(map[reflect.Type]Provider)}
}

// Bind registers p for t, replacing any earlier provider.
func (c *Container) Bind(t reflect.Type, p Provider) {
	if t == nil || p == nil {
		panic("container: nil type or provider")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[t] = p
}

// Get produces an instance of t.
func (c *Container) Get(t reflect.Type) (any, error) {
	c.mu.RLock()
	p, ok := c.providers[t]
	c.mu.RUnlock()

	if !ok {
		return nil, &ResolutionError{Type: t}
	}
	v, err := p(c)
	if err != nil {
		var re *ResolutionError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, &ResolutionError{Type: t, Cause: err}
	}
	return v, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Provide registers a constructor for T. It runs on every Resolve.
func Provide[T any](c *Container, fn func(c *Container) (T, error)) {
	c.Bind(typeOf[T](), func(c *Container) (any, error) {
		return fn(c)
	})
}

// Instance registers v as the single instance of T.
func Instance[T any](c *Container, v T) {
	c.Bind(typeOf[T](), func(*Container) (any, error) { return v, nil })
}

// Resolve produces an instance of T.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	v, err := c.Get(typeOf[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{
			Type:  typeOf[T](),
			Cause: fmt.Errorf("provider returned %T", v),
		}
	}
	return typed, nil
}
