package mediator_test

import (
	"context"
	"reflect"

	"github.com/bjaus/mediator"
	"github.com/bjaus/mediator/container"
)

type Ping struct {
	mediator.Returns[Pong]
	Message string
}

type Pong struct {
	Message string
}

func (p *Pong) pong() *Pong { return p }

// Ponger is satisfied by *Pong and by pointers to types embedding Pong.
type Ponger interface {
	pong() *Pong
}

type LoudPong struct {
	Pong
}

type PingHandler struct{}

func (PingHandler) Handle(ctx context.Context, p Ping) (Pong, error) {
	return Pong{Message: p.Message + " Pong"}, nil
}

type Dependency struct {
	Called         bool
	CalledSpecific bool
}

type VoidPing struct {
	mediator.Void
}

type VoidPingHandler struct {
	dep *Dependency
}

func (h *VoidPingHandler) Handle(ctx context.Context, p VoidPing) error {
	h.dep.Called = true
	return nil
}

type GenericPing[T Ponger] struct {
	mediator.Returns[T]
	Pong T
}

func (GenericPing[T]) TypeArgs() mediator.TypeArgs {
	return mediator.TypeArgs{mediator.TypeOf[T]()}
}

func (p GenericPing[T]) ponger() Ponger { return p.Pong }

type GenericPingHandler struct {
	dep *Dependency
	arg reflect.Type

	// observed records the type argument each instance was bound to.
	observed *[]reflect.Type
}

func (h *GenericPingHandler) HandleOpen(ctx context.Context, req any) (any, error) {
	h.dep.Called = true
	if h.observed != nil {
		*h.observed = append(*h.observed, h.arg)
	}
	p := req.(interface{ ponger() Ponger }).ponger()
	p.pong().Message += " Pong"
	return p, nil
}

type VoidGenericPing[T Ponger] struct {
	mediator.Void
}

func (VoidGenericPing[T]) TypeArgs() mediator.TypeArgs {
	return mediator.TypeArgs{mediator.TypeOf[T]()}
}

type VoidGenericPingHandler struct {
	dep *Dependency
}

func (h *VoidGenericPingHandler) HandleOpen(ctx context.Context, req any) (any, error) {
	h.dep.Called = true
	return nil, nil
}

// SpecificVoidGenericPingHandler serves only VoidGenericPing[*Pong].
type SpecificVoidGenericPingHandler struct {
	dep *Dependency
}

func (h *SpecificVoidGenericPingHandler) Handle(ctx context.Context, req VoidGenericPing[*Pong]) error {
	h.dep.CalledSpecific = true
	return nil
}

type TestInterface1 interface{ one() }
type TestInterface2 interface{ two() }
type TestInterface3 interface{ three() }

type TestClass1 struct{}
type TestClass2 struct{}
type TestClass3 struct{}

func (TestClass1) one() {}
func (TestClass2) two() {}
func (TestClass3) three() {}

type MultipleGenericTypeParameterRequest[T1 TestInterface1, T2 TestInterface2, T3 TestInterface3] struct {
	mediator.Returns[int]
	Foo int
}

func (MultipleGenericTypeParameterRequest[T1, T2, T3]) TypeArgs() mediator.TypeArgs {
	return mediator.TypeArgs{mediator.TypeOf[T1](), mediator.TypeOf[T2](), mediator.TypeOf[T3]()}
}

type MultipleGenericTypeParameterRequestHandler struct {
	dep *Dependency
}

func (h *MultipleGenericTypeParameterRequestHandler) HandleOpen(ctx context.Context, req any) (any, error) {
	h.dep.Called = true
	return 1, nil
}

// Unregistered has no handler anywhere.
type Unregistered struct {
	mediator.Returns[string]
}

type PtrPing struct {
	mediator.Returns[string]
	Message string
}

// PtrEmbedded reaches Returns through a pointer that is nil in its zero value.
type PtrEmbedded struct {
	*mediator.Returns[string]
}

type NestedPtrEmbedded struct {
	PtrEmbedded
}

// registerAll mirrors a registration scan over this file: every handler is
// constructed through c so that its Dependency is resolved per call.
func registerAll(reg *mediator.Registry, c *container.Container) {
	mediator.RegisterHandler[Ping, Pong](reg, PingHandler{})

	mediator.RegisterVoid[VoidPing](reg, func() (mediator.VoidHandler[VoidPing], error) {
		dep, err := container.Resolve[*Dependency](c)
		if err != nil {
			return nil, err
		}
		return &VoidPingHandler{dep: dep}, nil
	})

	mediator.RegisterOpen(reg, mediator.ShapeOf[GenericPing[*Pong]](),
		func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
			dep, err := container.Resolve[*Dependency](c)
			if err != nil {
				return nil, err
			}
			return &GenericPingHandler{dep: dep, arg: args[0]}, nil
		},
		mediator.Implements[Ponger](),
	)

	mediator.RegisterOpen(reg, mediator.ShapeOf[VoidGenericPing[*Pong]](),
		func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
			dep, err := container.Resolve[*Dependency](c)
			if err != nil {
				return nil, err
			}
			return &VoidGenericPingHandler{dep: dep}, nil
		},
		mediator.Implements[Ponger](),
	)

	mediator.RegisterOpen(reg, mediator.ShapeOf[MultipleGenericTypeParameterRequest[TestClass1, TestClass2, TestClass3]](),
		func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
			dep, err := container.Resolve[*Dependency](c)
			if err != nil {
				return nil, err
			}
			return &MultipleGenericTypeParameterRequestHandler{dep: dep}, nil
		},
		mediator.Implements[TestInterface1](),
		mediator.Implements[TestInterface2](),
		mediator.Implements[TestInterface3](),
	)
}
