// Package pingpong holds the sample requests and handlers served by
// cmd/pingpong.
package pingpong

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/wire"

	"github.com/bjaus/mediator"
	"github.com/bjaus/mediator/container"
	"github.com/bjaus/mediator/envelope"
)

type Ping struct {
	mediator.Returns[Pong]
	Message string `json:"message"`
}

type Pong struct {
	Message string `json:"message"`
}

// Touch marks an id as seen.
type Touch struct {
	mediator.Void
	ID string `json:"id"`
}

func (t *Touch) Validate() error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// Echo answers its own value. One open handler serves every Echo[T].
type Echo[T any] struct {
	mediator.Returns[T]
	Value T `json:"value"`
}

func (Echo[T]) TypeArgs() mediator.TypeArgs {
	return mediator.TypeArgs{mediator.TypeOf[T]()}
}

func (e Echo[T]) echoed() any { return e.Value }

type Note struct {
	Text string `json:"text"`
}

// Touches counts Touch requests per id.
type Touches struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewTouches() *Touches {
	return &Touches{counts: make(map[string]int)}
}

// Count returns how often id was touched.
func (t *Touches) Count(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[id]
}

func (t *Touches) add(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[id]++
}

type PingHandler struct{}

func (PingHandler) Handle(ctx context.Context, p Ping) (Pong, error) {
	return Pong{Message: p.Message + " Pong"}, nil
}

type TouchHandler struct {
	touches *Touches
}

func (h *TouchHandler) Handle(ctx context.Context, t Touch) error {
	h.touches.add(t.ID)
	return nil
}

// EchoHandler serves the Echo instantiation whose type argument is arg.
type EchoHandler struct {
	arg reflect.Type
}

func (h *EchoHandler) HandleOpen(ctx context.Context, req any) (any, error) {
	e, ok := req.(interface{ echoed() any })
	if !ok {
		return nil, errors.New("pingpong: not an echo request")
	}
	v := e.echoed()
	if v != nil && !reflect.TypeOf(v).AssignableTo(h.arg) {
		return nil, fmt.Errorf("pingpong: echo of %s got %T", h.arg, v)
	}
	return v, nil
}

// NewContainer provides the dependencies handlers are built from.
func NewContainer(touches *Touches) *container.Container {
	c := container.New()
	container.Instance(c, touches)
	return c
}

// NewRegistry binds every pingpong handler. Handlers are constructed from c
// on each request.
func NewRegistry(c *container.Container) *mediator.Registry {
	reg := mediator.NewRegistry()

	mediator.RegisterHandler[Ping, Pong](reg, PingHandler{})

	mediator.RegisterVoid[Touch](reg, func() (mediator.VoidHandler[Touch], error) {
		touches, err := container.Resolve[*Touches](c)
		if err != nil {
			return nil, err
		}
		return &TouchHandler{touches: touches}, nil
	})

	mediator.RegisterOpen(reg, mediator.ShapeOf[Echo[string]](),
		func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
			return &EchoHandler{arg: args[0]}, nil
		},
		mediator.Any,
	)

	return reg
}

// NewCatalog lists the requests accepted over the wire.
func NewCatalog() *envelope.Catalog {
	c := envelope.New()
	envelope.Add[Ping](c)
	envelope.Add[Touch](c)
	envelope.Add[Echo[string]](c)
	envelope.Add[Echo[int]](c)
	envelope.Add[Echo[Note]](c)
	return c
}

// Set provides the pingpong registry, catalog and their dependencies.
var Set = wire.NewSet(NewTouches, NewContainer, NewRegistry, NewCatalog)
