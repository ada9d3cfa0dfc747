// Package monotest provides an in-process mono service container for tests.
//
// Container dispatches request-reply calls straight to the registered
// handler, so an adapter and the module behind it can be exercised together
// without starting the embedded NATS server. Payloads still travel as bytes
// through the module's codecs.
package monotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-monolith/mono/pkg/types"
)

// Container is a types.ServiceContainer that only supports request-reply
// services. The remaining registration methods accept and ignore their input.
type Container struct {
	mu       sync.RWMutex
	handlers map[string]types.RequestReplyHandler
}

var _ types.ServiceContainer = (*Container)(nil)

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{handlers: make(map[string]types.RequestReplyHandler)}
}

// RegisterRequestReplyService stores handler under name.
func (c *Container) RegisterRequestReplyService(name string, handler types.RequestReplyHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.handlers[name]; exists {
		return fmt.Errorf("service %q already registered", name)
	}
	c.handlers[name] = handler
	return nil
}

// GetRequestReplyService returns a client that invokes the handler in-process.
func (c *Container) GetRequestReplyService(name string) (types.RequestReplyServiceClient, error) {
	c.mu.RLock()
	handler, ok := c.handlers[name]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("service %q not found", name)
	}
	return &client{name: name, handler: handler}, nil
}

// Has reports whether a request-reply service is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[name]
	return ok
}

// Unregister removes the service registered under name.
func (c *Container) Unregister(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, name)
	return nil
}

func (c *Container) BindModule(_ types.Module) error                  { return nil }
func (c *Container) SetEventBus(_ types.EventBus)                     {}
func (c *Container) SetQueueGroupOptimisticWindow(_ time.Duration)    {}
func (c *Container) SetMiddlewareChain(_ types.MiddlewareChainRunner) {}
func (c *Container) StartChannelRouters(_ context.Context)            {}
func (c *Container) Entries() []*types.ServiceEntry                   { return nil }

func (c *Container) RegisterChannelService(_ string, _ chan *types.Msg, _ chan *types.Msg) error {
	return nil
}

func (c *Container) RegisterQueueGroupService(_ string, _ ...types.QGHP) error {
	return nil
}

func (c *Container) RegisterStreamConsumerService(_ string, _ types.StreamConsumerConfig, _ types.StreamConsumerHandler) error {
	return nil
}

func (c *Container) GetChannelService(name string, _ string) (chan *types.Msg, chan *types.Msg, error) {
	return nil, nil, fmt.Errorf("channel service %q not supported", name)
}

func (c *Container) MustGetChannelService(name string, consumer string) (chan *types.Msg, chan *types.Msg) {
	in, out, err := c.GetChannelService(name, consumer)
	if err != nil {
		panic(err)
	}
	return in, out
}

func (c *Container) GetQueueGroupService(name string) (types.QueueGroupServiceClient, error) {
	return nil, fmt.Errorf("queue group service %q not supported", name)
}

func (c *Container) GetStreamConsumerService(name string) (types.StreamConsumerServiceClient, error) {
	return nil, fmt.Errorf("stream consumer service %q not supported", name)
}

type client struct {
	name    string
	handler types.RequestReplyHandler
}

func (c *client) Call(ctx context.Context, data []byte) (*types.Msg, error) {
	return c.CallMsg(ctx, &types.Msg{Data: data})
}

func (c *client) CallMsg(ctx context.Context, msg *types.Msg) (*types.Msg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := &types.Msg{Subject: "services." + c.name, Data: append([]byte(nil), msg.Data...), Header: msg.Header}
	data, err := c.handler(ctx, req)
	if err != nil {
		return nil, err
	}
	return &types.Msg{Subject: req.Subject, Data: data}, nil
}
