// Package commands holds the invocable operations exposed to the
// presentation layer and the registry that dispatches them by name.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pentamind/internal/logger"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidName      = errors.New("invalid command name")
	ErrInvalidArgs      = errors.New("invalid command arguments")
)

const tracerName = "pentamind/internal/commands"

// Handler runs one command. Handlers must be safe for concurrent use.
type Handler func(ctx context.Context, args Args) (any, error)

// Args are the named arguments of one invocation.
type Args map[string]any

// String returns the named argument. A missing key yields "".
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgs, key, v)
	}
	return s, nil
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   logger.Logger
	tracer   trace.Tracer
}

type Option func(*Registry)

func WithLogger(log logger.Logger) Option {
	return func(r *Registry) { r.logger = log }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Registry) { r.tracer = tp.Tracer(tracerName) }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		logger:   logger.NoOpLogger{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(name string, h Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.handlers[name] = h
	return nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches name with args and returns the handler's result.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	id := uuid.NewString()
	ctx, span := r.tracer.Start(ctx, "command "+name,
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.String("command.invocation_id", id),
		))
	defer span.End()

	start := time.Now()
	result, err := h(ctx, args)
	fields := map[string]interface{}{
		"command":       name,
		"invocation_id": id,
		"duration_ms":   time.Since(start).Milliseconds(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warning("Commands", "invocation failed", fieldsWithError(fields, err))
		return nil, err
	}

	r.logger.Debug("Commands", "invocation completed", fields)
	return result, nil
}

func fieldsWithError(fields map[string]interface{}, err error) map[string]interface{} {
	fields["error"] = err.Error()
	return fields
}
