// Package proxy is the entry point for creating proxies. A Builder validates
// requests, generates implementations on first use and shares them between
// all later requests with the same fingerprint.
//
//	service := typeinfo.MustClassOf[Service]()
//	p, err := proxy.NewClassProxy(service, interceptor.NewChain(
//	    interceptor.Logging(logger.Logger()),
//	).Then(interceptor.Proceed()))
//	sum, err := p.Invoke("Sum", 20, 25)
package proxy

import (
	"context"
	"fmt"
	"sync"

	"github.com/anoideaopen/proxy/core/interceptor"
	"github.com/anoideaopen/proxy/core/logger"
	"github.com/anoideaopen/proxy/core/proxyerr"
	"github.com/anoideaopen/proxy/core/proxygen"
	"github.com/anoideaopen/proxy/core/telemetry"
	"github.com/anoideaopen/proxy/core/typecache"
	"github.com/anoideaopen/proxy/core/typeinfo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	Implementation = proxygen.Implementation
	Instance       = proxygen.Instance
	Context        = proxygen.Context
)

// Builder creates proxies and owns the implementation cache. It is safe for
// concurrent use.
type Builder struct {
	cache  *typecache.Cache[*Implementation]
	log    *logrus.Entry
	tracer trace.Tracer
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for generation events.
func WithLogger(entry *logrus.Entry) Option {
	return func(b *Builder) {
		b.log = entry
	}
}

// WithTracer sets the tracer for generation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(b *Builder) {
		b.tracer = tracer
	}
}

// NewBuilder returns a builder with an empty cache.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		cache: typecache.New[*Implementation](),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.log == nil {
		b.log = logger.Logger()
	}
	if b.tracer == nil {
		b.tracer = telemetry.Tracer()
	}

	return b
}

var defaultBuilder = sync.OnceValue(func() *Builder { return NewBuilder() })

// Default returns the process-wide builder.
func Default() *Builder {
	return defaultBuilder()
}

// CreateInterfaceProxy returns the implementation of a proxy for ifaces.
func (b *Builder) CreateInterfaceProxy(ifaces ...*typeinfo.Type) (*Implementation, error) {
	return b.CreateInterfaceProxyWithContext(Context{}, ifaces...)
}

// CreateInterfaceProxyWithContext is CreateInterfaceProxy with generation options.
func (b *Builder) CreateInterfaceProxyWithContext(ctx Context, ifaces ...*typeinfo.Type) (*Implementation, error) {
	d, err := proxygen.NewInterfaceDescriptor(ctx, ifaces...)
	if err != nil {
		return nil, err
	}

	return b.implementation(d)
}

// CreateClassProxy returns the implementation of a proxy for class.
func (b *Builder) CreateClassProxy(class *typeinfo.Type) (*Implementation, error) {
	return b.CreateClassProxyWithContext(Context{}, class)
}

// CreateClassProxyWithContext is CreateClassProxy with generation options.
func (b *Builder) CreateClassProxyWithContext(ctx Context, class *typeinfo.Type) (*Implementation, error) {
	d, err := proxygen.NewClassDescriptor(ctx, class)
	if err != nil {
		return nil, err
	}

	return b.implementation(d)
}

// NewInterfaceProxy creates an interface proxy instance dispatching to handler.
func (b *Builder) NewInterfaceProxy(handler interceptor.Handler, ifaces ...*typeinfo.Type) (*Instance, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", proxyerr.ErrArgument)
	}

	impl, err := b.CreateInterfaceProxy(ifaces...)
	if err != nil {
		return nil, err
	}

	return impl.NewInstance(handler)
}

// NewClassProxy creates a class proxy instance. ctorArgs select and feed the
// base class constructor.
func (b *Builder) NewClassProxy(class *typeinfo.Type, handler interceptor.Handler, ctorArgs ...any) (*Instance, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", proxyerr.ErrArgument)
	}

	impl, err := b.CreateClassProxy(class)
	if err != nil {
		return nil, err
	}

	return impl.NewInstance(handler, ctorArgs...)
}

// Len returns the number of cached implementations.
func (b *Builder) Len() int {
	return b.cache.Len()
}

// Stats returns the cache counters.
func (b *Builder) Stats() typecache.Stats {
	return b.cache.Stats()
}

func (b *Builder) implementation(d proxygen.Descriptor) (*Implementation, error) {
	fp := d.Fingerprint()
	log := b.log.WithFields(logrus.Fields{
		"fingerprint": fp.Short(),
		"proxy":       d.Name(),
	})

	impl, created, err := b.cache.GetOrCreate(fp, func() (*Implementation, error) {
		return b.generate(d, log)
	})
	if err != nil {
		log.WithError(err).Warn("proxy generation failed")
		return nil, err
	}

	if created {
		log.WithField("slots", len(impl.Slots())).Info("proxy implementation generated")
	} else {
		log.Debug("proxy implementation reused")
	}

	return impl, nil
}

func (b *Builder) generate(d proxygen.Descriptor, log *logrus.Entry) (*Implementation, error) {
	_, span := b.tracer.Start(context.Background(), "proxy.generate", trace.WithAttributes(
		attribute.String("proxy.name", d.Name()),
		attribute.String("proxy.kind", d.Kind().String()),
	))
	defer span.End()

	log.Debug("generating proxy implementation")

	impl, err := proxygen.Generate(d)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("proxy.intercepted", len(impl.Intercepted())))

	return impl, nil
}
