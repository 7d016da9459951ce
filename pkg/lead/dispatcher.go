package lead

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Route binds a sink to its delivery policy.
type Route struct {
	Sink Sink
	// Required sinks must accept the lead for the submission to succeed.
	Required bool
}

// Report summarises one dispatch.
type Report struct {
	Delivered []string          `json:"delivered"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// Dispatcher delivers a lead to every route. Required routes run first and
// concurrently; optional routes only run once every required route accepted
// the lead, so notifications never announce a lead that was not stored.
type Dispatcher struct {
	routes  []Route
	timeout time.Duration
	log     *zap.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSinkTimeout bounds each individual delivery.
func WithSinkTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithDispatchLogger attaches a logger.
func WithDispatchLogger(log *zap.Logger) DispatcherOption {
	return func(disp *Dispatcher) {
		if log != nil {
			disp.log = log
		}
	}
}

func NewDispatcher(routes []Route, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		timeout: 10 * time.Second,
		log:     zap.NewNop(),
	}
	for _, route := range routes {
		if route.Sink != nil {
			d.routes = append(d.routes, route)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Routes returns the configured sink names in order.
func (d *Dispatcher) Routes() []string {
	names := make([]string, 0, len(d.routes))
	for _, route := range d.routes {
		names = append(names, route.Sink.Name())
	}
	return names
}

// Dispatch delivers l. The error is non-nil only when a required sink failed
// or ctx ended before required delivery completed.
func (d *Dispatcher) Dispatch(ctx context.Context, l Lead) (Report, error) {
	var (
		mu     sync.Mutex
		report = Report{Delivered: []string{}}
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			report.Delivered = append(report.Delivered, name)
			return
		}
		if report.Failed == nil {
			report.Failed = make(map[string]string)
		}
		report.Failed[name] = err.Error()
	}

	var required, optional []Route
	for _, route := range d.routes {
		if route.Required {
			required = append(required, route)
		} else {
			optional = append(optional, route)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, route := range required {
		eg.Go(func() error {
			err := d.deliver(egCtx, route.Sink, l)
			record(route.Sink.Name(), err)
			if err != nil {
				return fmt.Errorf("lead: deliver to %s: %w", route.Sink.Name(), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		d.log.Error("lead rejected", zap.String("lead_id", l.ID), zap.Error(err))
		sort.Strings(report.Delivered)
		return report, err
	}

	var optionalGroup errgroup.Group
	for _, route := range optional {
		optionalGroup.Go(func() error {
			err := d.deliver(ctx, route.Sink, l)
			record(route.Sink.Name(), err)
			if err != nil {
				d.log.Warn("optional lead delivery failed",
					zap.String("lead_id", l.ID),
					zap.String("sink", route.Sink.Name()),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = optionalGroup.Wait()

	sort.Strings(report.Delivered)
	d.log.Info("lead dispatched",
		zap.String("lead_id", l.ID),
		zap.Strings("delivered", report.Delivered),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, l Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return sink.Deliver(ctx, l)
}
