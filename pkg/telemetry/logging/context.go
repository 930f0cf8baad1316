package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for the identifier of one diagnostic run.
	RunIDKey contextKey = "run_id"

	// ServiceKey is the context key for the service label being probed.
	ServiceKey contextKey = "service"

	// HostKey is the context key for the hostname being probed.
	HostKey contextKey = "host"

	// StepKey is the context key for the current probe step number.
	StepKey contextKey = "step"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithService adds a service label to the context.
func WithService(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, ServiceKey, service)
}

// GetService retrieves the service label from the context.
func GetService(ctx context.Context) string {
	if service, ok := ctx.Value(ServiceKey).(string); ok {
		return service
	}
	return ""
}

// WithHost adds a hostname to the context.
func WithHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, HostKey, host)
}

// GetHost retrieves the hostname from the context.
func GetHost(ctx context.Context) string {
	if host, ok := ctx.Value(HostKey).(string); ok {
		return host
	}
	return ""
}

// WithStep adds a step number to the context.
func WithStep(ctx context.Context, step int) context.Context {
	return context.WithValue(ctx, StepKey, step)
}

// GetStep retrieves the step number from the context, or 0.
func GetStep(ctx context.Context) int {
	if step, ok := ctx.Value(StepKey).(int); ok {
		return step
	}
	return 0
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}
	if service := GetService(ctx); service != "" {
		fields = append(fields, "service", service)
	}
	if host := GetHost(ctx); host != "" {
		fields = append(fields, "host", host)
	}
	if step := GetStep(ctx); step != 0 {
		fields = append(fields, "step", step)
	}

	return fields
}
