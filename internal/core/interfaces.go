package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

// Telemetry records traces and metrics for pipeline runs.
type Telemetry interface {
	Tracer() trace.Tracer
	RecordRun(ctx context.Context, mode types.OrderMode, duration time.Duration, summary *types.Summary, err error)
	Close() error
}
