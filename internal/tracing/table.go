package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/signup/internal/registry/domain"
)

// TracedTable wraps a domain.Table and records one span per call.
type TracedTable struct {
	next   domain.Table
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

var _ domain.Table = (*TracedTable)(nil)

// NewTracedTable instruments next. system names the backend ("postgrest", "sqlite").
func NewTracedTable(next domain.Table, tracer trace.Tracer, system, table string) *TracedTable {
	return &TracedTable{
		next:   next,
		tracer: tracer,
		attrs: []attribute.KeyValue{
			attribute.String(AttrDBSystem, system),
			attribute.String(AttrDBTable, table),
		},
	}
}

func (t *TracedTable) SelectAll(ctx context.Context) ([]domain.Registrant, error) {
	ctx, span := t.tracer.Start(ctx, SpanSelectAll,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.attrs...),
		trace.WithAttributes(attribute.String(AttrDBOperation, "select")),
	)
	defer span.End()

	rows, err := t.next.SelectAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(AttrRowCount, len(rows)))
	return rows, nil
}

func (t *TracedTable) Insert(ctx context.Context, r domain.Registrant) error {
	ctx, span := t.tracer.Start(ctx, SpanInsert,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(t.attrs...),
		trace.WithAttributes(
			attribute.String(AttrDBOperation, "insert"),
			attribute.String(AttrName, r.Name),
		),
	)
	defer span.End()

	if err := t.next.Insert(ctx, r); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
