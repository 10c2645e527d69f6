package log

import (
	"context"
	"time"

	"github.com/forecast-ops/job-tracker/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger traces service operations. Operation start, steps and
// success are logged at debug level; failures at error level.
//
//	tracer := logger.WithContext(ctx).Operation("retry_job").WithString("job_id", id).Build()
//	...
//	tracer.Success().WithString("status", "pending").Log()
type StructuredLogger struct {
	name string
	ctx  context.Context
}

func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, ctx: context.Background()}
}

// WithContext returns a copy bound to ctx. The request id found in ctx is
// attached to every line.
func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	return &StructuredLogger{name: l.name, ctx: ctx}
}

func (l *StructuredLogger) Operation(name string) *OperationBuilder {
	fields := []zap.Field{zap.String("operation", name)}
	if id := requestid.FromContext(l.ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return &OperationBuilder{
		logger:    zap.L().Named(l.name),
		operation: name,
		fields:    fields,
	}
}

type OperationBuilder struct {
	logger    *zap.Logger
	operation string
	fields    []zap.Field
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *OperationBuilder) WithStringPtr(key string, value *string) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, zap.String(key, *value))
	}
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.fields = append(b.fields, zap.Any(key, value))
	return b
}

func (b *OperationBuilder) Build() *OperationTracer {
	t := &OperationTracer{
		logger:    b.logger.With(b.fields...),
		operation: b.operation,
		start:     time.Now(),
	}
	t.logger.Debug("operation started")
	return t
}

type OperationTracer struct {
	logger    *zap.Logger
	operation string
	start     time.Time
}

func (t *OperationTracer) Step(name string) *Event {
	return t.event(zapcore.DebugLevel, "operation step", zap.String("step", name))
}

func (t *OperationTracer) Success() *Event {
	return t.event(zapcore.DebugLevel, "operation succeeded", zap.Duration("duration", time.Since(t.start)))
}

func (t *OperationTracer) Error(err error) *Event {
	return t.event(zapcore.ErrorLevel, "operation failed", zap.Error(err), zap.Duration("duration", time.Since(t.start)))
}

func (t *OperationTracer) event(level zapcore.Level, msg string, fields ...zap.Field) *Event {
	return &Event{logger: t.logger, level: level, msg: msg, fields: fields}
}

type Event struct {
	logger *zap.Logger
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

func (e *Event) WithString(key, value string) *Event {
	e.fields = append(e.fields, zap.String(key, value))
	return e
}

func (e *Event) WithInt(key string, value int) *Event {
	e.fields = append(e.fields, zap.Int(key, value))
	return e
}

func (e *Event) WithParam(key string, value any) *Event {
	e.fields = append(e.fields, zap.Any(key, value))
	return e
}

func (e *Event) Log() {
	if ce := e.logger.Check(e.level, e.msg); ce != nil {
		ce.Write(e.fields...)
	}
}
