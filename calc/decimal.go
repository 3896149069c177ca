package calc

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"
)

type apdContextKey struct{}

// WithAPDContext sets the apd.Context used for all magnitude arithmetic
// during evaluation.
//
// The apd.Context controls the precision and rounding behavior of
// decimal operations. By default the evaluator keeps 34 significant
// digits (roughly Decimal128), which leaves plenty of headroom for the
// scale factors of prefixed units. Override it when you need more
// headroom for intermediates or want to experiment with tighter
// contexts:
//
//	ctx := calc.WithAPDContext(context.Background(), apd.BaseContext.WithPrecision(10))
func WithAPDContext(ctx context.Context, apdCtx *apd.Context) context.Context {
	return context.WithValue(ctx, apdContextKey{}, apdCtx)
}

const defaultDecimalPrecision uint32 = 34

var defaultAPDContext = apd.BaseContext.WithPrecision(defaultDecimalPrecision)

func apdContext(ctx context.Context) *apd.Context {
	if ctx != nil {
		if apdCtx, ok := ctx.Value(apdContextKey{}).(*apd.Context); ok && apdCtx != nil {
			return apdCtx
		}
	}
	return defaultAPDContext
}

type evaluationInstantKey struct{}

// WithEvaluationInstant pins the instant that the literal "now"
// resolves to. Without it, every evaluation reads the system clock
// once when it starts.
func WithEvaluationInstant(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, evaluationInstantKey{}, t)
}

func evaluationInstant(ctx context.Context) time.Time {
	if ctx != nil {
		if t, ok := ctx.Value(evaluationInstantKey{}).(time.Time); ok {
			return t
		}
	}
	return time.Now()
}
