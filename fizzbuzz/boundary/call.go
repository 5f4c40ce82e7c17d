package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/batch"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/format"
)

// Reply is the rendered answer to a call: one string for a scalar argument,
// a list of strings for a list or slice argument.
type Reply struct {
	Scalar string
	List   []string
	IsList bool
}

// String returns the scalar answer, or the list answers joined with
// format.DefaultSeparator.
func (r Reply) String() string {
	if r.IsList {
		return strings.Join(r.List, format.DefaultSeparator)
	}
	return r.Scalar
}

// MarshalJSON encodes a scalar reply as a JSON string and a list reply as
// an array of strings.
func (r Reply) MarshalJSON() ([]byte, error) {
	if !r.IsList {
		return json.Marshal(r.Scalar)
	}
	if r.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.List)
}

func scalarReply(o core.Outcome) Reply {
	return Reply{Scalar: o.String()}
}

func listReply(outcomes []core.Outcome) Reply {
	return Reply{List: format.Strings(outcomes), IsList: true}
}

// Caller dispatches decoded arguments. The zero Caller is ready to use: it
// takes the Processor from the context and does not log.
type Caller struct {
	// Processor evaluates list and slice arguments. Nil selects the one
	// attached to the context with batch.WithProcessor, or the default.
	Processor *batch.Processor

	// Logger receives a debug record per call and a warning when a Numeric
	// type falls back to echoing its input. Nil disables logging.
	Logger *slog.Logger
}

// Call classifies arg. Scalars go straight to the classifier; lists and
// slices go through the batch processor. A slice with a zero step fails
// with core.ErrInvalidStep.
func (c Caller) Call(ctx context.Context, arg Arg) (Reply, error) {
	if c.Logger != nil {
		c.Logger.LogAttrs(ctx, slog.LevelDebug, "fizzbuzz call",
			slog.String("kind", arg.kind.String()),
			slog.Int("len", arg.Len()),
		)
	}

	switch arg.kind {
	case ArgInt:
		return scalarReply(core.Classify(arg.i)), nil
	case ArgFloat:
		return scalarReply(core.ClassifyFloat(arg.f)), nil
	case ArgBig:
		return scalarReply(core.ClassifyNumeric(core.Big(arg.big))), nil
	}

	var (
		outcomes []core.Outcome
		err      error
	)
	switch arg.kind {
	case ArgIntList:
		outcomes, err = batch.Integers(ctx, c.Processor, batch.Slice[int64](arg.ints))
	case ArgFloatList:
		outcomes, err = batch.Floats(ctx, c.Processor, batch.Slice[float64](arg.floats))
	case ArgSlice:
		outcomes, err = batch.Integers(ctx, c.Processor, arg.rng)
	default:
		return Reply{}, fmt.Errorf("%w: empty argument", core.ErrInvalidArgument)
	}
	if err != nil {
		return Reply{}, err
	}
	return listReply(outcomes), nil
}

// CallValue decodes v with Decode and classifies it.
func (c Caller) CallValue(ctx context.Context, v any) (Reply, error) {
	arg, err := Decode(v)
	if err != nil {
		return Reply{}, err
	}
	return c.Call(ctx, arg)
}

// CallJSON decodes a JSON payload with DecodeJSON and classifies it.
func (c Caller) CallJSON(ctx context.Context, data []byte) (Reply, error) {
	arg, err := DecodeJSON(data)
	if err != nil {
		return Reply{}, err
	}
	return c.Call(ctx, arg)
}

// Call classifies arg with a zero Caller using Processor p.
func Call(ctx context.Context, p *batch.Processor, arg Arg) (Reply, error) {
	return Caller{Processor: p}.Call(ctx, arg)
}

// CallNumeric classifies a value of a custom Numeric type. A type that
// cannot build the literals 0, 3 and 5 is answered with its own text, and
// the fallback is logged as core.ErrUnsupportedType; the answer itself is
// never an error.
func CallNumeric[T core.Numeric[T]](ctx context.Context, c Caller, v T) Reply {
	if c.Logger != nil && !core.Supports(v) {
		c.Logger.LogAttrs(ctx, slog.LevelWarn, "numeric fallback",
			slog.String("type", fmt.Sprintf("%T", v)),
			slog.Any("error", core.ErrUnsupportedType),
		)
	}
	return scalarReply(core.ClassifyNumeric(v))
}
