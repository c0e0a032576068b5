package output

import "context"

type (
	formatKey  struct{}
	queryKey   struct{}
	shapingKey struct{}
	quietKey   struct{}
)

// WithFormat attaches the resolved output format.
func WithFormat(ctx context.Context, format Format) context.Context {
	return context.WithValue(ctx, formatKey{}, format)
}

// FormatFromContext returns the output format, FormatAuto when none is set.
func FormatFromContext(ctx context.Context) Format {
	if v, ok := ctx.Value(formatKey{}).(Format); ok {
		return v
	}
	return FormatAuto
}

// WithQuery attaches a jq expression for JSON and NDJSON output.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

func QueryFromContext(ctx context.Context) string {
	q, _ := ctx.Value(queryKey{}).(string)
	return q
}

// Shaping selects and orders body rows before anything is printed.
type Shaping struct {
	// Limit is the number of body rows kept. Zero keeps all of them.
	Limit int
	// SortBy names a column by header or zero-based index.
	SortBy string
	Desc   bool
}

func (s Shaping) active() bool {
	return s.Limit > 0 || s.SortBy != ""
}

// WithShaping attaches the --result-limit, --result-sort-by and
// --result-desc settings.
func WithShaping(ctx context.Context, s Shaping) context.Context {
	return context.WithValue(ctx, shapingKey{}, s)
}

func ShapingFromContext(ctx context.Context) Shaping {
	s, _ := ctx.Value(shapingKey{}).(Shaping)
	return s
}

// WithQuiet sets --quiet. Quiet commands print only their primary result.
func WithQuiet(ctx context.Context, quiet bool) context.Context {
	return context.WithValue(ctx, quietKey{}, quiet)
}

func QuietFromContext(ctx context.Context) bool {
	q, _ := ctx.Value(quietKey{}).(bool)
	return q
}
