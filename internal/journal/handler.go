package journal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// lineHandler is a slog handler writing each record as one flat JSON object:
// the record time plus its attributes at the top level. Level and message are
// dropped.
type lineHandler struct {
	out   io.Writer
	attrs []slog.Attr
}

func newLineHandler(out io.Writer) *lineHandler {
	return &lineHandler{out: out}
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	line := make(map[string]any, r.NumAttrs()+len(h.attrs)+1)
	line["time"] = r.Time.UTC().Format(time.RFC3339Nano)

	add := func(a slog.Attr) bool {
		if a.Key != "" && a.Value.Any() != nil {
			line[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	_, err = h.out.Write(append(data, '\n'))
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &lineHandler{out: h.out, attrs: merged}
}

// WithGroup is a no-op: journal lines are flat.
func (h *lineHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *lineHandler) Enabled(context.Context, slog.Level) bool {
	return true
}
