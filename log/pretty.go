package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to a
// renderer for the handler's output, so they render plain text unless the
// output is a color terminal.
type palette struct {
	key, str, num, null lipgloss.Style
	yes, no, dur, when  lipgloss.Style
	levels              [4]lipgloss.Style // error, warn, info, debug and below
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		null: fg("8"),
		yes:  fg("2"),
		no:   fg("1"),
		dur:  fg("5"),
		when: fg("4"),
		levels: [4]lipgloss.Style{
			fg("1").Bold(true),
			fg("3").Bold(true),
			fg("2"),
			fg("4"),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[0]
	case l >= slog.LevelWarn:
		return p.levels[1]
	case l >= slog.LevelInfo:
		return p.levels[2]
	default:
		return p.levels[3]
	}
}

func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(singleLine(v.String()))
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(singleLine(fmt.Sprint(v.Any())))
	}
}

// singleLine quotes s if it would break the one-record-per-line layout.
func singleLine(s string) string {
	if strings.ContainsAny(s, "\n\r\t") {
		return strconv.Quote(s)
	}

	return s
}

// prettyHandler writes colorized records in one of two layouts. The text
// layout is key=value pairs on a single line, and the JSON layout is an
// unquoted object with one attribute per line.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    palette
	attrs  []slog.Attr
	prefix string
	format Format
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, format Format) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}

	return level >= minimum
}

type field struct{ key, value string }

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr, style func(slog.Value) string) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, field{a.Key, style(a.Value)})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time), func(v slog.Value) string {
			return h.pal.when.Render(v.String())
		})
	}

	builtin(slog.Any(slog.LevelKey, r.Level), func(v slog.Value) string {
		return h.pal.level(r.Level).Render(v.String())
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)), h.pal.value)
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message), h.pal.value)

	appendAttr := func(a slog.Attr) {
		fields = append(fields, field{a.Key, h.pal.value(a.Value)})
	}

	for _, a := range h.attrs {
		appendAttr(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		flatten(h.prefix, a, appendAttr)

		return true
	})

	var buf bytes.Buffer

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(h.pal.key.Render(f.key))
			buf.WriteString(": ")
			buf.WriteString(f.value)
		}

		buf.WriteString("\n}\n")

	default:
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.pal.key.Render(f.key))
			buf.WriteByte('=')
			buf.WriteString(f.value)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		flatten(h.prefix, a, func(a slog.Attr) { c.attrs = append(c.attrs, a) })
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = join(h.prefix, name)

	return &c
}

// flatten resolves a and emits it, or each member of it if it is a group,
// with keys qualified by prefix.
func flatten(prefix string, a slog.Attr, emit func(slog.Attr)) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			flatten(join(prefix, a.Key), member, emit)
		}

		return
	}

	if a.Key == "" {
		return
	}

	a.Key = join(prefix, a.Key)
	emit(a)
}

func join(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}
