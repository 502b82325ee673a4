package build

import (
	"context"
	"log/slog"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// HandlerSet fans log records out to several btclog handlers, typically the
// console and the rotating log file. A record is delivered to every handler
// that has its level enabled.
type HandlerSet struct {
	level btclog.Level
	set   []btclogv2.Handler
}

// NewHandlerSet builds a HandlerSet over the given handlers, all starting at
// the info level.
func NewHandlerSet(handlers ...btclogv2.Handler) *HandlerSet {
	h := &HandlerSet{set: handlers}
	h.SetLevel(btclog.LevelInfo)

	return h
}

// Enabled reports whether any member handles records at the given level.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) Enabled(ctx context.Context, level slog.Level) bool {
	return anyEnabled(ctx, level, h.slogHandlers())
}

// Handle dispatches the record to every member with the level enabled.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) Handle(ctx context.Context, record slog.Record) error {
	return dispatch(ctx, record, h.slogHandlers())
}

// WithAttrs returns a plain slog fan-out carrying the extra attributes.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive().WithAttrs(attrs)
}

// WithGroup returns a plain slog fan-out nested under the group.
//
// NOTE: this is part of the slog.Handler interface.
func (h *HandlerSet) WithGroup(name string) slog.Handler {
	return h.derive().WithGroup(name)
}

// SubSystem tags every member with the sub-system name.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) SubSystem(tag string) btclogv2.Handler {
	return h.mapHandlers(func(b btclogv2.Handler) btclogv2.Handler {
		return b.SubSystem(tag)
	})
}

// WithPrefix prefixes every message of every member.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) WithPrefix(prefix string) btclogv2.Handler {
	return h.mapHandlers(func(b btclogv2.Handler) btclogv2.Handler {
		return b.WithPrefix(prefix)
	})
}

// SetLevel changes the level of every member.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) SetLevel(level btclog.Level) {
	for _, handler := range h.set {
		handler.SetLevel(level)
	}
	h.level = level
}

// Level returns the level last applied with SetLevel.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *HandlerSet) Level() btclog.Level {
	return h.level
}

func (h *HandlerSet) mapHandlers(
	f func(btclogv2.Handler) btclogv2.Handler) *HandlerSet {

	mapped := &HandlerSet{
		level: h.level,
		set:   make([]btclogv2.Handler, len(h.set)),
	}
	for i, handler := range h.set {
		mapped.set[i] = f(handler)
	}

	return mapped
}

func (h *HandlerSet) slogHandlers() []slog.Handler {
	handlers := make([]slog.Handler, len(h.set))
	for i, handler := range h.set {
		handlers[i] = handler
	}

	return handlers
}

func (h *HandlerSet) derive() *fanout {
	return &fanout{set: h.slogHandlers()}
}

// A compile time check to ensure HandlerSet implements btclog.Handler.
var _ btclogv2.Handler = (*HandlerSet)(nil)

// fanout is the slog-only form of a HandlerSet, produced once attributes or
// groups are attached.
type fanout struct {
	set []slog.Handler
}

// Enabled reports whether any member handles records at the given level.
func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return anyEnabled(ctx, level, f.set)
}

// Handle dispatches the record to every member with the level enabled.
func (f *fanout) Handle(ctx context.Context, record slog.Record) error {
	return dispatch(ctx, record, f.set)
}

// WithAttrs attaches attributes to every member.
func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &fanout{set: make([]slog.Handler, len(f.set))}
	for i, handler := range f.set {
		next.set[i] = handler.WithAttrs(attrs)
	}

	return next
}

// WithGroup nests every member under the group.
func (f *fanout) WithGroup(name string) slog.Handler {
	next := &fanout{set: make([]slog.Handler, len(f.set))}
	for i, handler := range f.set {
		next.set[i] = handler.WithGroup(name)
	}

	return next
}

// A compile time check to ensure fanout implements slog.Handler.
var _ slog.Handler = (*fanout)(nil)

func anyEnabled(ctx context.Context, level slog.Level,
	handlers []slog.Handler) bool {

	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func dispatch(ctx context.Context, record slog.Record,
	handlers []slog.Handler) error {

	for _, handler := range handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}

	return nil
}
