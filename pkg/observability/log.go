package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to log.Default when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)

func (h *LogHooks) OnLayoutStart(_ context.Context, cards int) {
	h.logger.Debug("layout started", "cards", cards)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, cards int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "cards", cards, "err", err)
		return
	}
	h.logger.Debug("layout complete", "cards", cards, "duration", d)
}

func (h *LogHooks) OnAnimateStart(_ context.Context, cards int) {
	h.logger.Debug("animation started", "cards", cards)
}

func (h *LogHooks) OnAnimateComplete(_ context.Context, nodes int, timeline time.Duration, err error) {
	if err != nil {
		h.logger.Warn("animation failed", "err", err)
		return
	}
	h.logger.Debug("animation complete", "nodes", nodes, "timeline", timeline)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}
