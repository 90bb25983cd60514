package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/observability"
)

// logHooks reports pipeline events as debug log lines. It is installed by
// --verbose.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SolveHooks = logHooks{}
	_ observability.CacheHooks = logHooks{}
	_ observability.JobHooks   = logHooks{}
)

func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetSolveHooks(h)
	observability.SetCacheHooks(h)
	observability.SetJobHooks(h)
}

func (h logHooks) OnSolveStart(_ context.Context, instance string, modules int) {
	h.logger.Debug("solve started", "instance", instance, "modules", modules)
}

func (h logHooks) OnTrial(_ context.Context, instance string, height int, outcome string, d time.Duration) {
	h.logger.Debug("check", "instance", instance, "height", height, "outcome", outcome, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnSolveComplete(_ context.Context, instance, status string, height int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "instance", instance, "duration", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("solve finished", "instance", instance, "status", status, "height", height, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnJobQueued(_ context.Context, id string) {
	h.logger.Debug("job queued", "id", id)
}

func (h logHooks) OnJobFinished(_ context.Context, id, status string, d time.Duration) {
	h.logger.Debug("job finished", "id", id, "status", status, "duration", d.Round(time.Millisecond))
}
