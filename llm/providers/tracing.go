package providers

import (
	"context"
	"fmt"
	"log/slog"

	"docanalyzer/config"

	clc "github.com/cloudwego/eino-ext/callbacks/cozeloop"
	"github.com/cloudwego/eino/callbacks"
	"github.com/coze-dev/cozeloop-go"
)

// SetupTracing registers a CozeLoop callback handler for every eino
// component call when both credentials are configured. The returned
// function flushes and closes the client; it is never nil.
func SetupTracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(context.Context), error) {
	noop := func(context.Context) {}
	if !cfg.TracingEnabled() {
		return noop, nil
	}

	client, err := cozeloop.NewClient(
		cozeloop.WithAPIToken(cfg.CozeLoopToken),
		cozeloop.WithWorkspaceID(cfg.CozeLoopWorkspaceID),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create cozeloop client: %w", err)
	}
	callbacks.AppendGlobalHandlers(clc.NewLoopHandler(client))
	logger.Info("model call tracing enabled", "workspace", cfg.CozeLoopWorkspaceID)

	return func(ctx context.Context) {
		client.Close(ctx)
	}, nil
}
