package main

import (
	"log/slog"
	"net/http"

	adminhandler "finai/internal/admin"
	chathandler "finai/internal/assistant/handler"
	pipelinehandler "finai/internal/pipeline/handler"
	"finai/internal/platform/config"
	"finai/internal/platform/metrics"
	riskhandler "finai/internal/risk/handler"
	httptransport "finai/internal/transport/http"
)

func newRouter(cfg config.Config, a *app, in *infra, log *slog.Logger) http.Handler {
	return httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        metrics.New(),
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      a.limiter.ByMethod(),
		AdminValidator: a.tokens,
		Health:         in.Health,
		Public: []httptransport.Registrar{
			riskhandler.New(a.risk, log),
			pipelinehandler.New(a.pipeline, log),
			chathandler.New(a.assistant, log),
		},
		Admin: []httptransport.Registrar{
			adminhandler.New(a.publisher, log),
		},
	})
}
