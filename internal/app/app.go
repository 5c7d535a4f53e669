// Package app wires configuration, logging, the API client and the entity
// handlers behind one tier's router. Both binaries are thin wrappers over Run.
package app

import (
	"context"

	"github.com/houzhh15/shortcut-skills/internal/client"
	"github.com/houzhh15/shortcut-skills/internal/config"
	"github.com/houzhh15/shortcut-skills/internal/entities"
	"github.com/houzhh15/shortcut-skills/internal/identity"
	"github.com/houzhh15/shortcut-skills/internal/output"
	"github.com/houzhh15/shortcut-skills/internal/router"
	"github.com/houzhh15/shortcut-skills/pkg/logger"
	"github.com/houzhh15/shortcut-skills/pkg/metrics"
)

// Run 加载配置并执行一次路由，返回进程退出码
func Run(ctx context.Context, tier router.Tier, table router.CapabilityTable, args []string, stdio output.Stdio) int {
	cfg, err := config.Load()
	if err != nil {
		output.Error(stdio.Err, err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		File:        cfg.LogFile,
		Output:      stdio.Err,
	})
	if err != nil {
		output.Error(stdio.Err, err)
		return 1
	}

	api := &lazyClient{token: cfg.Token, opts: []client.Option{client.WithBaseURL(cfg.BaseURL), client.WithLogger(log)}}
	deps := entities.Deps{
		API:                    api,
		Identity:               identity.NewResolver(api, cfg.CurrentUserID, log),
		DefaultWorkflowStateID: cfg.DefaultWorkflowStateID,
		Logger:                 log,
	}
	r := router.New(tier, table, entities.Default(deps), router.WithLogger(log))

	code := r.Run(ctx, args, stdio)
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		log.Warn("write metrics textfile failed", "path", cfg.MetricsFile, "error", err)
	}
	return code
}

// lazyClient 在第一次请求时才创建 client.Client，
// 因此路由校验失败不需要凭证，缺少凭证时也不会发出任何请求
type lazyClient struct {
	token string
	opts  []client.Option
	c     *client.Client
}

func (l *lazyClient) Do(ctx context.Context, r client.Request) (any, error) {
	if l.c == nil {
		c, err := client.New(l.token, l.opts...)
		if err != nil {
			return nil, err
		}
		l.c = c
	}
	return l.c.Do(ctx, r)
}

var _ entities.API = (*lazyClient)(nil)
