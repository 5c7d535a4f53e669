// Package router validates <entity> <operation> pairs against a tier's
// capability table and dispatches accepted pairs to the entity handlers.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/houzhh15/shortcut-skills/internal/entities"
	"github.com/houzhh15/shortcut-skills/internal/output"
	"github.com/houzhh15/shortcut-skills/pkg/logger"
	"github.com/houzhh15/shortcut-skills/pkg/metrics"
)

// Registry 按实体名查找处理器，由 *entities.Registry 实现
type Registry interface {
	Get(name string) (entities.Handler, bool)
}

// Router 一个权限层的命令路由
type Router struct {
	tier     Tier
	table    CapabilityTable
	registry Registry
	logger   *slog.Logger
}

// Option 配置 Router
type Option func(*Router)

// WithLogger 设置路由日志
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New 创建路由
func New(tier Tier, table CapabilityTable, registry Registry, opts ...Option) *Router {
	r := &Router{tier: tier, table: table, registry: registry, logger: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program 返回本层对应的命令名
func (r *Router) Program() string { return "shortcut-api-" + string(r.tier) }

// Resolve 校验实体与操作并查找处理器，不执行任何操作
func (r *Router) Resolve(entity, operation string) (entities.Handler, error) {
	ops, ok := r.table[entity]
	if !ok {
		available := r.table.Entities()
		return nil, errors.WithHintf(&UnknownEntityError{Tier: r.tier, Entity: entity, Available: available},
			"Available entities: %s", strings.Join(available, ", "))
	}
	if !r.table.Allows(entity, operation) {
		return nil, errors.WithHintf(&DisallowedOperationError{Tier: r.tier, Entity: entity, Operation: operation, Allowed: ops},
			"Available %s operations: %s", r.tier, strings.Join(ops, ", "))
	}
	h, ok := r.registry.Get(entity)
	if !ok {
		return nil, &HandlerNotFoundError{Entity: entity}
	}
	return h, nil
}

// Run 处理 <entity> <operation> [args...]，返回进程退出码。
// 校验失败时不会调用任何处理器。
func (r *Router) Run(ctx context.Context, args []string, stdio output.Stdio) int {
	if len(args) < 2 {
		fmt.Fprintf(stdio.Err, "Usage: %s <entity> <operation> [args...]\n\nAvailable entities: %s\n",
			r.Program(), strings.Join(r.table.Entities(), ", "))
		metrics.RecordDispatch(string(r.tier), "", "", "usage")
		return 1
	}
	entity, operation := args[0], args[1]

	h, err := r.Resolve(entity, operation)
	if err != nil {
		r.logger.Info("dispatch rejected", "tier", r.tier, "entity", entity, "operation", operation, "error", err)
		entityLabel, operationLabel := r.labels(entity, operation)
		metrics.RecordDispatch(string(r.tier), entityLabel, operationLabel, rejection(err))
		output.Error(stdio.Err, err)
		return 1
	}

	r.logger.Debug("dispatch", "tier", r.tier, "entity", entity, "operation", operation)
	code := h.Run(ctx, append([]string{operation}, args[2:]...), stdio)
	outcome := "completed"
	if code != 0 {
		outcome = "failed"
	}
	metrics.RecordDispatch(string(r.tier), entity, operation, outcome)
	r.logger.Debug("dispatch finished", "entity", entity, "operation", operation, "exit_code", code)
	return code
}

// labels 将不在能力表中的实体与操作折叠为 OtherLabel
func (r *Router) labels(entity, operation string) (string, string) {
	if _, ok := r.table[entity]; !ok {
		return metrics.OtherLabel, metrics.OtherLabel
	}
	if !r.table.Allows(entity, operation) {
		return entity, metrics.OtherLabel
	}
	return entity, operation
}

func rejection(err error) string {
	var unknown *UnknownEntityError
	var disallowed *DisallowedOperationError
	switch {
	case errors.As(err, &unknown):
		return "unknown_entity"
	case errors.As(err, &disallowed):
		return "disallowed_operation"
	default:
		return "handler_not_found"
	}
}
