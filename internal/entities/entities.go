// Package entities implements the per-entity command handlers. Each handler
// owns every operation of its entity; which of them a binary may reach is
// decided by the router's capability tables.
package entities

import (
	"context"
	"log/slog"
	"sort"

	"github.com/houzhh15/shortcut-skills/internal/client"
	"github.com/houzhh15/shortcut-skills/internal/gitutil"
	"github.com/houzhh15/shortcut-skills/internal/identity"
	"github.com/houzhh15/shortcut-skills/internal/output"
	"github.com/houzhh15/shortcut-skills/pkg/logger"
)

// API 是处理器访问 Shortcut 的唯一通道，由 *client.Client 实现
type API interface {
	Do(ctx context.Context, r client.Request) (any, error)
}

// Handler 处理一个实体的全部操作
type Handler interface {
	Name() string
	Operations() []string
	// Run 执行 args[0] 指定的操作，返回进程退出码
	Run(ctx context.Context, args []string, stdio output.Stdio) int
}

// Deps 是处理器共享的依赖
type Deps struct {
	API      API
	Identity *identity.Resolver
	Git      *gitutil.Git

	// DefaultWorkflowStateID 非零时作为新建故事的默认工作流状态
	DefaultWorkflowStateID int64

	Logger *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return logger.Discard()
	}
	return d.Logger
}

// Registry 实体处理器注册表
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register 注册处理器，同名处理器会被覆盖
func (r *Registry) Register(h Handler) {
	r.handlers[h.Name()] = h
}

// Get 按实体名查找处理器
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names 返回已注册的实体名（已排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default 注册全部八个实体处理器
func Default(d Deps) *Registry {
	if d.Identity == nil {
		d.Identity = identity.NewResolver(d.API, "", d.Logger)
	}
	if d.Git == nil {
		d.Git = gitutil.New(nil)
	}
	r := NewRegistry()
	r.Register(NewStories(d))
	r.Register(NewEpics(d))
	r.Register(NewIterations(d))
	r.Register(NewObjectives(d))
	r.Register(NewTeams(d))
	r.Register(NewWorkflows(d))
	r.Register(NewUsers(d))
	r.Register(NewDocuments(d))
	return r
}
