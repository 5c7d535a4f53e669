// Package identity resolves the member that owns the API token.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/houzhh15/shortcut-skills/internal/client"
	"github.com/houzhh15/shortcut-skills/internal/format"
	"github.com/houzhh15/shortcut-skills/pkg/logger"
)

// API 是 Resolver 需要的传输能力
type API interface {
	Do(ctx context.Context, r client.Request) (any, error)
}

// Resolver 缓存当前用户 ID，每个进程创建一次
type Resolver struct {
	api    API
	id     string
	logger *slog.Logger
}

// NewResolver 创建解析器，seed 非空时（通常来自 SHORTCUT_CURRENT_USER_ID）直接作为缓存值
func NewResolver(api API, seed string, l *slog.Logger) *Resolver {
	if l == nil {
		l = logger.Discard()
	}
	return &Resolver{api: api, id: seed, logger: l}
}

// CachedID 返回已缓存的用户 ID，未解析时为空
func (r *Resolver) CachedID() string { return r.id }

// CurrentUserID 返回当前用户 ID，只有缓存为空时才访问网络
func (r *Resolver) CurrentUserID(ctx context.Context) (string, error) {
	if r.id != "" {
		return r.id, nil
	}
	if _, err := r.CurrentUser(ctx); err != nil {
		return "", err
	}
	return r.id, nil
}

// CurrentUser 返回当前用户的成员视图。
// 已知 ID 时请求 members/{id}，否则请求 member 并缓存结果中的 ID。
func (r *Resolver) CurrentUser(ctx context.Context) (format.Member, error) {
	path := "member"
	if r.id != "" {
		path = "members/" + r.id
	}
	raw, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return format.Member{}, errors.Wrap(err, "resolve current user")
	}
	m, err := format.MemberView(raw)
	if err != nil {
		return format.Member{}, err
	}
	if r.id == "" {
		r.id = fmt.Sprint(m.ID)
		r.logger.Debug("current user resolved", "user_id", r.id)
	}
	return m, nil
}
