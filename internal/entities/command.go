package entities

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/client"
	"github.com/houzhh15/shortcut-skills/internal/output"
)

// handler 用一棵 cobra 命令树实现 Handler，每次 Run 都重新构造命令树
type handler struct {
	name     string
	short    string
	commands func() []*cobra.Command
}

func (h *handler) Name() string { return h.name }

func (h *handler) Operations() []string {
	var ops []string
	for _, c := range h.commands() {
		ops = append(ops, c.Name())
	}
	sort.Strings(ops)
	return ops
}

func (h *handler) Run(ctx context.Context, args []string, stdio output.Stdio) int {
	root := &cobra.Command{
		Use:           h.name,
		Short:         h.short,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(h.commands()...)
	root.SetArgs(args)
	if stdio.In != nil {
		root.SetIn(stdio.In)
	}
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)

	if err := root.ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			output.Error(stdio.Err, err)
		}
		return 1
	}
	return 0
}

// reportedError 表示错误已经写到 stderr，只需要返回非零退出码
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// DeleteResult 删除操作的输出
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func deleted(kind string, id any) DeleteResult {
	return DeleteResult{Success: true, Message: fmt.Sprintf("%s %v deleted", kind, id)}
}

func printJSON(cmd *cobra.Command, v any) error {
	return output.JSON(cmd.OutOrStdout(), v)
}

// parseID 解析数字 ID 参数
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.WithHintf(errors.Newf("invalid %s id %q", kind, s),
			"%s ids are positive integers", kind)
	}
	return id, nil
}

// resourcePath 拼接集合与原样透传的 ID，ID 作为单个路径段转义
func resourcePath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

func get(ctx context.Context, api API, path string) (any, error) {
	return api.Do(ctx, client.Request{Method: http.MethodGet, Path: path})
}

func post(ctx context.Context, api API, path string, body map[string]any) (any, error) {
	return api.Do(ctx, client.Request{Method: http.MethodPost, Path: path, Body: body})
}

func put(ctx context.Context, api API, path string, body map[string]any) (any, error) {
	return api.Do(ctx, client.Request{Method: http.MethodPut, Path: path, Body: body})
}

func del(ctx context.Context, api API, path string) error {
	_, err := api.Do(ctx, client.Request{Method: http.MethodDelete, Path: path})
	return err
}

// setString 标志被显式设置时写入 body
func setString(cmd *cobra.Command, body map[string]any, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetString(flag)
	body[key] = v
}

// setNonEmptyString 标志值非空时写入 body
func setNonEmptyString(cmd *cobra.Command, body map[string]any, flag, key string) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		body[key] = v
	}
}

func setStrings(cmd *cobra.Command, body map[string]any, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetStringSlice(flag)
	body[key] = v
}

func setInt(cmd *cobra.Command, body map[string]any, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetInt64(flag)
	body[key] = v
}

func setBool(cmd *cobra.Command, body map[string]any, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetBool(flag)
	body[key] = v
}

func clientGet(path string, query url.Values) client.Request {
	return client.Request{Method: http.MethodGet, Path: path, Query: query}
}
