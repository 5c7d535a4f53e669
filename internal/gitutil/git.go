// Package gitutil runs the few git commands needed to check out a story branch.
package gitutil

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Runner 执行一条 git 命令并返回标准输出
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner 通过 os/exec 调用 PATH 中的 git，Dir 为空时使用当前目录
type ExecRunner struct {
	Dir string
}

// Run 执行 git args...，失败时错误中附带 stderr
func (r ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", errors.Wrapf(err, "git %s", strings.Join(args, " "))
		}
		return "", errors.Wrapf(err, "git %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Git 封装分支相关操作
type Git struct {
	runner Runner
}

// New 创建 Git，runner 为 nil 时使用当前目录下的 ExecRunner
func New(runner Runner) *Git {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Git{runner: runner}
}

// AssertInRepo 确认当前目录处于 git 工作树中
func (g *Git) AssertInRepo(ctx context.Context) error {
	out, err := g.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return errors.WithHint(errors.Wrap(err, "not inside a git repository"),
			"run the command from a git work tree")
	}
	if out != "true" {
		return errors.Newf("not inside a git work tree (rev-parse reported %q)", out)
	}
	return nil
}

// SwitchCreate 创建并切换到新分支
func (g *Git) SwitchCreate(ctx context.Context, branch string) error {
	if _, err := g.runner.Run(ctx, "switch", "-c", branch); err != nil {
		return errors.Wrapf(err, "create branch %s", branch)
	}
	return nil
}
