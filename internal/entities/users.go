package entities

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Users 成员处理器
type Users struct {
	handler
	deps Deps
}

// NewUsers 创建成员处理器
func NewUsers(d Deps) *Users {
	u := &Users{deps: d}
	u.handler = handler{name: "users", short: "User/member operations", commands: u.commands}
	return u
}

// CurrentTeams 返回 member_ids 中包含当前用户的团队
func (u *Users) CurrentTeams(ctx context.Context) ([]format.Team, error) {
	me, err := u.deps.Identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := get(ctx, u.deps.API, "groups")
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return format.Teams(raw)
	}
	mine := make([]any, 0, len(items))
	for _, item := range items {
		rec, _ := item.(map[string]any)
		members, _ := rec["member_ids"].([]any)
		for _, m := range members {
			if canonical(m) == me {
				mine = append(mine, item)
				break
			}
		}
	}
	return format.Teams(mine)
}

func (u *Users) commands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "get <member-id>",
			Short: "Get a member by ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := get(cmd.Context(), u.deps.API, resourcePath("members", args[0]))
				if err != nil {
					return err
				}
				m, err := format.MemberView(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, m)
			},
		},
		{
			Use:   "list",
			Short: "List all members",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := get(cmd.Context(), u.deps.API, "members")
				if err != nil {
					return err
				}
				ms, err := format.Members(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, ms)
			},
		},
		{
			Use:   "current",
			Short: "Get current authenticated user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := u.deps.Identity.CurrentUser(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, m)
			},
		},
		{
			Use:   "current-teams",
			Short: "Get teams for current user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				teams, err := u.CurrentTeams(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, teams)
			},
		},
	}
}
