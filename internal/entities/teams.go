package entities

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Teams 团队处理器，对应 Shortcut 的 groups 端点
type Teams struct {
	handler
	deps Deps
}

// NewTeams 创建团队处理器
func NewTeams(d Deps) *Teams {
	t := &Teams{deps: d}
	t.handler = handler{name: "teams", short: "Team operations", commands: t.commands}
	return t
}

func (t *Teams) commands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "get <team-id>",
			Short: "Get a team by ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := get(cmd.Context(), t.deps.API, resourcePath("groups", args[0]))
				if err != nil {
					return err
				}
				team, err := format.TeamView(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, team)
			},
		},
		{
			Use:   "list",
			Short: "List all teams",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := get(cmd.Context(), t.deps.API, "groups")
				if err != nil {
					return err
				}
				teams, err := format.Teams(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, teams)
			},
		},
	}
}
