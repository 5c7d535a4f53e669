package entities

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Objectives 目标处理器，目标 ID 按原样透传
type Objectives struct {
	handler
	deps Deps
}

// NewObjectives 创建目标处理器
func NewObjectives(d Deps) *Objectives {
	o := &Objectives{deps: d}
	o.handler = handler{name: "objectives", short: "Objective operations", commands: o.commands}
	return o
}

func (o *Objectives) commands() []*cobra.Command {
	return []*cobra.Command{o.getCmd(), o.listCmd(), o.createCmd(), o.updateCmd(), o.deleteCmd()}
}

func printObjective(cmd *cobra.Command, raw any) error {
	view, err := format.ObjectiveView(raw)
	if err != nil {
		return err
	}
	return printJSON(cmd, view)
}

func (o *Objectives) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <objective-id>",
		Short: "Get an objective by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := get(cmd.Context(), o.deps.API, resourcePath("objectives", args[0]))
			if err != nil {
				return err
			}
			return printObjective(cmd, raw)
		},
	}
}

func (o *Objectives) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all objectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := get(cmd.Context(), o.deps.API, "objectives")
			if err != nil {
				return err
			}
			views, err := format.Objectives(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, views)
		},
	}
}

func (o *Objectives) createCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"name": args[0]}
			setNonEmptyString(cmd, body, "description", "description")
			raw, err := post(cmd.Context(), o.deps.API, "objectives", body)
			if err != nil {
				return err
			}
			return printObjective(cmd, raw)
		},
	}
	c.Flags().String("description", "", "Objective description")
	return c
}

func (o *Objectives) updateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <objective-id>",
		Short: "Update an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			setString(cmd, body, "name", "name")
			setString(cmd, body, "description", "description")
			setString(cmd, body, "state", "state")
			raw, err := put(cmd.Context(), o.deps.API, resourcePath("objectives", args[0]), body)
			if err != nil {
				return err
			}
			return printObjective(cmd, raw)
		},
	}
	c.Flags().String("name", "", "Updated name")
	c.Flags().String("description", "", "Updated description")
	c.Flags().String("state", "", "Updated state")
	return c
}

func (o *Objectives) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <objective-id>",
		Short: "Delete an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd.Context(), o.deps.API, resourcePath("objectives", args[0])); err != nil {
				return err
			}
			return printJSON(cmd, deleted("Objective", args[0]))
		},
	}
}
