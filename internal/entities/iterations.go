package entities

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Iterations 迭代处理器
type Iterations struct {
	handler
	deps Deps
}

// NewIterations 创建迭代处理器
func NewIterations(d Deps) *Iterations {
	it := &Iterations{deps: d}
	it.handler = handler{name: "iterations", short: "Iteration operations", commands: it.commands}
	return it
}

func (it *Iterations) commands() []*cobra.Command {
	return []*cobra.Command{it.getCmd(), it.listCmd(), it.createCmd(), it.updateCmd(), it.deleteCmd()}
}

func printIteration(cmd *cobra.Command, raw any) error {
	view, err := format.IterationView(raw, format.IterationOptions{IncludeStats: true})
	if err != nil {
		return err
	}
	return printJSON(cmd, view)
}

func (it *Iterations) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <iteration-id>",
		Short: "Get an iteration by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("iteration", args[0])
			if err != nil {
				return err
			}
			raw, err := get(cmd.Context(), it.deps.API, fmt.Sprintf("iterations/%d", id))
			if err != nil {
				return err
			}
			return printIteration(cmd, raw)
		},
	}
}

func (it *Iterations) listCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List all iterations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			withStats, _ := cmd.Flags().GetBool("with-stats")
			status, _ := cmd.Flags().GetString("status")

			raw, err := get(cmd.Context(), it.deps.API, "iterations")
			if err != nil {
				return err
			}
			if items, ok := raw.([]any); ok && status != "" {
				kept := make([]any, 0, len(items))
				for _, item := range items {
					if rec, _ := item.(map[string]any); rec == nil || canonical(rec["status"]) == status {
						kept = append(kept, item)
					}
				}
				raw = kept
			}
			views, err := format.Iterations(raw, format.IterationOptions{IncludeStats: withStats})
			if err != nil {
				return err
			}
			return printJSON(cmd, views)
		},
	}
	c.Flags().Bool("with-stats", false, "Include statistics")
	c.Flags().String("status", "", "Filter by status (started, unstarted, done)")
	return c
}

func (it *Iterations) createCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name> <start-date> <end-date>",
		Short: "Create a new iteration",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"name":       args[0],
				"start_date": args[1],
				"end_date":   args[2],
			}
			setNonEmptyString(cmd, body, "description", "description")
			setStrings(cmd, body, "team-ids", "group_ids")
			raw, err := post(cmd.Context(), it.deps.API, "iterations", body)
			if err != nil {
				return err
			}
			return printIteration(cmd, raw)
		},
	}
	c.Flags().String("description", "", "Iteration description")
	c.Flags().StringSlice("team-ids", nil, "Team IDs")
	return c
}

func (it *Iterations) updateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <iteration-id>",
		Short: "Update an iteration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("iteration", args[0])
			if err != nil {
				return err
			}
			body := map[string]any{}
			setString(cmd, body, "name", "name")
			setString(cmd, body, "start-date", "start_date")
			setString(cmd, body, "end-date", "end_date")
			setString(cmd, body, "description", "description")
			setStrings(cmd, body, "team-ids", "group_ids")
			raw, err := put(cmd.Context(), it.deps.API, fmt.Sprintf("iterations/%d", id), body)
			if err != nil {
				return err
			}
			return printIteration(cmd, raw)
		},
	}
	c.Flags().String("name", "", "Updated name")
	c.Flags().String("start-date", "", "Updated start date")
	c.Flags().String("end-date", "", "Updated end date")
	c.Flags().String("description", "", "Updated description")
	c.Flags().StringSlice("team-ids", nil, "Team IDs")
	return c
}

func (it *Iterations) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <iteration-id>",
		Short: "Delete an iteration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("iteration", args[0])
			if err != nil {
				return err
			}
			if err := del(cmd.Context(), it.deps.API, fmt.Sprintf("iterations/%d", id)); err != nil {
				return err
			}
			return printJSON(cmd, deleted("Iteration", id))
		},
	}
}
