package entities

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Workflows 工作流处理器
type Workflows struct {
	handler
	deps Deps
}

// NewWorkflows 创建工作流处理器
func NewWorkflows(d Deps) *Workflows {
	w := &Workflows{deps: d}
	w.handler = handler{name: "workflows", short: "Workflow operations", commands: w.commands}
	return w
}

func (w *Workflows) commands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "get <workflow-id>",
			Short: "Get a workflow by ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("workflow", args[0])
				if err != nil {
					return err
				}
				raw, err := get(cmd.Context(), w.deps.API, fmt.Sprintf("workflows/%d", id))
				if err != nil {
					return err
				}
				wf, err := format.WorkflowView(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, wf)
			},
		},
		{
			Use:   "list",
			Short: "List all workflows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := get(cmd.Context(), w.deps.API, "workflows")
				if err != nil {
					return err
				}
				wfs, err := format.Workflows(raw)
				if err != nil {
					return err
				}
				return printJSON(cmd, wfs)
			},
		},
	}
}
