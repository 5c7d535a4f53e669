package entities

import (
	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// Documents 文档处理器，只支持新建
type Documents struct {
	handler
	deps Deps
}

// NewDocuments 创建文档处理器
func NewDocuments(d Deps) *Documents {
	doc := &Documents{deps: d}
	doc.handler = handler{name: "documents", short: "Document operations", commands: doc.commands}
	return doc
}

func (doc *Documents) commands() []*cobra.Command {
	return []*cobra.Command{{
		Use:   "create <name> <content>",
		Short: "Create a new document with HTML content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := post(cmd.Context(), doc.deps.API, "docs", map[string]any{"name": args[0], "content": args[1]})
			if err != nil {
				return err
			}
			d, err := format.DocumentView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, d)
		},
	}}
}
