package entities

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

// DefaultEpicState 新建史诗的默认状态
const DefaultEpicState = "to do"

// Epics 史诗处理器
type Epics struct {
	handler
	deps Deps
}

// NewEpics 创建史诗处理器
func NewEpics(d Deps) *Epics {
	e := &Epics{deps: d}
	e.handler = handler{name: "epics", short: "Epic operations", commands: e.commands}
	return e
}

func (e *Epics) commands() []*cobra.Command {
	return []*cobra.Command{e.getCmd(), e.listCmd(), e.searchCmd(), e.createCmd(), e.updateCmd(), e.deleteCmd()}
}

func (e *Epics) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <epic-id>",
		Short: "Get an epic by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			raw, err := get(cmd.Context(), e.deps.API, fmt.Sprintf("epics/%d", id))
			if err != nil {
				return err
			}
			epic, err := format.EpicView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, epic)
		},
	}
}

func (e *Epics) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all epics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.printList(cmd, nil)
		},
	}
}

func (e *Epics) searchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search",
		Short: "Search epics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if q, _ := cmd.Flags().GetString("query"); q != "" {
				params.Set("query", q)
			}
			if st, _ := cmd.Flags().GetString("state"); st != "" {
				params.Set("state", st)
			}
			return e.printList(cmd, params)
		},
	}
	c.Flags().String("query", "", "Search query")
	c.Flags().String("state", "", "Epic state")
	return c
}

func (e *Epics) printList(cmd *cobra.Command, params url.Values) error {
	raw, err := e.deps.API.Do(cmd.Context(), clientGet("epics", params))
	if err != nil {
		return err
	}
	epics, err := format.Epics(raw)
	if err != nil {
		return err
	}
	return printJSON(cmd, epics)
}

func (e *Epics) createCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			if state == "" {
				state = DefaultEpicState
			}
			body := map[string]any{"name": args[0], "state": state}
			setNonEmptyString(cmd, body, "description", "description")
			setStrings(cmd, body, "owner-ids", "owner_ids")
			if m, _ := cmd.Flags().GetInt64("milestone-id"); m != 0 {
				body["milestone_id"] = m
			}
			raw, err := post(cmd.Context(), e.deps.API, "epics", body)
			if err != nil {
				return err
			}
			epic, err := format.EpicView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, epic)
		},
	}
	c.Flags().String("description", "", "Epic description")
	c.Flags().String("state", DefaultEpicState, "Epic state")
	c.Flags().StringSlice("owner-ids", nil, "Owner IDs")
	c.Flags().Int64("milestone-id", 0, "Milestone ID")
	return c
}

func (e *Epics) updateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <epic-id>",
		Short: "Update an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			body := map[string]any{}
			setString(cmd, body, "name", "name")
			setString(cmd, body, "description", "description")
			setString(cmd, body, "state", "state")
			setStrings(cmd, body, "owner-ids", "owner_ids")
			setBool(cmd, body, "archived", "archived")
			raw, err := put(cmd.Context(), e.deps.API, fmt.Sprintf("epics/%d", id), body)
			if err != nil {
				return err
			}
			epic, err := format.EpicView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, epic)
		},
	}
	c.Flags().String("name", "", "Updated name")
	c.Flags().String("description", "", "Updated description")
	c.Flags().String("state", "", "Updated state")
	c.Flags().StringSlice("owner-ids", nil, "Owner IDs")
	c.Flags().Bool("archived", false, "Archive the epic")
	return c
}

func (e *Epics) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <epic-id>",
		Short: "Delete an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("epic", args[0])
			if err != nil {
				return err
			}
			if err := del(cmd.Context(), e.deps.API, fmt.Sprintf("epics/%d", id)); err != nil {
				return err
			}
			return printJSON(cmd, deleted("Epic", id))
		},
	}
}
