package entities

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/format"
	"github.com/houzhh15/shortcut-skills/internal/output"
)

// Stories 故事处理器
type Stories struct {
	handler
	deps Deps
}

// NewStories 创建故事处理器
func NewStories(d Deps) *Stories {
	s := &Stories{deps: d}
	s.handler = handler{name: "stories", short: "Story operations", commands: s.commands}
	return s
}

func (s *Stories) commands() []*cobra.Command {
	return []*cobra.Command{
		s.getCmd(),
		s.searchCmd(),
		s.branchNameCmd(),
		s.createCmd(),
		s.createAndCheckoutCmd(),
		s.updateCmd(),
		s.deleteCmd(),
		s.commentCmd(),
	}
}

// Get 获取单个故事
func (s *Stories) Get(ctx context.Context, id int64) (format.Story, error) {
	raw, err := get(ctx, s.deps.API, fmt.Sprintf("stories/%d", id))
	if err != nil {
		return format.Story{}, err
	}
	return format.StoryView(raw)
}

// BranchNameResult branch-name 操作的输出
type BranchNameResult struct {
	StoryID    int64  `json:"story_id"`
	BranchName string `json:"branch_name"`
	StoryName  string `json:"story_name"`
}

// BranchName 返回故事推荐的分支名
func (s *Stories) BranchName(ctx context.Context, id int64) (BranchNameResult, error) {
	story, err := s.Get(ctx, id)
	if err != nil {
		return BranchNameResult{}, err
	}
	return BranchNameResult{
		StoryID:    id,
		BranchName: BuildBranchName(fmt.Sprint(id), story.Name),
		StoryName:  story.Name,
	}, nil
}

// StoryInput 新建故事的参数
type StoryInput struct {
	Name            string
	StoryType       string
	Description     string
	TeamID          string
	OwnerIDs        []string
	RequesterID     string
	IterationID     int64
	EpicID          int64
	WorkflowStateID int64
	Estimate        *int64
}

// Create 新建故事，未指定请求人时使用当前用户
func (s *Stories) Create(ctx context.Context, in StoryInput) (format.Story, error) {
	requester := in.RequesterID
	if requester == "" {
		id, err := s.deps.Identity.CurrentUserID(ctx)
		if err != nil {
			return format.Story{}, err
		}
		requester = id
	}
	storyType := in.StoryType
	if storyType == "" {
		storyType = "feature"
	}

	body := map[string]any{
		"name":            in.Name,
		"story_type":      storyType,
		"requested_by_id": requester,
	}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.TeamID != "" {
		body["group_id"] = in.TeamID
	}
	if len(in.OwnerIDs) > 0 {
		body["owner_ids"] = in.OwnerIDs
	}
	if in.IterationID != 0 {
		body["iteration_id"] = in.IterationID
	}
	if in.EpicID != 0 {
		body["epic_id"] = in.EpicID
	}
	if in.WorkflowStateID != 0 {
		body["workflow_state_id"] = in.WorkflowStateID
	}
	if in.Estimate != nil {
		body["estimate"] = *in.Estimate
	}

	raw, err := post(ctx, s.deps.API, "stories", body)
	if err != nil {
		return format.Story{}, err
	}
	return format.StoryView(raw)
}

// CheckoutResult create-and-checkout 操作的输出
type CheckoutResult struct {
	Story      format.Story `json:"story"`
	BranchName string       `json:"branch_name"`
}

// CheckoutError 故事已创建但切换分支失败
type CheckoutError struct {
	Story      format.Story
	BranchName string
	Err        error
}

func (e *CheckoutError) Error() string { return e.Err.Error() }
func (e *CheckoutError) Unwrap() error { return e.Err }

// CreateAndCheckout 确认处于 git 工作树后新建故事，并切换到对应的新分支
func (s *Stories) CreateAndCheckout(ctx context.Context, in StoryInput) (CheckoutResult, error) {
	if err := s.deps.Git.AssertInRepo(ctx); err != nil {
		return CheckoutResult{}, err
	}
	story, err := s.Create(ctx, in)
	if err != nil {
		return CheckoutResult{}, err
	}
	branch := BuildBranchName(fmt.Sprint(story.ID), story.Name)
	if err := s.deps.Git.SwitchCreate(ctx, branch); err != nil {
		return CheckoutResult{}, &CheckoutError{Story: story, BranchName: branch, Err: err}
	}
	return CheckoutResult{Story: story, BranchName: branch}, nil
}

func (s *Stories) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <story-id>",
		Short: "Get a story by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			story, err := s.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, story)
		},
	}
}

func (s *Stories) searchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search",
		Short: "Search stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := StorySearch{}
			q.Query, _ = cmd.Flags().GetString("query")
			q.OwnerIDs, _ = cmd.Flags().GetStringSlice("owner-ids")
			q.TeamID, _ = cmd.Flags().GetString("team-id")
			q.IterationID, _ = cmd.Flags().GetInt64("iteration-id")
			q.EpicID, _ = cmd.Flags().GetInt64("epic-id")
			q.WorkflowStateID, _ = cmd.Flags().GetInt64("workflow-state-id")
			q.StoryType, _ = cmd.Flags().GetString("story-type")
			q.Limit, _ = cmd.Flags().GetInt("limit")
			stories, err := s.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, stories)
		},
	}
	c.Flags().String("query", "", "Search query")
	c.Flags().StringSlice("owner-ids", nil, "Owner IDs")
	c.Flags().String("team-id", "", "Team ID")
	c.Flags().Int64("iteration-id", 0, "Iteration ID")
	c.Flags().Int64("epic-id", 0, "Epic ID")
	c.Flags().Int64("workflow-state-id", 0, "Workflow state ID")
	c.Flags().String("story-type", "", "Story type (feature, bug, chore)")
	c.Flags().Int("limit", DefaultSearchLimit, "Result limit")
	return c
}

func (s *Stories) branchNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch-name <story-id>",
		Short: "Get recommended branch name for a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			res, err := s.BranchName(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func (s *Stories) addCreateFlags(c *cobra.Command) {
	c.Flags().String("type", "feature", "Story type (feature, bug, chore)")
	c.Flags().String("description", "", "Story description")
	c.Flags().String("team-id", "", "Team ID")
	c.Flags().StringSlice("owner-ids", nil, "Owner IDs")
	c.Flags().String("requester-id", "", "Requester ID (defaults to current user)")
	c.Flags().Int64("iteration-id", 0, "Iteration ID")
	c.Flags().Int64("epic-id", 0, "Epic ID")
	c.Flags().Int64("workflow-state-id", s.deps.DefaultWorkflowStateID, "Workflow state ID")
	c.Flags().Int64("estimate", 0, "Story point estimate")
}

func storyInputFromFlags(cmd *cobra.Command, name string) StoryInput {
	in := StoryInput{Name: name}
	in.StoryType, _ = cmd.Flags().GetString("type")
	in.Description, _ = cmd.Flags().GetString("description")
	in.TeamID, _ = cmd.Flags().GetString("team-id")
	in.OwnerIDs, _ = cmd.Flags().GetStringSlice("owner-ids")
	in.RequesterID, _ = cmd.Flags().GetString("requester-id")
	in.IterationID, _ = cmd.Flags().GetInt64("iteration-id")
	in.EpicID, _ = cmd.Flags().GetInt64("epic-id")
	in.WorkflowStateID, _ = cmd.Flags().GetInt64("workflow-state-id")
	if cmd.Flags().Changed("estimate") {
		v, _ := cmd.Flags().GetInt64("estimate")
		in.Estimate = &v
	}
	return in
}

func (s *Stories) createCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := s.Create(cmd.Context(), storyInputFromFlags(cmd, args[0]))
			if err != nil {
				return err
			}
			return printJSON(cmd, story)
		},
	}
	s.addCreateFlags(c)
	return c
}

func (s *Stories) createAndCheckoutCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create-and-checkout <name>",
		Short: "Create story and checkout new git branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.CreateAndCheckout(cmd.Context(), storyInputFromFlags(cmd, args[0]))
			var ce *CheckoutError
			if errors.As(err, &ce) {
				output.ErrorWith(cmd.ErrOrStderr(), ce.Err, map[string]any{
					"story":       ce.Story,
					"branch_name": ce.BranchName,
				})
				return &reportedError{err: err}
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	s.addCreateFlags(c)
	return c
}

func (s *Stories) updateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <story-id>",
		Short: "Update a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			body := map[string]any{}
			setString(cmd, body, "name", "name")
			setString(cmd, body, "description", "description")
			setString(cmd, body, "type", "story_type")
			setString(cmd, body, "team-id", "group_id")
			setStrings(cmd, body, "owner-ids", "owner_ids")
			setInt(cmd, body, "iteration-id", "iteration_id")
			setInt(cmd, body, "epic-id", "epic_id")
			setInt(cmd, body, "workflow-state-id", "workflow_state_id")
			setInt(cmd, body, "estimate", "estimate")
			setBool(cmd, body, "archived", "archived")

			raw, err := put(cmd.Context(), s.deps.API, fmt.Sprintf("stories/%d", id), body)
			if err != nil {
				return err
			}
			story, err := format.StoryView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, story)
		},
	}
	c.Flags().String("name", "", "Updated title")
	c.Flags().String("description", "", "Updated description")
	c.Flags().String("type", "", "Story type (feature, bug, chore)")
	c.Flags().String("team-id", "", "Team ID")
	c.Flags().StringSlice("owner-ids", nil, "Owner IDs")
	c.Flags().Int64("iteration-id", 0, "Iteration ID")
	c.Flags().Int64("epic-id", 0, "Epic ID")
	c.Flags().Int64("workflow-state-id", 0, "Workflow state ID")
	c.Flags().Int64("estimate", 0, "Story point estimate")
	c.Flags().Bool("archived", false, "Archive the story")
	return c
}

func (s *Stories) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			if err := del(cmd.Context(), s.deps.API, fmt.Sprintf("stories/%d", id)); err != nil {
				return err
			}
			return printJSON(cmd, deleted("Story", id))
		},
	}
}

func (s *Stories) commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <story-id> <text>",
		Short: "Add a comment to a story",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("story", args[0])
			if err != nil {
				return err
			}
			raw, err := post(cmd.Context(), s.deps.API, fmt.Sprintf("stories/%d/comments", id), map[string]any{"text": args[1]})
			if err != nil {
				return err
			}
			comment, err := format.CommentView(raw)
			if err != nil {
				return err
			}
			return printJSON(cmd, comment)
		},
	}
}
