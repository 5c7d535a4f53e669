package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

func iterationFixture() []any {
	s1 := story(1, "Login fails on Safari", "bug")
	s1["owner_ids"] = []any{"u1"}
	s1["group_id"] = "t1"
	s2 := story(2, "Dark mode", "feature")
	s2["owner_ids"] = []any{"u2"}
	s3 := story(3, "Crash on save", "bug")
	s3["description"] = "Happens after LOGIN timeout"
	s3["epic_id"] = 9
	s3["owner_ids"] = []any{"u2", "u3"}
	s4 := story(4, "Typo in footer", "bug")
	s4["workflow_state_id"] = 500000002
	s5 := story(5, "Upgrade deps", "feature")
	return []any{s1, s2, s3, s4, s5}
}

func ids(stories []format.Story) []string {
	out := make([]string, 0, len(stories))
	for _, s := range stories {
		out = append(out, fmt.Sprint(s.ID))
	}
	return out
}

func TestSearchIterationScoped(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "iterations/42/stories", 200, iterationFixture())
	s := NewStories(h.deps)

	got, err := s.Search(context.Background(), StorySearch{IterationID: 42, StoryType: "bug", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(got))
	assert.Equal(t, "Login fails on Safari", got[0].Name)
	assert.Equal(t, []format.Label{}, got[1].Labels)

	calls := h.srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "iterations/42/stories", calls[0].Path)
	assert.Empty(t, calls[0].Query)
}

func TestSearchIterationFilters(t *testing.T) {
	tests := []struct {
		name string
		q    StorySearch
		want []string
	}{
		{"no filters keeps order", StorySearch{}, []string{"1", "2", "3", "4", "5"}},
		{"story type", StorySearch{StoryType: "feature"}, []string{"2", "5"}},
		{"team", StorySearch{TeamID: "t1"}, []string{"1"}},
		{"any owner", StorySearch{OwnerIDs: []string{"u3", "u1"}}, []string{"1", "3"}},
		{"epic", StorySearch{EpicID: 9}, []string{"3"}},
		{"workflow state", StorySearch{WorkflowStateID: 500000002}, []string{"4"}},
		{"query folds case over name and description", StorySearch{Query: "login"}, []string{"1", "3"}},
		{"filters are conjunctive", StorySearch{Query: "login", OwnerIDs: []string{"u2"}}, []string{"3"}},
		{"nothing matches", StorySearch{StoryType: "feature", TeamID: "t1"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.Handle("GET", "iterations/42/stories", 200, iterationFixture())

			tt.q.IterationID = 42
			got, err := NewStories(h.deps).Search(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearchIterationMalformedStory(t *testing.T) {
	h := newHarness(t)
	bad := story(1, "x", "bug")
	delete(bad, "app_url")
	h.srv.Handle("GET", "iterations/42/stories", 200, []any{bad})

	_, err := NewStories(h.deps).Search(context.Background(), StorySearch{IterationID: 42})
	var mre *format.MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "app_url", mre.Field)
}

func TestSearchService(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "search/stories", 200, map[string]any{
		"data":     []any{story(11, "Login page", "feature")},
		"next":     nil,
		"total":    1,
		"searched": "login",
	})

	got, err := NewStories(h.deps).Search(context.Background(), StorySearch{Query: "login", TeamID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11"}, ids(got))

	call, ok := h.srv.LastCall()
	require.True(t, ok)
	assert.Equal(t, "search/stories", call.Path)
	assert.Equal(t, "login group_id:t1", call.Query.Get("query"))
	assert.Equal(t, "25", call.Query.Get("page_size"))
}

func TestSearchServiceQueryTokens(t *testing.T) {
	q := StorySearch{
		Query:           "crash",
		OwnerIDs:        []string{"u1", "u2"},
		TeamID:          "t1",
		EpicID:          9,
		WorkflowStateID: 500000001,
		StoryType:       "bug",
	}
	assert.Equal(t, "crash owner_ids:u1,u2 group_id:t1 epic_id:9 workflow_state_id:500000001 story_type:bug", searchQuery(q))
	assert.Equal(t, "", searchQuery(StorySearch{}))
}

func TestSearchServicePageSizeAndMissingData(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "search/stories", 200, map[string]any{"total": 0})

	got, err := NewStories(h.deps).Search(context.Background(), StorySearch{Limit: 5000})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	call, _ := h.srv.LastCall()
	assert.Equal(t, "1000", call.Query.Get("page_size"))
	assert.False(t, call.Query.Has("query"))
}

func TestSearchCommandFlags(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "iterations/42/stories", 200, iterationFixture())

	res := run(NewStories(h.deps), "search", "--iteration-id", "42", "--story-type", "bug", "--limit", "2")
	require.Equal(t, 0, res.code, res.stderr)
	list := res.list(t)
	require.Len(t, list, 2)
	assert.Equal(t, float64(3), list[1].(map[string]any)["id"])
}

func TestBuildBranchName(t *testing.T) {
	tests := []struct {
		id, name, want string
	}{
		{"7", "Fix Login Bug!!", "sc-7/fix-login-bug"},
		{"12", "  --Leading Junk", "sc-12/leading-junk"},
		{"3", "Ünïcode & symbols", "sc-3/n-code-symbols"},
		{"9", strings.Repeat("a", 49) + " bcd", "sc-9/" + strings.Repeat("a", 49)},
		{"5", strings.Repeat("x", 60), "sc-5/" + strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildBranchName(tt.id, tt.name), tt.name)
	}
}

func TestBranchNameCommand(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "stories/7", 200, story(7, "Fix Login Bug!!", "bug"))

	res := run(NewStories(h.deps), "branch-name", "7")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, map[string]any{
		"story_id":    float64(7),
		"branch_name": "sc-7/fix-login-bug",
		"story_name":  "Fix Login Bug!!",
	}, res.object(t))
}

func TestCreateResolvesRequester(t *testing.T) {
	h := newHarness(t)
	h.deps.DefaultWorkflowStateID = 500004783
	h.srv.Handle("GET", "member", 200, map[string]any{"id": "u1", "name": "Ann"})
	h.srv.Handle("POST", "stories", 201, story(21, "New thing", "feature"))
	s := NewStories(h.deps)

	res := run(s, "create", "New thing", "--estimate", "0", "--owner-ids", "u2")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, map[string]any{
		"name":              "New thing",
		"story_type":        "feature",
		"requested_by_id":   "u1",
		"owner_ids":         []any{"u2"},
		"workflow_state_id": float64(500004783),
		"estimate":          float64(0),
	}, call.Body)

	res = run(s, "create", "Other", "--type", "chore", "--requester-id", "u9")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ = h.srv.LastCall()
	assert.Equal(t, "u9", call.Body["requested_by_id"])
	assert.Equal(t, "chore", call.Body["story_type"])

	var memberLookups int
	for _, c := range h.srv.Calls() {
		if c.Path == "member" {
			memberLookups++
		}
	}
	assert.Equal(t, 1, memberLookups)
}

func TestCreateAndCheckout(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("POST", "stories", 201, story(7, "Fix Login Bug!!", "bug"))

	res := run(NewStories(h.deps), "create-and-checkout", "Fix Login Bug!!", "--requester-id", "u1", "--type", "bug")
	require.Equal(t, 0, res.code, res.stderr)
	out := res.object(t)
	assert.Equal(t, "sc-7/fix-login-bug", out["branch_name"])
	assert.Equal(t, "Fix Login Bug!!", out["story"].(map[string]any)["name"])
	assert.Equal(t, [][]string{
		{"rev-parse", "--is-inside-work-tree"},
		{"switch", "-c", "sc-7/fix-login-bug"},
	}, h.git.calls)
}

func TestCreateAndCheckoutOutsideRepo(t *testing.T) {
	h := newHarness(t)
	h.git.notInRepo = true

	res := run(NewStories(h.deps), "create-and-checkout", "Anything", "--requester-id", "u1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errorEnvelope(t)["error"], "not inside a git repository")
	assert.Empty(t, h.srv.Calls())
}

func TestCreateAndCheckoutSwitchFailure(t *testing.T) {
	h := newHarness(t)
	h.git.switchErr = errors.New("fatal: a branch named 'sc-7/fix-login-bug' already exists")
	h.srv.Handle("POST", "stories", 201, story(7, "Fix Login Bug!!", "bug"))

	res := run(NewStories(h.deps), "create-and-checkout", "Fix Login Bug!!", "--requester-id", "u1")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)

	env := res.errorEnvelope(t)
	assert.Contains(t, env["error"], "already exists")
	assert.Equal(t, "sc-7/fix-login-bug", env["branch_name"])
	assert.Equal(t, float64(7), env["story"].(map[string]any)["id"])
}

func TestUpdateSendsOnlyChangedFields(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("PUT", "stories/7", 200, story(7, "Renamed", "bug"))

	res := run(NewStories(h.deps), "update", "7", "--name", "Renamed", "--description", "", "--iteration-id", "42", "--archived")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, map[string]any{
		"name":         "Renamed",
		"description":  "",
		"iteration_id": float64(42),
		"archived":     true,
	}, call.Body)
	assert.Equal(t, "Renamed", res.object(t)["name"])
}

func TestDeleteAndComment(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("DELETE", "stories/7", 204, nil)
	h.srv.Handle("POST", "stories/7/comments", 201, map[string]any{
		"id": 100, "text": "On it", "author_id": "u1", "created_at": "c", "updated_at": "d", "story_id": 7,
	})
	s := NewStories(h.deps)

	res := run(s, "delete", "7")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, map[string]any{"success": true, "message": "Story 7 deleted"}, res.object(t))

	res = run(s, "comment", "7", "On it")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, map[string]any{"text": "On it"}, call.Body)
	assert.Equal(t, map[string]any{
		"id": float64(100), "text": "On it", "author_id": "u1", "created_at": "c", "updated_at": "d",
	}, res.object(t))
}

func TestInvalidStoryID(t *testing.T) {
	h := newHarness(t)
	res := run(NewStories(h.deps), "get", "seven")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errorEnvelope(t)["error"], `invalid story id "seven"`)
	assert.Empty(t, h.srv.Calls())
}
