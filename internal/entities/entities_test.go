package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/shortcut-skills/internal/client"
	"github.com/houzhh15/shortcut-skills/internal/fakeapi"
	"github.com/houzhh15/shortcut-skills/internal/gitutil"
	"github.com/houzhh15/shortcut-skills/internal/identity"
	"github.com/houzhh15/shortcut-skills/internal/output"
)

type fakeGit struct {
	calls     [][]string
	notInRepo bool
	switchErr error
}

func (g *fakeGit) Run(_ context.Context, args ...string) (string, error) {
	g.calls = append(g.calls, args)
	switch args[0] {
	case "rev-parse":
		if g.notInRepo {
			return "", errors.New("fatal: not a git repository (or any of the parent directories): .git")
		}
		return "true", nil
	case "switch":
		return "", g.switchErr
	}
	return "", nil
}

type harness struct {
	srv  *fakeapi.Server
	git  *fakeGit
	deps Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := fakeapi.New(t)
	c, err := client.New(fakeapi.Token, client.WithBaseURL(srv.BaseURL()))
	require.NoError(t, err)
	g := &fakeGit{}
	return &harness{
		srv: srv,
		git: g,
		deps: Deps{
			API:      c,
			Identity: identity.NewResolver(c, "", nil),
			Git:      gitutil.New(g),
		},
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(h Handler, args ...string) result {
	var out, errOut bytes.Buffer
	code := h.Run(context.Background(), args, output.Stdio{Out: &out, Err: &errOut})
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (r result) object(t *testing.T) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &v), "stdout: %s", r.stdout)
	return v
}

func (r result) list(t *testing.T) []any {
	t.Helper()
	var v []any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &v), "stdout: %s", r.stdout)
	return v
}

func (r result) errorEnvelope(t *testing.T) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stderr), &v), "stderr: %s", r.stderr)
	return v
}

func story(id int, name, storyType string) map[string]any {
	return map[string]any{
		"id":                id,
		"name":              name,
		"description":       "",
		"story_type":        storyType,
		"workflow_state_id": 500000001,
		"app_url":           "https://app.shortcut.com/acme/story/1",
		"created_at":        "2025-01-01T00:00:00Z",
		"updated_at":        "2025-01-01T00:00:00Z",
		"owner_ids":         []any{},
		"labels":            []any{},
	}
}

func iteration(id int, status string) map[string]any {
	return map[string]any{
		"id":         id,
		"name":       "Sprint",
		"start_date": "2025-01-01",
		"end_date":   "2025-01-14",
		"status":     status,
		"app_url":    "https://app.shortcut.com/acme/iteration/1",
		"created_at": "2024-12-20T00:00:00Z",
		"updated_at": "2024-12-20T00:00:00Z",
		"stats":      map[string]any{"num_stories_done": 2},
	}
}

func team(id, name string, members ...any) map[string]any {
	return map[string]any{
		"id":           id,
		"name":         name,
		"mention_name": name,
		"app_url":      "https://app.shortcut.com/acme/settings/team/" + id,
		"member_ids":   members,
		"workflow_ids": []any{500},
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default(Deps{})
	assert.Equal(t, []string{"documents", "epics", "iterations", "objectives", "stories", "teams", "users", "workflows"}, r.Names())

	h, ok := r.Get("stories")
	require.True(t, ok)
	assert.Equal(t, []string{"branch-name", "comment", "create", "create-and-checkout", "delete", "get", "search", "update"}, h.Operations())

	_, ok = r.Get("labels")
	assert.False(t, ok)
}

func TestUnknownOperationFails(t *testing.T) {
	h := newHarness(t)
	res := run(NewTeams(h.deps), "rename", "t1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errorEnvelope(t)["error"], "unknown command")
	assert.Empty(t, h.srv.Calls())
}

func TestMissingArgumentFails(t *testing.T) {
	h := newHarness(t)
	res := run(NewDocuments(h.deps), "create", "only-a-name")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.errorEnvelope(t)["error"], "accepts 2 arg(s)")
	assert.Empty(t, h.srv.Calls())
}

func TestTransportErrorIsRenderedOnStderr(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "epics/9", 422, map[string]any{"message": "bad epic"})

	res := run(NewEpics(h.deps), "get", "9")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	msg := res.errorEnvelope(t)["error"].(string)
	assert.Contains(t, msg, "API request failed: 422 Unprocessable Entity")
	assert.Contains(t, msg, "bad epic")
}

func TestEpics(t *testing.T) {
	epic := map[string]any{"id": 3, "name": "Q1", "app_url": "u", "created_at": "c", "updated_at": "d", "state": "to do"}

	t.Run("search sends query params", func(t *testing.T) {
		h := newHarness(t)
		h.srv.Handle("GET", "epics", 200, []any{epic})

		res := run(NewEpics(h.deps), "search", "--query", "billing", "--state", "in progress")
		require.Equal(t, 0, res.code, res.stderr)
		call, _ := h.srv.LastCall()
		assert.Equal(t, "billing", call.Query.Get("query"))
		assert.Equal(t, "in progress", call.Query.Get("state"))
		assert.Len(t, res.list(t), 1)
	})

	t.Run("create defaults state", func(t *testing.T) {
		h := newHarness(t)
		h.srv.Handle("POST", "epics", 201, epic)

		res := run(NewEpics(h.deps), "create", "Q1", "--owner-ids", "u1,u2")
		require.Equal(t, 0, res.code, res.stderr)
		call, _ := h.srv.LastCall()
		assert.Equal(t, map[string]any{"name": "Q1", "state": "to do", "owner_ids": []any{"u1", "u2"}}, call.Body)
	})

	t.Run("update sends only changed fields", func(t *testing.T) {
		h := newHarness(t)
		h.srv.Handle("PUT", "epics/3", 200, epic)

		res := run(NewEpics(h.deps), "update", "3", "--state", "done", "--archived")
		require.Equal(t, 0, res.code, res.stderr)
		call, _ := h.srv.LastCall()
		assert.Equal(t, map[string]any{"state": "done", "archived": true}, call.Body)
	})

	t.Run("delete", func(t *testing.T) {
		h := newHarness(t)
		h.srv.Handle("DELETE", "epics/3", 204, nil)

		res := run(NewEpics(h.deps), "delete", "3")
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, map[string]any{"success": true, "message": "Epic 3 deleted"}, res.object(t))
	})
}

func TestIterationsList(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "iterations", 200, []any{iteration(1, "done"), iteration(2, "started"), iteration(3, "started")})
	its := NewIterations(h.deps)

	res := run(its, "list", "--status", "started")
	require.Equal(t, 0, res.code, res.stderr)
	list := res.list(t)
	require.Len(t, list, 2)
	assert.NotContains(t, list[0], "stats")

	res = run(its, "list", "--with-stats")
	require.Equal(t, 0, res.code, res.stderr)
	list = res.list(t)
	require.Len(t, list, 3)
	assert.Equal(t, map[string]any{"num_stories_done": float64(2)}, list[0].(map[string]any)["stats"])
}

func TestIterationsCreate(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("POST", "iterations", 201, iteration(8, "unstarted"))

	res := run(NewIterations(h.deps), "create", "Sprint 8", "2025-02-01", "2025-02-14", "--team-ids", "t1")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, map[string]any{
		"name": "Sprint 8", "start_date": "2025-02-01", "end_date": "2025-02-14", "group_ids": []any{"t1"},
	}, call.Body)
	assert.Equal(t, map[string]any{"num_stories_done": float64(2)}, res.object(t)["stats"])
}

func TestIterationsGetKeepsStats(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "iterations/5", 200, iteration(5, "started"))
	bare := iteration(6, "done")
	delete(bare, "stats")
	h.srv.Handle("GET", "iterations/6", 200, bare)
	h.srv.Handle("PUT", "iterations/6", 200, bare)
	its := NewIterations(h.deps)

	res := run(its, "get", "5")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, map[string]any{"num_stories_done": float64(2)}, res.object(t)["stats"])

	res = run(its, "get", "6")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, map[string]any{}, res.object(t)["stats"])

	res = run(its, "update", "6", "--name", "Sprint 6")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, map[string]any{}, res.object(t)["stats"])
}

func TestRawIDsStayInOnePathSegment(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "members/x?y=z", 200, map[string]any{"id": "x?y=z", "name": "Ann"})
	h.srv.Handle("DELETE", "objectives/obj?force=1", 204, nil)
	h.srv.Handle("GET", "groups/t#1", 200, team("t#1", "platform", "u1"))

	res := run(NewUsers(h.deps), "get", "x?y=z")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, "members/x?y=z", call.Path)
	assert.Empty(t, call.Query)

	res = run(NewObjectives(h.deps), "delete", "obj?force=1")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ = h.srv.LastCall()
	assert.Equal(t, "objectives/obj?force=1", call.Path)
	assert.Empty(t, call.Query)

	res = run(NewTeams(h.deps), "get", "t#1")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ = h.srv.LastCall()
	assert.Equal(t, "groups/t#1", call.Path)
}

func TestObjectivesKeepStringIDs(t *testing.T) {
	h := newHarness(t)
	obj := map[string]any{"id": "obj-1", "name": "Grow", "app_url": "u", "created_at": "c", "updated_at": "d"}
	h.srv.Handle("GET", "objectives/obj-1", 200, obj)
	h.srv.Handle("DELETE", "objectives/obj-1", 204, nil)

	res := run(NewObjectives(h.deps), "get", "obj-1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Grow", res.object(t)["name"])

	res = run(NewObjectives(h.deps), "delete", "obj-1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Objective obj-1 deleted", res.object(t)["message"])
}

func TestTeamsAndWorkflows(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "groups", 200, []any{team("t1", "platform", "u1", "u2")})
	h.srv.Handle("GET", "workflows/500", 200, map[string]any{
		"id": 500, "name": "Eng", "created_at": "c", "updated_at": "d",
		"states": []any{map[string]any{"id": 1, "name": "Ready", "type": "unstarted"}},
	})

	res := run(NewTeams(h.deps), "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, float64(2), res.list(t)[0].(map[string]any)["num_members"])

	res = run(NewWorkflows(h.deps), "get", "500")
	require.Equal(t, 0, res.code, res.stderr)
	states := res.object(t)["states"].([]any)
	assert.Equal(t, float64(0), states[0].(map[string]any)["position"])

	res = run(NewWorkflows(h.deps), "get", "abc")
	assert.Equal(t, 1, res.code)
	env := res.errorEnvelope(t)
	assert.Contains(t, env["error"], `invalid workflow id "abc"`)
	assert.NotEmpty(t, env["hint"])
}

func TestUsersCurrentTeams(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("GET", "member", 200, map[string]any{"id": "u2", "name": "Bo"})
	h.srv.Handle("GET", "groups", 200, []any{
		team("t1", "platform", "u1", "u2"),
		team("t2", "mobile", "u3"),
		team("t3", "web", "u2"),
	})

	res := run(NewUsers(h.deps), "current-teams")
	require.Equal(t, 0, res.code, res.stderr)
	list := res.list(t)
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0].(map[string]any)["id"])
	assert.Equal(t, "t3", list[1].(map[string]any)["id"])
}

func TestUsersGetAndCurrent(t *testing.T) {
	h := newHarness(t)
	nested := map[string]any{"id": "u1", "profile": map[string]any{"name": "Ann", "email_address": "a@x.com"}}
	h.srv.Handle("GET", "members/u1", 200, nested)
	h.srv.Handle("GET", "member", 200, map[string]any{"id": "u1", "name": "Ann", "email": "a@x.com"})
	users := NewUsers(h.deps)

	byID := run(users, "get", "u1")
	require.Equal(t, 0, byID.code, byID.stderr)
	current := run(users, "current")
	require.Equal(t, 0, current.code, current.stderr)
	assert.Equal(t, byID.object(t), current.object(t))

	again := run(users, "current")
	require.Equal(t, 0, again.code, again.stderr)
	var paths []string
	for _, c := range h.srv.Calls() {
		paths = append(paths, c.Path)
	}
	assert.Equal(t, []string{"members/u1", "member", "members/u1"}, paths)
}

func TestDocumentsCreate(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle("POST", "docs", 201, map[string]any{"id": "d1", "name": "Notes", "app_url": "u", "created_at": "c"})

	res := run(NewDocuments(h.deps), "create", "Notes", "<p>hello</p>")
	require.Equal(t, 0, res.code, res.stderr)
	call, _ := h.srv.LastCall()
	assert.Equal(t, map[string]any{"name": "Notes", "content": "<p>hello</p>"}, call.Body)
	assert.Equal(t, map[string]any{"id": "d1", "name": "Notes", "app_url": "u", "created_at": "c"}, res.object(t))
}
