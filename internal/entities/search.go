package entities

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/houzhh15/shortcut-skills/internal/format"
)

const (
	// DefaultSearchLimit 搜索默认返回条数
	DefaultSearchLimit = 25
	maxPageSize        = 1000
)

// StorySearch 故事搜索条件，零值字段表示不过滤
type StorySearch struct {
	Query           string
	OwnerIDs        []string
	TeamID          string
	IterationID     int64
	EpicID          int64
	WorkflowStateID int64
	StoryType       string
	Limit           int
}

func (q StorySearch) limit() int {
	if q.Limit <= 0 {
		return DefaultSearchLimit
	}
	return q.Limit
}

// Search 搜索故事。
//
// 指定迭代时取该迭代的全部故事并在本地逐条过滤，结果保持原顺序并截断到 Limit；
// 否则把过滤条件编码为查询语法交给 search/stories，返回服务端的 data 原样。
func (s *Stories) Search(ctx context.Context, q StorySearch) ([]format.Story, error) {
	if q.IterationID != 0 {
		return s.searchIteration(ctx, q)
	}
	return s.searchService(ctx, q)
}

func (s *Stories) searchIteration(ctx context.Context, q StorySearch) ([]format.Story, error) {
	raw, err := get(ctx, s.deps.API, fmt.Sprintf("iterations/%d/stories", q.IterationID))
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return format.Stories(raw)
	}

	match := newStoryMatcher(q)
	kept := make([]any, 0, len(items))
	for _, item := range items {
		if len(kept) == q.limit() {
			break
		}
		rec, _ := item.(map[string]any)
		if rec == nil || match(rec) {
			kept = append(kept, item)
		}
	}
	return format.Stories(kept)
}

// newStoryMatcher 返回所有条件同时满足时为 true 的谓词
func newStoryMatcher(q StorySearch) func(format.Record) bool {
	var preds []func(format.Record) bool

	if q.TeamID != "" {
		preds = append(preds, func(r format.Record) bool { return canonical(r["group_id"]) == q.TeamID })
	}
	if len(q.OwnerIDs) > 0 {
		preds = append(preds, func(r format.Record) bool {
			owners, _ := r["owner_ids"].([]any)
			for _, want := range q.OwnerIDs {
				for _, have := range owners {
					if canonical(have) == want {
						return true
					}
				}
			}
			return false
		})
	}
	if q.EpicID != 0 {
		want := strconv.FormatInt(q.EpicID, 10)
		preds = append(preds, func(r format.Record) bool { return canonical(r["epic_id"]) == want })
	}
	if q.WorkflowStateID != 0 {
		want := strconv.FormatInt(q.WorkflowStateID, 10)
		preds = append(preds, func(r format.Record) bool { return canonical(r["workflow_state_id"]) == want })
	}
	if q.StoryType != "" {
		preds = append(preds, func(r format.Record) bool { return canonical(r["story_type"]) == q.StoryType })
	}
	if q.Query != "" {
		fold := cases.Fold()
		needle := fold.String(q.Query)
		preds = append(preds, func(r format.Record) bool {
			name, _ := r["name"].(string)
			desc, _ := r["description"].(string)
			return strings.Contains(fold.String(name), needle) || strings.Contains(fold.String(desc), needle)
		})
	}

	return func(r format.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// canonical 把 JSON 标量转为可比较的字符串形式，null 对应空串
func canonical(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// searchQuery 把自由文本与过滤条件拼成 search/stories 的查询语法
func searchQuery(q StorySearch) string {
	var terms []string
	if q.Query != "" {
		terms = append(terms, q.Query)
	}
	if len(q.OwnerIDs) > 0 {
		terms = append(terms, "owner_ids:"+strings.Join(q.OwnerIDs, ","))
	}
	if q.TeamID != "" {
		terms = append(terms, "group_id:"+q.TeamID)
	}
	if q.EpicID != 0 {
		terms = append(terms, fmt.Sprintf("epic_id:%d", q.EpicID))
	}
	if q.WorkflowStateID != 0 {
		terms = append(terms, fmt.Sprintf("workflow_state_id:%d", q.WorkflowStateID))
	}
	if q.StoryType != "" {
		terms = append(terms, "story_type:"+q.StoryType)
	}
	return strings.Join(terms, " ")
}

func (s *Stories) searchService(ctx context.Context, q StorySearch) ([]format.Story, error) {
	if len(q.OwnerIDs) > 1 {
		s.deps.logger().Warn("multi-owner filter sent as owner_ids:a,b; the search service may not honor it",
			"owner_ids", q.OwnerIDs)
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(min(q.limit(), maxPageSize)))
	if query := searchQuery(q); query != "" {
		params.Set("query", query)
	}

	raw, err := s.deps.API.Do(ctx, clientGet("search/stories", params))
	if err != nil {
		return nil, err
	}
	result, ok := raw.(map[string]any)
	if !ok {
		return nil, &format.MalformedResponseError{Entity: "story search", Reason: fmt.Sprintf("expected object, got %T", raw)}
	}
	data, ok := result["data"]
	if !ok || data == nil {
		return []format.Story{}, nil
	}
	return format.Stories(data)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLen = 50

// BuildBranchName 生成 sc-<id>/<slug> 形式的分支名
func BuildBranchName(storyID, storyName string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(storyName), "-")
	slug = strings.TrimLeft(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	slug = strings.TrimRight(slug, "-")
	return "sc-" + storyID + "/" + slug
}
