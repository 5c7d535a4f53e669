package format

// StoryView 归一化单条故事记录
func StoryView(v any) (Story, error) {
	f := newFields("story", v)
	s := Story{
		ID:              f.required("id"),
		Name:            f.requiredString("name"),
		Description:     f.str("description", ""),
		StoryType:       f.requiredString("story_type"),
		WorkflowStateID: f.required("workflow_state_id"),
		AppURL:          f.requiredString("app_url"),
		CreatedAt:       f.requiredString("created_at"),
		UpdatedAt:       f.requiredString("updated_at"),
		Completed:       f.boolean("completed"),
		OwnerIDs:        f.list("owner_ids"),
		RequesterID:     f.value("requested_by_id"),
		IterationID:     f.value("iteration_id"),
		EpicID:          f.value("epic_id"),
		Estimate:        f.value("estimate"),
		TeamID:          f.value("group_id"),
	}
	s.Labels = labels(f)
	if f.err != nil {
		return Story{}, f.err
	}
	return s, nil
}

// Stories 归一化故事列表
func Stories(v any) ([]Story, error) { return each("story", v, StoryView) }

// EpicView 归一化单条史诗记录
func EpicView(v any) (Epic, error) {
	f := newFields("epic", v)
	e := Epic{
		ID:          f.required("id"),
		Name:        f.requiredString("name"),
		Description: f.str("description", ""),
		State:       f.str("state", ""),
		AppURL:      f.requiredString("app_url"),
		CreatedAt:   f.requiredString("created_at"),
		UpdatedAt:   f.requiredString("updated_at"),
		Completed:   f.boolean("completed"),
		OwnerIDs:    f.list("owner_ids"),
		MilestoneID: f.value("milestone_id"),
	}
	e.Labels = labels(f)
	if f.err != nil {
		return Epic{}, f.err
	}
	return e, nil
}

// Epics 归一化史诗列表
func Epics(v any) ([]Epic, error) { return each("epic", v, EpicView) }

// IterationView 归一化单条迭代记录；IncludeStats 为 false 时输出不含 stats 键
func IterationView(v any, opts IterationOptions) (Iteration, error) {
	f := newFields("iteration", v)
	it := Iteration{
		ID:          f.required("id"),
		Name:        f.requiredString("name"),
		Description: f.str("description", ""),
		StartDate:   f.requiredString("start_date"),
		EndDate:     f.requiredString("end_date"),
		Status:      f.requiredString("status"),
		AppURL:      f.requiredString("app_url"),
		CreatedAt:   f.requiredString("created_at"),
		UpdatedAt:   f.requiredString("updated_at"),
		TeamIDs:     f.list("group_ids"),
	}
	if opts.IncludeStats {
		it.Stats = f.object("stats")
	}
	if f.err != nil {
		return Iteration{}, f.err
	}
	return it, nil
}

// Iterations 归一化迭代列表
func Iterations(v any, opts IterationOptions) ([]Iteration, error) {
	return each("iteration", v, func(item any) (Iteration, error) { return IterationView(item, opts) })
}

// TeamView 归一化单条团队（group）记录
func TeamView(v any) (Team, error) {
	f := newFields("team", v)
	t := Team{
		ID:          f.required("id"),
		Name:        f.requiredString("name"),
		MentionName: f.value("mention_name"),
		Description: f.str("description", ""),
		AppURL:      f.requiredString("app_url"),
		NumMembers:  len(f.list("member_ids")),
		WorkflowIDs: f.list("workflow_ids"),
	}
	if f.err != nil {
		return Team{}, f.err
	}
	return t, nil
}

// Teams 归一化团队列表
func Teams(v any) ([]Team, error) { return each("team", v, TeamView) }

// WorkflowView 归一化单条工作流记录
func WorkflowView(v any) (Workflow, error) {
	f := newFields("workflow", v)
	w := Workflow{
		ID:          f.required("id"),
		Name:        f.requiredString("name"),
		Description: f.str("description", ""),
		TeamID:      f.value("team_id"),
		CreatedAt:   f.requiredString("created_at"),
		UpdatedAt:   f.requiredString("updated_at"),
		States:      []WorkflowState{},
	}
	for _, item := range f.list("states") {
		sf := newFields("workflow state", item)
		st := WorkflowState{
			ID:       sf.required("id"),
			Name:     sf.requiredString("name"),
			Type:     sf.requiredString("type"),
			Position: sf.value("position"),
		}
		if st.Position == nil {
			st.Position = 0
		}
		if sf.err != nil {
			f.fail(sf.err)
			break
		}
		w.States = append(w.States, st)
	}
	if f.err != nil {
		return Workflow{}, f.err
	}
	return w, nil
}

// Workflows 归一化工作流列表
func Workflows(v any) ([]Workflow, error) { return each("workflow", v, WorkflowView) }

// ObjectiveView 归一化单条目标记录
func ObjectiveView(v any) (Objective, error) {
	f := newFields("objective", v)
	o := Objective{
		ID:          f.required("id"),
		Name:        f.requiredString("name"),
		Description: f.str("description", ""),
		State:       f.str("state", ""),
		AppURL:      f.requiredString("app_url"),
		CreatedAt:   f.requiredString("created_at"),
		UpdatedAt:   f.requiredString("updated_at"),
		Completed:   f.boolean("completed"),
	}
	if f.err != nil {
		return Objective{}, f.err
	}
	return o, nil
}

// Objectives 归一化目标列表
func Objectives(v any) ([]Objective, error) { return each("objective", v, ObjectiveView) }

// DocumentView 归一化新建文档的响应
func DocumentView(v any) (Document, error) {
	f := newFields("document", v)
	d := Document{
		ID:        f.required("id"),
		Name:      f.requiredString("name"),
		AppURL:    f.requiredString("app_url"),
		CreatedAt: f.requiredString("created_at"),
	}
	if f.err != nil {
		return Document{}, f.err
	}
	return d, nil
}

// CommentView 归一化故事评论
func CommentView(v any) (Comment, error) {
	f := newFields("comment", v)
	c := Comment{
		ID:        f.required("id"),
		Text:      f.requiredString("text"),
		AuthorID:  f.required("author_id"),
		CreatedAt: f.requiredString("created_at"),
		UpdatedAt: f.requiredString("updated_at"),
	}
	if f.err != nil {
		return Comment{}, f.err
	}
	return c, nil
}

func labels(f *fields) []Label {
	out := []Label{}
	for _, item := range f.list("labels") {
		lf := newFields("label", item)
		l := Label{ID: lf.required("id"), Name: lf.requiredString("name")}
		if lf.err != nil {
			f.fail(lf.err)
			return out
		}
		out = append(out, l)
	}
	return out
}
