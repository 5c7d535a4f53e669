package format

// Label 标签
type Label struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

// Story 故事视图
type Story struct {
	ID              any     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	StoryType       string  `json:"story_type"`
	WorkflowStateID any     `json:"workflow_state_id"`
	AppURL          string  `json:"app_url"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	Completed       bool    `json:"completed"`
	OwnerIDs        []any   `json:"owner_ids"`
	RequesterID     any     `json:"requester_id"`
	IterationID     any     `json:"iteration_id"`
	EpicID          any     `json:"epic_id"`
	Estimate        any     `json:"estimate"`
	Labels          []Label `json:"labels"`
	TeamID          any     `json:"team_id"`
}

// Epic 史诗视图
type Epic struct {
	ID          any     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	State       string  `json:"state"`
	AppURL      string  `json:"app_url"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	Completed   bool    `json:"completed"`
	OwnerIDs    []any   `json:"owner_ids"`
	MilestoneID any     `json:"milestone_id"`
	Labels      []Label `json:"labels"`
}

// Iteration 迭代视图
type Iteration struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	AppURL      string `json:"app_url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	TeamIDs     []any  `json:"team_ids"`
	// nil unless IterationOptions.IncludeStats; a non-nil empty map still renders as {}
	Stats any `json:"stats,omitempty"`
}

// IterationOptions 控制迭代视图的可选内容
type IterationOptions struct {
	IncludeStats bool
}

// Team 团队视图
type Team struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	MentionName any    `json:"mention_name"`
	Description string `json:"description"`
	AppURL      string `json:"app_url"`
	NumMembers  int    `json:"num_members"`
	WorkflowIDs []any  `json:"workflow_ids"`
}

// WorkflowState 工作流状态
type WorkflowState struct {
	ID       any    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Position any    `json:"position"`
}

// Workflow 工作流视图
type Workflow struct {
	ID          any             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TeamID      any             `json:"team_id"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	States      []WorkflowState `json:"states"`
}

// Objective 目标视图
type Objective struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	AppURL      string `json:"app_url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Completed   bool   `json:"completed"`
}

// Member 成员视图，/member 与 /members/{id} 两种响应形状归一到同一结构
type Member struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Email       any    `json:"email"`
	MentionName any    `json:"mention_name"`
}

// Document 文档视图
type Document struct {
	ID        any    `json:"id"`
	Name      string `json:"name"`
	AppURL    string `json:"app_url"`
	CreatedAt string `json:"created_at"`
}

// Comment 评论视图
type Comment struct {
	ID        any    `json:"id"`
	Text      string `json:"text"`
	AuthorID  any    `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
