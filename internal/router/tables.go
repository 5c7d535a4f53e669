package router

import "sort"

// Tier 权限层级
type Tier string

const (
	// Read 只读层，可自动批准
	Read Tier = "read"
	// Write 写入层，需要人工批准
	Write Tier = "write"
)

// CapabilityTable 实体名 -> 该层允许的操作
type CapabilityTable map[string][]string

// Entities 返回表中的实体名（已排序）
func (t CapabilityTable) Entities() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Allows 判断 entity 的 operation 是否在表中
func (t CapabilityTable) Allows(entity, operation string) bool {
	for _, op := range t[entity] {
		if op == operation {
			return true
		}
	}
	return false
}

// ReadOperations 只读层能力表
var ReadOperations = CapabilityTable{
	"stories":    {"get", "search", "branch-name"},
	"epics":      {"get", "list", "search"},
	"iterations": {"get", "list"},
	"teams":      {"get", "list"},
	"workflows":  {"get", "list"},
	"users":      {"get", "list", "current", "current-teams"},
	"objectives": {"get", "list"},
}

// WriteOperations 写入层能力表
var WriteOperations = CapabilityTable{
	"stories":    {"create", "create-and-checkout", "update", "delete", "comment"},
	"epics":      {"create", "update", "delete"},
	"iterations": {"create", "update", "delete"},
	"objectives": {"create", "update", "delete"},
	"documents":  {"create"},
}
