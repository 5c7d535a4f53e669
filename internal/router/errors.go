package router

import "fmt"

// UnknownEntityError 实体不在本层能力表中
type UnknownEntityError struct {
	Tier      Tier
	Entity    string
	Available []string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity '%s'", e.Entity)
}

// DisallowedOperationError 操作不属于本层
type DisallowedOperationError struct {
	Tier      Tier
	Entity    string
	Operation string
	Allowed   []string
}

func (e *DisallowedOperationError) Error() string {
	return fmt.Sprintf("operation '%s' is not a %s operation for '%s'", e.Operation, e.Tier, e.Entity)
}

// HandlerNotFoundError 能力表允许但没有注册处理器
type HandlerNotFoundError struct {
	Entity string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no handler registered for entity '%s'", e.Entity)
}
