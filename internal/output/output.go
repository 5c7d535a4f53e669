// Package output renders command results and failures as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// Stdio 是命令使用的输入输出流
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// JSON 以两空格缩进输出一个 JSON 文档
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode output")
	}
	return nil
}

// Envelope 构造错误输出，带提示时包含 hint 字段
func Envelope(err error) map[string]any {
	env := map[string]any{"error": err.Error()}
	if hint := errors.FlattenHints(err); hint != "" {
		env["hint"] = hint
	}
	return env
}

// Error 将错误以 {"error": ..., "hint": ...} 形式写入 w
func Error(w io.Writer, err error) {
	ErrorWith(w, err, nil)
}

// ErrorWith 在错误输出中附加额外字段
func ErrorWith(w io.Writer, err error, extra map[string]any) {
	env := Envelope(err)
	for k, v := range extra {
		env[k] = v
	}
	if encErr := JSON(w, env); encErr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
