package tools

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFileTool reads a text file, optionally a line range of it.
type ReadFileTool struct{}

func (r *ReadFileTool) Name() string {
	return "read_file"
}

func (r *ReadFileTool) Description() string {
	return "Read a text file, optionally limited to a line range"
}

func (r *ReadFileTool) Parameters() map[string]any {
	return map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "File path, absolute or relative to the working directory",
		},
		"start_line": map[string]any{
			"type":        "number",
			"description": "First line to include, 1-based (default 1)",
		},
		"max_lines": map[string]any{
			"type":        "number",
			"description": "Maximum number of lines to return (default 500)",
		},
	}
}

func (r *ReadFileTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("path parameter must be a non-empty string")
	}
	path = resolvePath(env, path)

	start := intArg(args, "start_line", 1)
	if start < 1 {
		start = 1
	}
	limit := intArg(args, "max_lines", 500)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	lineNo := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		if lineNo < start {
			continue
		}
		lines = append(lines, scanner.Text())
		if len(lines) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return map[string]any{
		"path":       path,
		"start_line": start,
		"lines":      len(lines),
		"content":    strings.Join(lines, "\n"),
	}, nil
}

func resolvePath(env any, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if e, ok := env.(*Env); ok && e != nil && e.WorkDir != "" {
		return filepath.Join(e.WorkDir, path)
	}
	return path
}

func intArg(args map[string]any, key string, fallback int) int {
	if value, ok := args[key].(float64); ok {
		return int(value)
	}
	return fallback
}
