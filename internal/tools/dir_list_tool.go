package tools

import (
	"context"
	"fmt"
	"os"
)

// ListDirTool lists directory entries with type and size.
type ListDirTool struct{}

func (l *ListDirTool) Name() string {
	return "list_dir"
}

func (l *ListDirTool) Description() string {
	return "List the entries of a directory"
}

func (l *ListDirTool) Parameters() map[string]any {
	return map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "Directory path (default: working directory)",
		},
	}
}

func (l *ListDirTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	path, _ := args["path"].(string)
	if path == "" {
		path = "."
	}
	path = resolvePath(env, path)

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	listed := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"name": entry.Name(),
			"dir":  entry.IsDir(),
		}
		if info, err := entry.Info(); err == nil && !entry.IsDir() {
			item["size"] = info.Size()
		}
		listed = append(listed, item)
	}

	return map[string]any{
		"path":    path,
		"count":   len(listed),
		"entries": listed,
	}, nil
}
