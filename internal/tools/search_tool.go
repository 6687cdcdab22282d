package tools

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxSearchMatches = 200

// SearchTextTool greps files under a directory for a regular expression.
type SearchTextTool struct{}

func (s *SearchTextTool) Name() string {
	return "search_text"
}

func (s *SearchTextTool) Description() string {
	return "Search files under a directory for a regular expression"
}

func (s *SearchTextTool) Parameters() map[string]any {
	return map[string]any{
		"pattern": map[string]any{
			"type":        "string",
			"description": "Go regular expression to search for",
		},
		"path": map[string]any{
			"type":        "string",
			"description": "Directory to search (default: working directory)",
		},
		"ext": map[string]any{
			"type":        "string",
			"description": "Only search files with this extension, e.g. '.go'",
		},
	}
}

func (s *SearchTextTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	pattern, ok := args["pattern"].(string)
	if !ok || pattern == "" {
		return nil, fmt.Errorf("pattern parameter must be a non-empty string")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	root, _ := args["path"].(string)
	if root == "" {
		root = "."
	}
	root = resolvePath(env, root)
	ext, _ := args["ext"].(string)

	var matches []map[string]any
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if ext != "" && filepath.Ext(path) != ext {
			return nil
		}
		if len(matches) >= maxSearchMatches {
			return filepath.SkipAll
		}
		found, err := searchFile(path, re, maxSearchMatches-len(matches))
		if err != nil {
			return nil
		}
		matches = append(matches, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"pattern": pattern,
		"path":    root,
		"count":   len(matches),
		"matches": matches,
	}, nil
}

func searchFile(path string, re *regexp.Regexp, limit int) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var found []map[string]any
	lineNo := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !re.MatchString(line) {
			continue
		}
		found = append(found, map[string]any{
			"file": path,
			"line": lineNo,
			"text": strings.TrimSpace(line),
		})
		if len(found) >= limit {
			break
		}
	}
	return found, scanner.Err()
}
