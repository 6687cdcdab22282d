package tools

import (
	"context"
	"time"
)

// CurrentTimeTool reports the current date and time.
type CurrentTimeTool struct{}

func (c *CurrentTimeTool) Name() string {
	return "current_time"
}

func (c *CurrentTimeTool) Description() string {
	return "Get the current date and time"
}

func (c *CurrentTimeTool) Parameters() map[string]any {
	return map[string]any{
		"format": map[string]any{
			"type":        "string",
			"description": "Output format: 'iso' (default), 'human', 'date', 'time', 'unix', or a Go layout string",
		},
	}
}

func (c *CurrentTimeTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	now := time.Now()

	format, _ := args["format"].(string)
	switch format {
	case "", "iso":
		return now.Format(time.RFC3339), nil
	case "human":
		return now.Format("January 2, 2006 at 3:04 PM MST"), nil
	case "date":
		return now.Format("2006-01-02"), nil
	case "time":
		return now.Format("15:04:05"), nil
	case "unix":
		return now.Unix(), nil
	default:
		return now.Format(format), nil
	}
}
