package tools

import (
	"context"
	"fmt"
	"time"
)

// DatetimeTool reports the current date and time. The clock is injectable
// for tests.
type DatetimeTool struct {
	now func() time.Time
}

// NewDatetimeTool creates the datetime tool using the system clock.
func NewDatetimeTool() *DatetimeTool {
	return &DatetimeTool{now: time.Now}
}

func (t *DatetimeTool) Name() string { return "get_current_datetime" }

func (t *DatetimeTool) Description() string {
	return "Returns the current date and time. Takes no arguments."
}

func (t *DatetimeTool) Schema() map[string]ArgSpec { return nil }

func (t *DatetimeTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	return fmt.Sprintf("Current date and time: %s", t.now().Format("2006-01-02 15:04:05")), nil
}
