package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mtran/planhub/internal/model"
)

// FileSink persists weekly plan snapshots as JSON files, one per week,
// named by the week's Monday.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing into dir, creating it on first save.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// SavePlan writes the snapshot to <dir>/<monday>.json, replacing any
// earlier snapshot of the same week.
func (s *FileSink) SavePlan(_ context.Context, plan model.WeeklyPlan) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding weekly plan: %w", err)
	}

	path := filepath.Join(s.dir, plan.WeekStart.Format("2006-01-02")+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing weekly plan: %w", err)
	}
	return nil
}

// LoadPlan reads a previously saved snapshot for the week starting at
// monday. Returns nil when no snapshot exists.
func (s *FileSink) LoadPlan(monday string) (*model.WeeklyPlan, error) {
	path := filepath.Join(s.dir, monday+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading weekly plan: %w", err)
	}

	var plan model.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decoding weekly plan: %w", err)
	}
	return &plan, nil
}
