package snapfit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

var ErrNoProgress = errors.New("no progress recorded")

type LevelProgress struct {
	LevelID   string        `json:"level_id"`
	BestTime  time.Duration `json:"best_time,omitempty"`
	BestStars int           `json:"best_stars,omitempty"`
	Completed bool          `json:"completed"`
}

// Merge folds a new run into the stored record, keeping the best values.
func (p LevelProgress) Merge(run LevelProgress) LevelProgress {
	out := p
	out.LevelID = run.LevelID
	if !run.Completed {
		return out
	}
	out.Completed = true
	if out.BestTime == 0 || run.BestTime < out.BestTime {
		out.BestTime = run.BestTime
	}
	if run.BestStars > out.BestStars {
		out.BestStars = run.BestStars
	}
	return out
}

type ProgressStore interface {
	SaveProgress(progress LevelProgress) error
	// LoadProgress returns ErrNoProgress when the level has no record.
	LoadProgress(levelID string) (LevelProgress, error)
}

// FileProgressStore keeps one JSON file per level in Dir.
type FileProgressStore struct {
	Dir string
}

func NewFileProgressStore(dir string) *FileProgressStore {
	return &FileProgressStore{Dir: dir}
}

func (s *FileProgressStore) path(levelID string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("level_progress_%s.json", levelID))
}

func (s *FileProgressStore) SaveProgress(progress LevelProgress) error {
	if progress.LevelID == "" {
		return errors.New("save progress: empty level id")
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	bytes, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return os.WriteFile(s.path(progress.LevelID), bytes, 0644)
}

func (s *FileProgressStore) LoadProgress(levelID string) (LevelProgress, error) {
	bytes, err := os.ReadFile(s.path(levelID))
	if errors.Is(err, fs.ErrNotExist) {
		return LevelProgress{}, ErrNoProgress
	}
	if err != nil {
		return LevelProgress{}, fmt.Errorf("load progress %s: %w", levelID, err)
	}
	var progress LevelProgress
	if err := json.Unmarshal(bytes, &progress); err != nil {
		return LevelProgress{}, fmt.Errorf("load progress %s: %w", levelID, err)
	}
	return progress, nil
}

// MemoryProgressStore is an in-process ProgressStore.
type MemoryProgressStore struct {
	records map[string]LevelProgress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{records: make(map[string]LevelProgress)}
}

func (s *MemoryProgressStore) SaveProgress(progress LevelProgress) error {
	s.records[progress.LevelID] = progress
	return nil
}

func (s *MemoryProgressStore) LoadProgress(levelID string) (LevelProgress, error) {
	p, ok := s.records[levelID]
	if !ok {
		return LevelProgress{}, ErrNoProgress
	}
	return p, nil
}
