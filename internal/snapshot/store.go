package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"sprintlens/internal/workitem"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName maps a sprint name onto its JSONL file name.
func FileName(sprint string) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(sprint, "_"), "_")
	if name == "" {
		name = "sprint"
	}
	return name + ".jsonl"
}

// Store keeps per-sprint work item snapshots in memory and persists them as JSONL.
type Store struct {
	dir string

	mu      sync.RWMutex
	sprints map[string][]workitem.WorkItem
	saved   map[string]time.Time
}

// NewStore creates an empty store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		sprints: make(map[string][]workitem.WorkItem),
		saved:   make(map[string]time.Time),
	}
}

// Dir returns the directory snapshots are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Put replaces the snapshot for a sprint. Duplicate IDs keep the last occurrence
// and the stored slice is ordered by ID.
func (s *Store) Put(sprint string, items []workitem.WorkItem) {
	byID := make(map[int]int, len(items))
	out := make([]workitem.WorkItem, 0, len(items))
	for _, it := range items {
		if idx, ok := byID[it.ID]; ok {
			out[idx] = it
			continue
		}
		byID[it.ID] = len(out)
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sprints[sprint] = out
}

// Get returns a copy of the snapshot for a sprint.
func (s *Store) Get(sprint string) ([]workitem.WorkItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.sprints[sprint]
	if !ok {
		return nil, false
	}
	return append([]workitem.WorkItem(nil), items...), true
}

// Count returns the number of items held for a sprint.
func (s *Store) Count(sprint string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sprints[sprint])
}

// SavedAt returns the modification time of the sprint's snapshot file as of the
// last Load or Save.
func (s *Store) SavedAt(sprint string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[sprint]
}

// Load reads a sprint snapshot from disk. A missing file is not an error; found
// reports whether one existed.
func (s *Store) Load(sprint string) (found bool, err error) {
	path := filepath.Join(s.dir, FileName(sprint))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	var items []workitem.WorkItem
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var it workitem.WorkItem
		if err := json.Unmarshal(scanner.Bytes(), &it); err != nil {
			log.Warn().Err(err).Str("sprint", sprint).Int("line", line).Msg("Skipping invalid JSON line in snapshot")
			continue
		}
		items = append(items, it)
	}

	if err := scanner.Err(); err != nil {
		return true, fmt.Errorf("error reading snapshot: %w", err)
	}

	s.Put(sprint, items)
	if info, err := file.Stat(); err == nil {
		s.mu.Lock()
		s.saved[sprint] = info.ModTime()
		s.mu.Unlock()
	}

	log.Info().Str("sprint", sprint).Int("count", len(items)).Msg("Loaded work items from snapshot")
	return true, nil
}

// Save persists the sprint snapshot, writing a temp file and renaming it into place.
func (s *Store) Save(sprint string) error {
	s.mu.RLock()
	items, ok := s.sprints[sprint]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no snapshot held for sprint %q", sprint)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	path := filepath.Join(s.dir, FileName(sprint))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, it := range items {
		if err := encoder.Encode(it); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode work item %d: %w", it.ID, err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	s.mu.Lock()
	s.saved[sprint] = time.Now()
	s.mu.Unlock()

	log.Info().Str("sprint", sprint).Int("count", len(items)).Str("path", path).Msg("Snapshot saved")
	return nil
}
