// Package jobstate persists the outcome of the last export run per catalog
// entry in a small JSON file.
package jobstate

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type RunState struct {
	RunID     string    `json:"run_id"`
	Status    Status    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Rows      int       `json:"rows"`
	Error     string    `json:"error,omitempty"`
	// LastSuccessAt survives failed runs.
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
}

// State maps catalog entry names to their last run.
type State map[string]RunState

type Manager interface {
	LoadState() (State, error)
	SaveState(state State) error
	GetStateFilePath() string
}

type fileStateManager struct {
	filePath string
	mu       sync.RWMutex
}

func NewManager(filePath string) Manager {
	return &fileStateManager{
		filePath: filePath,
	}
}

// LoadState returns an empty state when the file is missing or empty.
func (m *fileStateManager) LoadState() (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("file", m.filePath).Msg("Job state file not found, starting fresh.")
			return make(State), nil
		}
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to read job state file")
		return nil, err
	}

	if len(data) == 0 {
		log.Warn().Str("file", m.filePath).Msg("Job state file is empty, starting fresh.")
		return make(State), nil
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal job state file")
		return nil, err
	}
	if state == nil {
		state = make(State)
	}

	log.Debug().Str("file", m.filePath).Int("entries_tracked", len(state)).Msg("Loaded job state")
	return state, nil
}

// SaveState writes through a temporary file so a crash never leaves a
// half-written state behind.
func (m *fileStateManager) SaveState(state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal job state")
		return err
	}

	tempFilePath := m.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary job state file")
		return err
	}

	if err := os.Rename(tempFilePath, m.filePath); err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", m.filePath).Msg("Failed to rename job state file")
		_ = os.Remove(tempFilePath)
		return err
	}
	log.Debug().Str("file", m.filePath).Int("entries_tracked", len(state)).Msg("Saved job state")
	return nil
}

func (m *fileStateManager) GetStateFilePath() string {
	return m.filePath
}
