// Package runstore persists detection runs and pattern scores across SQL backends.
package runstore

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/faultline-io/faultline/internal/contract"
)

// Table names for run tracking.
const (
	detectionRunsTable = "faultline_detection_runs"
	patternScoresTable = "faultline_pattern_scores"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// RunStoreManager hands out the configured run store.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the run store.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// validateTableName ensures the name is a safe SQL identifier, to prevent
// SQL injection through dynamically assembled queries.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}
