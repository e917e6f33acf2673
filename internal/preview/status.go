package preview

import (
	"sync"
	"time"
)

// buildStatus tracks the outcome of the latest build for /healthz.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	hasGoodBuild bool // true if at least one successful build exists
	builds       int
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	bs.builds++
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuild = time.Now()
	bs.hasGoodBuild = true
	bs.builds++
}

// Snapshot is a read-only view of the build status.
type Snapshot struct {
	Healthy      bool      `json:"healthy"`
	Error        string    `json:"error,omitempty"`
	HasGoodBuild bool      `json:"has_good_build"`
	Builds       int       `json:"builds"`
	LastBuild    time.Time `json:"last_build"`
}

func (bs *buildStatus) snapshot() Snapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	s := Snapshot{
		Healthy:      bs.lastError == nil && bs.builds > 0,
		HasGoodBuild: bs.hasGoodBuild,
		Builds:       bs.builds,
		LastBuild:    bs.lastBuild,
	}
	if bs.lastError != nil {
		s.Error = bs.lastError.Error()
	}
	return s
}
