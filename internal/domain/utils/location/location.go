package location

import (
	"fmt"
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	location = time.UTC
)

// Load sets the process-wide time zone used to read and render naive timestamps
// (spreadsheet cells, export columns). An empty name keeps UTC.
func Load(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("error while load time location %q: %w", name, err)
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return nil
}

func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}
