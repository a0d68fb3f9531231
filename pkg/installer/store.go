package installer

import (
	"sync"

	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
)

// Store caches what is currently installed (name -> tag) and the last
// known lifecycle state per install. It is owned by the Installer
// instance; there is no package-level state, so independent adapters
// do not see each other.
type Store struct {
	mu        sync.RWMutex
	installed map[string]string
	states    map[string]types.StateRecord
}

func NewStore() *Store {
	return &Store{
		installed: make(map[string]string),
		states:    make(map[string]types.StateRecord),
	}
}

// InstalledTag returns the tag recorded for an install name.
func (s *Store) InstalledTag(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.installed[name]
	return tag, ok
}

// SetInstalled records an installed tag. Cached state is left alone so
// a reconciliation pass cannot undo a terminated override.
func (s *Store) SetInstalled(name, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.installed[name] = tag
}

// RemoveInstalled drops an install record and its state. Removal ends
// the terminated override; a later reinstall starts clean.
func (s *Store) RemoveInstalled(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.installed, name)
	delete(s.states, name)
}

// ReplaceInstalled swaps in a freshly discovered install set. State
// records survive for names still present and are dropped for the rest.
func (s *Store) ReplaceInstalled(installed map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.installed = make(map[string]string, len(installed))
	for name, tag := range installed {
		s.installed[name] = tag
	}
	for name := range s.states {
		if _, ok := s.installed[name]; !ok {
			delete(s.states, name)
		}
	}
}

// State returns the cached lifecycle record for an install name.
func (s *Store) State(name string) (types.StateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.states[name]
	return rec, ok
}

// SetRawState records a daemon-reported state. A terminated override
// keeps precedence: the raw state is updated underneath but the
// override stands until the install is removed or recreated.
func (s *Store) SetRawState(name, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.states[name]
	rec.Raw = raw
	s.states[name] = rec
}

// MarkTerminated pins the install to the synthetic terminated state.
func (s *Store) MarkTerminated(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.states[name]
	rec.Terminated = true
	s.states[name] = rec
}

// ClearState forgets the cached lifecycle record, override included.
// Called when a container is (re)created.
func (s *Store) ClearState(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, name)
}

// Snapshot returns a copy of the install records.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]string, len(s.installed))
	for name, tag := range s.installed {
		snapshot[name] = tag
	}
	return snapshot
}
