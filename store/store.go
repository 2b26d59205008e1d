// Package store keeps the planner configuration — parameters, gas
// list, setpoint schedule — behind a single concurrency-safe handle
// with binary persistence. Plans never read the store directly: they
// take value snapshots at build entry, so external mutation between
// builds can never race a build in flight.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/internal/logging"
)

const (
	parametersFileName = "parameters.dat"
	gasListFileName    = "gaslist.dat"
	setPointsFileName  = "setpoints.dat"
)

// Store owns the persisted configuration. All access goes through its
// methods; the mutex makes it safe to share across goroutines.
type Store struct {
	mu  sync.RWMutex
	dir string
	log logging.Logger

	params    core.Parameters
	gases     core.GasList
	setPoints core.SetPoints
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "dive-planner"), nil
}

// Open loads the three configuration files from dir, seeding and
// writing defaults for any that are missing. A file that exists but
// cannot be read surfaces its error; the in-memory state stays on
// defaults so planning can proceed.
func Open(dir string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Noop()
	}
	s := &Store{
		dir:       dir,
		log:       log,
		params:    core.DefaultParameters(),
		gases:     core.DefaultGasList(),
		setPoints: core.DefaultSetPoints(),
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s, fmt.Errorf("create config dir %q: %w", dir, err)
	}

	ctx := context.Background()
	var firstErr error

	if params, err := loadParameters(s.paramsPath()); err == nil {
		s.params = params
	} else if os.IsNotExist(err) {
		if werr := saveParameters(s.paramsPath(), s.params); werr != nil {
			firstErr = werr
		}
	} else {
		log.Warn(ctx, "parameters load failed, using defaults", logging.String("error", err.Error()))
		firstErr = err
	}

	if gases, migrated, err := loadGasList(s.gasListPath()); err == nil {
		s.gases = gases
		if migrated {
			// Rewrite legacy unversioned files in the current format.
			if werr := saveGasList(s.gasListPath(), s.gases); werr != nil && firstErr == nil {
				firstErr = werr
			}
		}
	} else if os.IsNotExist(err) {
		if werr := saveGasList(s.gasListPath(), s.gases); werr != nil && firstErr == nil {
			firstErr = werr
		}
	} else {
		log.Warn(ctx, "gas list load failed, using defaults", logging.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}

	if sps, migrated, err := loadSetPoints(s.setPointsPath()); err == nil {
		s.setPoints = sps
		if migrated {
			if werr := saveSetPoints(s.setPointsPath(), s.setPoints); werr != nil && firstErr == nil {
				firstErr = werr
			}
		}
	} else if os.IsNotExist(err) {
		if werr := saveSetPoints(s.setPointsPath(), s.setPoints); werr != nil && firstErr == nil {
			firstErr = werr
		}
	} else {
		log.Warn(ctx, "setpoints load failed, using defaults", logging.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}

	return s, firstErr
}

func (s *Store) paramsPath() string    { return filepath.Join(s.dir, parametersFileName) }
func (s *Store) gasListPath() string   { return filepath.Join(s.dir, gasListFileName) }
func (s *Store) setPointsPath() string { return filepath.Join(s.dir, setPointsFileName) }

// Snapshot hands out value copies for a build.
func (s *Store) Snapshot() (core.Parameters, core.GasList, core.SetPoints) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params, s.gases.Clone(), s.setPoints.Clone()
}

// UpdateParameters applies fn to a copy of the parameters and persists
// the result. On write failure the in-memory state is rolled back.
func (s *Store) UpdateParameters(fn func(*core.Parameters)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.params
	fn(&updated)
	if err := saveParameters(s.paramsPath(), updated); err != nil {
		return err
	}
	s.params = updated
	return nil
}

// MutateGasList applies fn to a copy of the gas list and persists the
// result, keeping memory and disk consistent.
func (s *Store) MutateGasList(fn func(*core.GasList) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.gases.Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if err := saveGasList(s.gasListPath(), updated); err != nil {
		return err
	}
	s.gases = updated
	return nil
}

// MutateSetPoints applies fn to a copy of the schedule and persists the
// result.
func (s *Store) MutateSetPoints(fn func(*core.SetPoints) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.setPoints.Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if err := saveSetPoints(s.setPointsPath(), updated); err != nil {
		return err
	}
	s.setPoints = updated
	return nil
}
