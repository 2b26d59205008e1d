package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/internal/logging"
	"github.com/reefline/dive-planner/model"
)

func TestOpenSeedsDefaultsAndWritesFiles(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Noop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	params, gases, setpoints := s.Snapshot()
	if params.GFLow != 0.30 || params.GFHigh != 0.70 {
		t.Errorf("default GF = %v/%v, want 0.30/0.70", params.GFLow, params.GFHigh)
	}
	if len(gases.Gases) != 1 || gases.Gases[0].O2Pct != 21 {
		t.Errorf("default gas list = %+v, want one air mix", gases.Gases)
	}
	if len(setpoints.Points) != 4 {
		t.Errorf("default setpoints = %d entries, want 4", len(setpoints.Points))
	}

	for _, name := range []string{parametersFileName, gasListFileName, setPointsFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("seed file %s missing: %v", name, err)
		}
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Noop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = s.MutateGasList(func(gl *core.GasList) error {
		return gl.Add(model.Gas{O2Pct: 50, Type: model.GasTypeDeco, Status: model.GasStatusActive})
	})
	if err != nil {
		t.Fatalf("MutateGasList: %v", err)
	}

	reopened, err := Open(dir, logging.Noop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_, gases, _ := reopened.Snapshot()
	if len(gases.Gases) != 2 {
		t.Fatalf("reopened gas list has %d gases, want 2", len(gases.Gases))
	}
	if gases.Gases[1].O2Pct != 50 {
		t.Errorf("persisted gas = %+v, want 50%%", gases.Gases[1])
	}
}

func TestSnapshotIsolatedFromMutation(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Noop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, gases, _ := s.Snapshot()
	before := len(gases.Gases)

	err = s.MutateGasList(func(gl *core.GasList) error {
		return gl.Add(model.Gas{O2Pct: 100, Type: model.GasTypeDeco, Status: model.GasStatusActive})
	})
	if err != nil {
		t.Fatalf("MutateGasList: %v", err)
	}

	if len(gases.Gases) != before {
		t.Error("mutation after Snapshot leaked into the snapshot")
	}
}

func TestFailedMutationLeavesStoreIntact(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, logging.Noop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	mutateErr := s.MutateGasList(func(gl *core.GasList) error {
		return gl.Delete(0) // last gas, must be refused
	})
	if mutateErr == nil {
		t.Fatal("deleting the last gas succeeded")
	}

	_, gases, _ := s.Snapshot()
	if len(gases.Gases) != 1 {
		t.Errorf("failed mutation changed the store: %d gases", len(gases.Gases))
	}
}
