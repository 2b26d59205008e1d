package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/model"
)

// Binary file layout: 4-byte magic, uint32 version, uint64 record
// count, then fixed-width little-endian records. Files written by the
// original unversioned tool carry no magic; they are read through the
// legacy layout and rewritten versioned on first load.
const fileVersion uint32 = 1

var (
	gasListMagic   = [4]byte{'D', 'P', 'G', 'L'}
	setPointsMagic = [4]byte{'D', 'P', 'S', 'P'}
)

var errUnknownVersion = errors.New("unknown file version")

type gasRecord struct {
	O2Pct  float64
	HePct  float64
	Type   int32
	Status int32
}

type setPointRecord struct {
	DepthM      float64
	SetPointBar float64
}

func saveGasList(path string, gl core.GasList) error {
	var buf bytes.Buffer
	buf.Write(gasListMagic[:])
	if err := binary.Write(&buf, binary.LittleEndian, fileVersion); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(gl.Gases))); err != nil {
		return err
	}
	for _, g := range gl.Gases {
		rec := gasRecord{O2Pct: g.O2Pct, HePct: g.HePct, Type: int32(g.Type), Status: int32(g.Status)}
		if err := binary.Write(&buf, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return writeFileAtomic(path, buf.Bytes())
}

func loadGasList(path string) (core.GasList, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.GasList{}, false, err
	}

	body, legacy, err := splitVersioned(data, gasListMagic)
	if err != nil {
		return core.GasList{}, false, fmt.Errorf("gas list %q: %w", path, err)
	}

	r := bytes.NewReader(body)
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return core.GasList{}, false, fmt.Errorf("gas list %q: read count: %w", path, err)
	}
	if count > 1<<16 {
		return core.GasList{}, false, fmt.Errorf("gas list %q: implausible count %d", path, count)
	}

	gl := core.GasList{Gases: make([]model.Gas, 0, count)}
	for i := uint64(0); i < count; i++ {
		var rec gasRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return core.GasList{}, false, fmt.Errorf("gas list %q: record %d: %w", path, i, err)
		}
		gl.Gases = append(gl.Gases, model.Gas{
			O2Pct:  rec.O2Pct,
			HePct:  rec.HePct,
			Type:   model.GasType(rec.Type),
			Status: model.GasStatus(rec.Status),
		})
	}
	if len(gl.Gases) == 0 {
		gl = core.DefaultGasList()
	}
	return gl, legacy, nil
}

func saveSetPoints(path string, sp core.SetPoints) error {
	var buf bytes.Buffer
	buf.Write(setPointsMagic[:])
	if err := binary.Write(&buf, binary.LittleEndian, fileVersion); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(sp.Points))); err != nil {
		return err
	}
	for _, pt := range sp.Points {
		rec := setPointRecord{DepthM: pt.DepthM, SetPointBar: pt.SetPointBar}
		if err := binary.Write(&buf, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return writeFileAtomic(path, buf.Bytes())
}

func loadSetPoints(path string) (core.SetPoints, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.SetPoints{}, false, err
	}

	body, legacy, err := splitVersioned(data, setPointsMagic)
	if err != nil {
		return core.SetPoints{}, false, fmt.Errorf("setpoints %q: %w", path, err)
	}

	r := bytes.NewReader(body)
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return core.SetPoints{}, false, fmt.Errorf("setpoints %q: read count: %w", path, err)
	}
	if count > 1<<16 {
		return core.SetPoints{}, false, fmt.Errorf("setpoints %q: implausible count %d", path, count)
	}

	sp := core.SetPoints{Points: make([]model.SetPoint, 0, count)}
	for i := uint64(0); i < count; i++ {
		var rec setPointRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return core.SetPoints{}, false, fmt.Errorf("setpoints %q: record %d: %w", path, i, err)
		}
		sp.Points = append(sp.Points, model.SetPoint{DepthM: rec.DepthM, SetPointBar: rec.SetPointBar})
	}
	if len(sp.Points) == 0 {
		sp = core.DefaultSetPoints()
	}
	sp.Sort()
	return sp, legacy, nil
}

// splitVersioned strips and checks the magic/version header. A file
// that does not start with the magic is treated as the legacy
// unversioned layout and returned whole.
func splitVersioned(data []byte, magic [4]byte) (body []byte, legacy bool, err error) {
	if len(data) >= 8 && bytes.Equal(data[:4], magic[:]) {
		version := binary.LittleEndian.Uint32(data[4:8])
		if version != fileVersion {
			return nil, false, fmt.Errorf("%w: %d", errUnknownVersion, version)
		}
		return data[8:], false, nil
	}
	return data, true, nil
}

// parametersFile is the self-describing on-disk form of the parameter
// set. JSON keeps the format inspectable and round-trip exact.
type parametersFile struct {
	Version    uint32          `json:"version"`
	Parameters core.Parameters `json:"parameters"`
}

func saveParameters(path string, p core.Parameters) error {
	data, err := json.MarshalIndent(parametersFile{Version: fileVersion, Parameters: p}, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

func loadParameters(path string) (core.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Parameters{}, err
	}
	var pf parametersFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return core.Parameters{}, fmt.Errorf("parameters %q: %w", path, err)
	}
	if pf.Version != fileVersion {
		return core.Parameters{}, fmt.Errorf("parameters %q: %w: %d", path, errUnknownVersion, pf.Version)
	}
	return pf.Parameters, nil
}

// writeFileAtomic writes through a temp file and renames, so a crashed
// write never leaves a truncated config behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
