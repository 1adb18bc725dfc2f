package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	ribbonFile   = "ribbon.csv"
)

var framesHeader = []string{
	"tick", "time",
	"end_x", "end_y", "end_z",
	"j1_x", "j1_y", "j1_z",
	"j2_x", "j2_y", "j2_z",
	"j3_x", "j3_y", "j3_z",
	"stretch", "anchor_gap", "dragging",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was set up.
type RunInfo struct {
	Name       string             `json:"name"`
	Device     string             `json:"device"`
	Preset     string             `json:"preset"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Seed       int64              `json:"seed"`
	Params     map[string]float64 `json:"params,omitempty"`
}

type RunMetadata struct {
	RunInfo
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Ticks     int                `json:"ticks"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// Save writes metadata.json, frames.csv and ribbon.csv into a new run
// directory and returns the run id.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	name := info.Name
	if name == "" {
		name = info.Device
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%d", name, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		RunInfo:   info,
		ID:        runID,
		Timestamp: now,
		Ticks:     result.TicksTaken,
		Metrics:   result.Metrics,
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), framesHeader, frameRows(result.Samples)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, ribbonFile), []string{"i", "x", "y", "z"}, ribbonRows(result.Ribbon)); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates a fresh directory, suffixing the id when two runs land
// in the same second.
func (s *Store) newRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func frameRows(samples []dynamo.Sample) [][]string {
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		row := []string{strconv.Itoa(s.Tick), ff(s.Time), ff(s.End.X()), ff(s.End.Y()), ff(s.End.Z())}
		for i := 0; i < 3; i++ {
			var j mgl64.Vec3
			if i < len(s.Joints) {
				j = s.Joints[i]
			}
			row = append(row, ff(j.X()), ff(j.Y()), ff(j.Z()))
		}
		row = append(row, ff(s.Stretch), ff(s.AnchorGap), strconv.FormatBool(s.Dragging))
		rows = append(rows, row)
	}
	return rows
}

func ribbonRows(points []mgl64.Vec3) [][]string {
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		rows = append(rows, []string{strconv.Itoa(i), ff(p.X()), ff(p.Y()), ff(p.Z())})
	}
	return rows
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, v := range record {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// LoadSamples reads frames.csv back.
func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, 0, len(records))
	for n, record := range records {
		if len(record) != len(framesHeader) {
			return nil, fmt.Errorf("%s line %d: expected %d columns, got %d", framesFile, n+2, len(framesHeader), len(record))
		}
		v, err := parseFloats(record[:len(record)-1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, n+2, err)
		}
		dragging, err := strconv.ParseBool(record[len(record)-1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, n+2, err)
		}
		samples = append(samples, dynamo.Sample{
			Tick: int(v[0]),
			Time: v[1],
			End:  mgl64.Vec3{v[2], v[3], v[4]},
			Joints: []mgl64.Vec3{
				{v[5], v[6], v[7]},
				{v[8], v[9], v[10]},
				{v[11], v[12], v[13]},
			},
			Stretch:   v[14],
			AnchorGap: v[15],
			Dragging:  dragging,
		})
	}
	return samples, nil
}

// LoadRibbon reads ribbon.csv back.
func (s *Store) LoadRibbon(runID string) ([]mgl64.Vec3, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, ribbonFile))
	if err != nil {
		return nil, err
	}

	points := make([]mgl64.Vec3, 0, len(records))
	for n, record := range records {
		v, err := parseFloats(record)
		if err != nil || len(v) != 4 {
			return nil, fmt.Errorf("%s line %d: malformed point", ribbonFile, n+2)
		}
		points = append(points, mgl64.Vec3{v[1], v[2], v[3]})
	}
	return points, nil
}
