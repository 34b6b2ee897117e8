package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

// ErrRunNotFound is returned when a run directory does not exist.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile  = "metadata.json"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
)

var seriesHeader = []string{
	"step", "time", "wall_left", "kinetic_energy", "potential_energy",
	"mean_density", "max_density", "max_pressure", "max_speed",
}

var particlesHeader = []string{"x", "y", "vx", "vy", "mass", "density", "pressure"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes the run being saved.
type RunInfo struct {
	Name       string
	Dt         float64
	Steps      int
	Controller string
	Params     sph.Params
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Duration   float64            `json:"duration"`
	Particles  int                `json:"particles"`
	Controller string             `json:"controller"`
	Params     sph.Params         `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes metadata.json, series.csv and particles.csv into a new run
// directory and returns its ID.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       info.Name,
		Timestamp:  now,
		Dt:         info.Dt,
		Steps:      info.Steps,
		StepsTaken: result.StepsTaken,
		Duration:   result.Time,
		Particles:  len(result.Final),
		Controller: info.Controller,
		Params:     info.Params,
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(result.Samples))
	for _, smp := range result.Samples {
		rows = append(rows, []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			formatFloat(smp.WallLeft),
			formatFloat(smp.KineticEnergy),
			formatFloat(smp.PotentialEnergy),
			formatFloat(smp.MeanDensity),
			formatFloat(smp.MaxDensity),
			formatFloat(smp.MaxPressure),
			formatFloat(smp.MaxSpeed),
		})
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), seriesHeader, rows); err != nil {
		return "", err
	}

	rows = make([][]string, 0, len(result.Final))
	for _, p := range result.Final {
		rows = append(rows, []string{
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(p.Velocity.X),
			formatFloat(p.Velocity.Y),
			formatFloat(p.Mass),
			formatFloat(p.Density),
			formatFloat(p.Pressure),
		})
	}
	if err := writeCSV(filepath.Join(runDir, particlesFile), particlesHeader, rows); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, notFound(runID, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadSeries reads the sampled time series of a run.
func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	records, err := s.readCSV(runID, seriesFile)
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < len(seriesHeader) {
			continue
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		v, ok := parseFloats(rec[1:])
		if !ok {
			continue
		}
		samples = append(samples, sim.Sample{
			Step:            step,
			Time:            v[0],
			WallLeft:        v[1],
			KineticEnergy:   v[2],
			PotentialEnergy: v[3],
			MeanDensity:     v[4],
			MaxDensity:      v[5],
			MaxPressure:     v[6],
			MaxSpeed:        v[7],
		})
	}

	return samples, nil
}

// LoadParticles reads the final particle set of a run.
func (s *Store) LoadParticles(runID string) ([]sph.Particle, error) {
	records, err := s.readCSV(runID, particlesFile)
	if err != nil {
		return nil, err
	}

	ps := make([]sph.Particle, 0, len(records))
	for _, rec := range records {
		v, ok := parseFloats(rec)
		if !ok || len(v) < len(particlesHeader) {
			continue
		}
		ps = append(ps, sph.Particle{
			Position: r2.Vec{X: v[0], Y: v[1]},
			Velocity: r2.Vec{X: v[2], Y: v[3]},
			Mass:     v[4],
			Density:  v[5],
			Pressure: v[6],
		})
	}

	return ps, nil
}

// readCSV returns the data rows of a run file, header stripped.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read %s/%s: %w", runID, name, err)
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return err
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloats(fields []string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
