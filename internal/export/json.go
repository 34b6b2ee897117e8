package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
	"github.com/san-kum/sphsim/internal/storage"
)

type ExportData struct {
	Name       string             `json:"name"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Duration   float64            `json:"duration"`
	Series     []sim.Sample       `json:"series"`
	Particles  [][4]float64       `json:"particles"` // x, y, vx, vy
	Metrics    map[string]float64 `json:"metrics"`
}

// WriteJSON encodes a stored run.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, series []sim.Sample, particles []sph.Particle) error {
	data := ExportData{
		Name:       meta.Name,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		Steps:      meta.StepsTaken,
		Duration:   meta.Duration,
		Series:     series,
		Particles:  make([][4]float64, 0),
		Metrics:    meta.Metrics,
	}
	for _, p := range particles {
		data.Particles = append(data.Particles, [4]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
