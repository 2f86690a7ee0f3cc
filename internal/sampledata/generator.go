// Package sampledata generates synthetic assessment datasets and drives
// them through a running service, for demos and manual verification.
package sampledata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Generation parameter defaults.
const (
	defaultGroups       = 2
	defaultEntities     = 6
	defaultCapabilities = 4
	defaultPasses       = 3
	noteEveryNth        = 3 // roughly every third row carries a note
	ratingMin           = 1.0
	ratingSpan          = 4.0 // ratings land in [1.0, 5.0]
)

// Config controls dataset generation.
type Config struct {
	Groups       int
	Entities     int
	Capabilities int
	Passes       int
	Seed         int64
}

// DefaultConfig returns a small but representative dataset shape.
func DefaultConfig() Config {
	return Config{
		Groups:       defaultGroups,
		Entities:     defaultEntities,
		Capabilities: defaultCapabilities,
		Passes:       defaultPasses,
		Seed:         1,
	}
}

var capabilityNames = []string{
	"Communication", "Problem Solving", "Technical Depth", "Collaboration",
	"Planning", "Adaptability", "Mentoring", "Delivery",
}

var stageNames = []string{"Emerging", "Developing", "Established", "Advanced"}

var noteTemplates = []string{
	"Showed clear improvement since the last assessment.",
	"Struggled with time pressure during the exercise.",
	"Strong result; consistently above expectations.",
	"Needs more structured practice in this area.",
	"Good recovery after early mistakes.",
}

// GenerateCSV produces a CSV dataset with the canonical column set. The
// same config always yields the same bytes.
func GenerateCSV(cfg Config) ([]byte, error) {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible datasets

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"Group Names", "Entity Name", "Capability Name", "Template Name",
		"Assessment Date", "Assessment Number", "Rating", "Notes",
		"Criteria", "Criteria Stage",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 0
	for e := 0; e < cfg.Entities; e++ {
		group := fmt.Sprintf("Group %d", e%cfg.Groups+1)
		entity := fmt.Sprintf("Entity %s", uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d/%d", cfg.Seed, e))).String()[:8])
		for pass := 1; pass <= cfg.Passes; pass++ {
			date := fmt.Sprintf("2024-%02d-15", pass)
			template := fmt.Sprintf("Quarterly Review v%d", (pass-1)/2+1)
			for c := 0; c < cfg.Capabilities; c++ {
				capability := capabilityNames[c%len(capabilityNames)]
				rating := ratingMin + rng.Float64()*ratingSpan
				stage := stageNames[rng.Intn(len(stageNames))]
				note := ""
				if row%noteEveryNth == 0 {
					note = noteTemplates[rng.Intn(len(noteTemplates))]
				}
				record := []string{
					group, entity, capability, template,
					date, fmt.Sprintf("%d", pass), fmt.Sprintf("%.1f", rating), note,
					fmt.Sprintf("Demonstrates %s at the expected level.", capability),
					stage,
				}
				if err := w.Write(record); err != nil {
					return nil, fmt.Errorf("write row: %w", err)
				}
				row++
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
