package placement

import (
	"fmt"

	"github.com/MeKo-Tech/terrainnoise/internal/field"
)

// Stats summarizes one placement run.
type Stats struct {
	TotalCells    int
	PlacedCells   int
	Coverage      float64 // percent of cells with a placement
	MeanTerrain   float64
	MaxDensity    float64
	MeanSpacing   float64 // mean distance to the nearest placement, 0 if unset
	Threshold     float64
	DensityWindow int
}

// Summarize collects placement statistics for a mask, the terrain it was
// gated by, and its density field.
func Summarize(terrain, mask, density *field.Scalar) (Stats, error) {
	if err := field.CheckShape(terrain, mask); err != nil {
		return Stats{}, fmt.Errorf("summarize: %w", err)
	}
	if err := field.CheckShape(mask, density); err != nil {
		return Stats{}, fmt.Errorf("summarize: %w", err)
	}

	placed := mask.Sum()
	total := mask.Len()
	return Stats{
		TotalCells:  total,
		PlacedCells: int(placed),
		Coverage:    placed / float64(total) * 100,
		MeanTerrain: terrain.Mean(),
		MaxDensity:  density.Max(),
	}, nil
}

func (s Stats) String() string {
	out := fmt.Sprintf("%d/%d cells placed (%.2f%%), mean terrain %.3f, max density %.3f",
		s.PlacedCells, s.TotalCells, s.Coverage, s.MeanTerrain, s.MaxDensity)
	if s.MeanSpacing > 0 {
		out += fmt.Sprintf(", mean spacing %.2f cells", s.MeanSpacing)
	}
	return out
}
