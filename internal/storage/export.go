package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/growthsim/internal/growth"
)

type ExportData struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Params      growth.Params      `json:"params"`
	SteadyState *float64           `json:"steady_state,omitempty"`
	Periods     int                `json:"periods"`
	Capital     []float64          `json:"capital"`
	Flows       []growth.Flow      `json:"flows,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run with its path and, when flows is non-nil, the
// per-period breakdown.
func ExportJSON(w io.Writer, meta *RunMetadata, path growth.Path, flows []growth.Flow) error {
	data := ExportData{
		ID:          meta.ID,
		Name:        meta.Name,
		Params:      meta.Params,
		SteadyState: meta.SteadyState,
		Periods:     path.Periods(),
		Capital:     path,
		Flows:       flows,
		Metrics:     meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes a period,capital table.
func WriteCSV(w io.Writer, path growth.Path) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"period", "capital"}); err != nil {
		return err
	}
	for t, k := range path {
		row := []string{strconv.Itoa(t), strconv.FormatFloat(k, 'g', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
