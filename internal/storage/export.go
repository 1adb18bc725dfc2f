package storage

import (
	"encoding/json"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/dynamo"
)

type ExportData struct {
	RunInfo
	Steps   int                `json:"steps"`
	Samples []dynamo.Sample    `json:"samples"`
	Ribbon  []mgl64.Vec3       `json:"ribbon"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a whole run as one indented JSON document.
func ExportJSON(w io.Writer, info RunInfo, result *dynamo.Result) error {
	data := ExportData{
		RunInfo: info,
		Steps:   result.TicksTaken,
		Samples: result.Samples,
		Ribbon:  result.Ribbon,
		Metrics: result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
