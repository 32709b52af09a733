package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/enginesim/internal/dynamo"
)

type Document struct {
	ID      string             `json:"id,omitempty"`
	Engine  map[string]float64 `json:"engine"`
	Forcing map[string]any     `json:"forcing"`
	Step    float64            `json:"step"`
	Steps   int                `json:"steps"`
	Columns []string           `json:"columns"`
	Rows    [][]float64        `json:"rows"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// NewDocument lays samples out as rows in Header order.
func NewDocument(samples []dynamo.Sample) *Document {
	doc := &Document{
		Columns: Header,
		Steps:   max(len(samples)-1, 0),
		Rows:    make([][]float64, len(samples)),
	}
	for i, s := range samples {
		doc.Rows[i] = []float64{s.T, s.State[0], s.State[1], s.State[2], s.State[3], s.Fourth(), s.Forcing}
	}
	if len(samples) > 1 {
		doc.Step = samples[1].T - samples[0].T
	}
	return doc
}

func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
