package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/sim"
)

const (
	Separator        = ';'
	DefaultPrecision = 6
)

// Header is the first line of every results table.
var Header = append([]string{"t"}, sim.ColumnNames...)

var ErrBadTable = errors.New("export: malformed results table")

// CSVWriter streams samples as semicolon separated rows in fixed-point
// notation. The header goes out with the first sample.
type CSVWriter struct {
	w         *csv.Writer
	precision int
	started   bool
	row       []string
}

func NewCSVWriter(w io.Writer, precision int) *CSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	return &CSVWriter{
		w:         cw,
		precision: precision,
		row:       make([]string, len(Header)),
	}
}

func (c *CSVWriter) format(v float64) string {
	return strconv.FormatFloat(v, 'f', c.precision, 64)
}

func (c *CSVWriter) WriteHeader() error {
	if c.started {
		return nil
	}
	c.started = true
	return c.w.Write(Header)
}

func (c *CSVWriter) WriteSample(s dynamo.Sample) error {
	if err := c.WriteHeader(); err != nil {
		return err
	}
	c.row[0] = c.format(s.T)
	for i, v := range s.State {
		c.row[i+1] = c.format(v)
	}
	c.row[5] = c.format(s.Fourth())
	c.row[6] = c.format(s.Forcing)
	return c.w.Write(c.row)
}

// Flush writes buffered rows and reports any write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func WriteCSV(w io.Writer, samples []dynamo.Sample, precision int) error {
	cw := NewCSVWriter(w, precision)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.WriteSample(s); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// ReadCSV parses a results table. The first three derivative slots are
// restored from the state columns, the fourth from x_dddd.
func ReadCSV(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty", ErrBadTable)
		}
		return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
	}
	for i, name := range head {
		if strings.TrimSpace(name) != Header[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadTable, i, name, Header[i])
		}
	}

	var out []dynamo.Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
		}

		var vals [7]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %w", ErrBadTable, line, Header[i], err)
			}
			vals[i] = v
		}

		st := dynamo.State{vals[1], vals[2], vals[3], vals[4]}
		out = append(out, dynamo.Sample{
			T:          vals[0],
			State:      st,
			Derivative: dynamo.State{st[1], st[2], st[3], vals[5]},
			Forcing:    vals[6],
		})
	}
	return out, nil
}
