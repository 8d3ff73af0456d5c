// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvsketch/matrix"
)

var errEmptyMatrix = errors.New("empty matrix")

// readCSV parses a dense matrix, one row per record. Blank lines and lines
// starting with '#' are skipped; every row must have the same width.
func readCSV(r io.Reader) (*matrix.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, errEmptyMatrix
	}

	rows, cols := len(records), len(records[0])
	vals := make([]float64, 0, rows*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, perr := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if perr != nil {
				return nil, fmt.Errorf("read csv: row %d col %d: %w", i+1, j+1, perr)
			}
			vals = append(vals, v)
		}
	}

	return matrix.NewDenseFrom(rows, cols, vals)
}

// writeCSV writes m one row per record with the shortest exact formatting.
func writeCSV(w io.Writer, m *matrix.Dense) error {
	cw := csv.NewWriter(w)
	rec := make([]string, m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j, v := range m.Row(i) {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
