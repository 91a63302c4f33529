package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ignite/cutsheet/internal/cutsheet"
)

// CSV writes the main table and, when present, a blank row followed by the
// bundle table.
func CSV(res *cutsheet.Result, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	zeros := opts.zeros()

	if opts.OrderRangeRow && res.OrderRange != nil {
		if err := w.Write([]string{res.OrderRangeLabel()}); err != nil {
			return nil, fmt.Errorf("write order range: %w", err)
		}
	}

	for i, rep := range res.Reports() {
		if i > 0 {
			if err := w.Write([]string{}); err != nil {
				return nil, err
			}
		}
		if err := w.Write(rep.Columns()); err != nil {
			return nil, fmt.Errorf("write %s header: %w", rep.Name, err)
		}
		for _, row := range rep.Rows {
			if err := w.Write(rep.Cells(row, zeros)); err != nil {
				return nil, fmt.Errorf("write %s row: %w", rep.Name, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
