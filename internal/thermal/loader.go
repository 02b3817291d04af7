package thermal

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadCSV reads a temperature matrix from a headerless CSV export.
// Thermal camera software writes these in several flavors, so the
// loader sniffs the byte-order mark (UTF-8, UTF-16 LE/BE) and whether
// the file is tab- or comma-separated before parsing.
func LoadCSV(path string) (*Matrix, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return nil, fmt.Errorf("unsupported temperature file type %q: export to .csv", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// The BOM, when present, overrides the assumed UTF-8 encoding.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	sep := ','
	if i := bytes.IndexByte(decoded, '\n'); i >= 0 {
		if bytes.ContainsRune(decoded[:i], '\t') {
			sep = '\t'
		}
	} else if bytes.ContainsRune(decoded, '\t') {
		sep = '\t'
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sep
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var samples [][]float64
	for i, record := range records {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: %w", path, i+1, j+1, err)
			}
			row[j] = v
		}
		samples = append(samples, row)
	}

	m, err := NewMatrix(samples)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
