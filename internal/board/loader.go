package board

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadComponents merges a placement file (RefDes, Orient., X, Y) and a
// size file (RefDes, L, W, plus optional thickness/description columns)
// into the component list. Positions are component centers in board
// millimeters. Placement rows without a matching size row are skipped,
// mirroring how incomplete layout exports are handled upstream.
func LoadComponents(placementPath, sizePath string) ([]Component, error) {
	placements, err := readCSVTable(placementPath)
	if err != nil {
		return nil, fmt.Errorf("placement file: %w", err)
	}
	sizes, err := readCSVTable(sizePath)
	if err != nil {
		return nil, fmt.Errorf("size file: %w", err)
	}

	pRef, err := placements.column("RefDes")
	if err != nil {
		return nil, fmt.Errorf("placement file: %w", err)
	}
	pOrient, err := placements.column("Orient.")
	if err != nil {
		return nil, fmt.Errorf("placement file: %w", err)
	}
	pX, err := placements.column("X")
	if err != nil {
		return nil, fmt.Errorf("placement file: %w", err)
	}
	pY, err := placements.column("Y")
	if err != nil {
		return nil, fmt.Errorf("placement file: %w", err)
	}

	sRef, err := sizes.column("RefDes")
	if err != nil {
		return nil, fmt.Errorf("size file: %w", err)
	}
	sL, err := sizes.column("L")
	if err != nil {
		return nil, fmt.Errorf("size file: %w", err)
	}
	sW, err := sizes.column("W")
	if err != nil {
		return nil, fmt.Errorf("size file: %w", err)
	}
	sDesc := sizes.extraColumn("RefDes", "L", "W", "T")

	type sizeRow struct {
		length, width float64
		description   string
	}
	sizeByRef := make(map[string]sizeRow, len(sizes.rows))
	for _, row := range sizes.rows {
		l, errL := parseFloat(row[sL])
		w, errW := parseFloat(row[sW])
		if errL != nil || errW != nil {
			continue
		}
		desc := ""
		if sDesc >= 0 {
			desc = strings.TrimSpace(row[sDesc])
		}
		sizeByRef[strings.TrimSpace(row[sRef])] = sizeRow{length: l, width: w, description: desc}
	}

	var components []Component
	for _, row := range placements.rows {
		refdes := strings.TrimSpace(row[pRef])
		size, ok := sizeByRef[refdes]
		if !ok {
			continue
		}
		x, errX := parseFloat(row[pX])
		y, errY := parseFloat(row[pY])
		rot, errR := parseFloat(row[pOrient])
		if errX != nil || errY != nil || errR != nil {
			continue
		}
		components = append(components, Component{
			RefDes:      refdes,
			CenterXMM:   x,
			CenterYMM:   y,
			LengthMM:    size.length,
			WidthMM:     size.width,
			RotationDeg: rot,
			Description: size.description,
		})
	}

	if len(components) == 0 {
		return nil, fmt.Errorf("no components matched between %s and %s", placementPath, sizePath)
	}
	return components, nil
}

type csvTable struct {
	header []string
	rows   [][]string
}

func readCSVTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return &csvTable{header: header, rows: records[1:]}, nil
}

func (t *csvTable) column(name string) (int, error) {
	for i, h := range t.header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("missing required column %q", name)
}

// extraColumn returns the index of the first column whose header is not
// in the known set, or -1. Layout exports carry the part description in
// a locale-dependent column name, so it is located by elimination.
func (t *csvTable) extraColumn(known ...string) int {
	for i, h := range t.header {
		isKnown := false
		for _, k := range known {
			if strings.EqualFold(h, k) {
				isKnown = true
				break
			}
		}
		if !isKnown {
			return i
		}
	}
	return -1
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
