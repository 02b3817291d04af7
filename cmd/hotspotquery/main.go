// Command hotspotquery resolves per-component thermal hotspots from a
// temperature matrix export, a saved alignment session, and the layout
// placement and size files.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"pcb-thermal/internal/board"
	"pcb-thermal/internal/hotspot"
	"pcb-thermal/internal/session"
	"pcb-thermal/internal/thermal"
)

func main() {
	temps := flag.String("temps", "", "Path to the temperature matrix CSV export")
	sessionPath := flag.String("session", "", "Path to the saved alignment session JSON")
	placement := flag.String("placement", "", "Path to the component placement CSV")
	sizes := flag.String("sizes", "", "Path to the component size CSV")

	boardW := flag.Float64("board-width", 0, "Board width in mm")
	boardH := flag.Float64("board-height", 0, "Board height in mm")
	origin := flag.String("origin", "bottom-left", "Origin corner: top-left, top-right, bottom-left, bottom-right")
	offsetX := flag.Float64("origin-offset-x", 0, "Origin X offset in mm")
	offsetY := flag.Float64("origin-offset-y", 0, "Origin Y offset in mm")

	padLeft := flag.Float64("pad-left", 0, "Layout image padding left of the board area, px")
	padTop := flag.Float64("pad-top", 0, "Layout image padding above the board area, px")
	padRight := flag.Float64("pad-right", 0, "Layout image padding right of the board area, px")
	padBottom := flag.Float64("pad-bottom", 0, "Layout image padding below the board area, px")

	tmin := flag.Float64("tmin", 40, "Lower bound of the temperature window")
	tmax := flag.Float64("tmax", 150, "Upper bound of the temperature window")
	dedup := flag.Bool("dedup", false, "Suppress overlapping hotspots, attributing each to the hottest component")
	flag.Parse()

	if *temps == "" || *sessionPath == "" || *placement == "" || *sizes == "" {
		fmt.Println("Usage: hotspotquery -temps <csv> -session <json> -placement <csv> -sizes <csv> -board-width <mm> -board-height <mm> [options]")
		os.Exit(1)
	}

	matrix, err := thermal.LoadCSV(*temps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load temperature matrix: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Temperature matrix: %dx%d samples\n", matrix.Width(), matrix.Height())

	corr, err := session.Load(*sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load session: %v\n", err)
		os.Exit(1)
	}

	// The session may have been recorded against a differently sized
	// thermal export; rescale its thermal side onto the matrix grid.
	corr, err = corr.ScaledTo(matrix.Width(), matrix.Height(), corr.LayoutWidth, corr.LayoutHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to rescale session: %v\n", err)
		os.Exit(1)
	}

	transform, err := corr.EstimateTransform()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transform estimation failed: %v\n", err)
		os.Exit(1)
	}
	kind := "affine"
	if transform.IsProjective() {
		kind = "projective"
	}
	fmt.Printf("Transform: %s from %d point pairs, avg reprojection error %.2f px\n",
		kind, len(corr.ThermalPoints),
		transform.ReprojectionError(corr.ThermalPoints, corr.LayoutPoints))

	components, err := board.LoadComponents(*placement, *sizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load components: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Components: %d loaded\n", len(components))

	originCorner, err := board.ParseOriginCorner(*origin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	resolver := &hotspot.Resolver{
		Components: components,
		Matrix:     matrix,
		Transform:  transform,
		Geometry: board.Geometry{
			BoardWidthMM:    *boardW,
			BoardHeightMM:   *boardH,
			Origin:          originCorner,
			OriginOffsetXMM: *offsetX,
			OriginOffsetYMM: *offsetY,
			PaddingLeft:     *padLeft,
			PaddingTop:      *padTop,
			PaddingRight:    *padRight,
			PaddingBottom:   *padBottom,
			LayoutWidth:     float64(corr.LayoutWidth),
			LayoutHeight:    float64(corr.LayoutHeight),
		},
		MinTemp: *tmin,
		MaxTemp: *tmax,
	}

	var thermalRecs, layoutRecs []hotspot.Record
	if *dedup {
		thermalRecs, layoutRecs, err = resolver.ResolveDeduped()
	} else {
		thermalRecs, layoutRecs, err = resolver.Resolve()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hotspot resolution failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d hotspots in window [%.1f, %.1f]:\n\n", len(thermalRecs), *tmin, *tmax)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RefDes\tTemp\tThermal px\tLayout px\tDescription")
	for i, rec := range thermalRecs {
		lay := layoutRecs[i]
		fmt.Fprintf(w, "%s\t%.1f\t(%d,%d)\t(%d,%d)\t%s\n",
			rec.RefDes, rec.MaxTemp, rec.CX, rec.CY, lay.CX, lay.CY, rec.Description)
	}
	w.Flush()
}
