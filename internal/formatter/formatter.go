// package formatter renders build results as terminal tables and exports them as CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/seedify/internal/models"
)

const timeLayout = "2006-01-02 15:04"

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func releaseYear(c models.Candidate) string {
	if c.ReleaseYear == nil {
		return ""
	}
	return strconv.Itoa(*c.ReleaseYear)
}

// RenderTracks renders accepted tracks as a numbered table.
func RenderTracks(tracks []models.Candidate) string {
	rows := make([][]string, len(tracks))
	for i, t := range tracks {
		rows[i] = []string{strconv.Itoa(i + 1), t.Name, strings.Join(t.ArtistNames, ", "), releaseYear(t), t.ID}
	}
	return renderTable(
		[]string{"#", "Track", "Artists", "Year", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

// RenderDescriptors renders extracted descriptors as a numbered table.
func RenderDescriptors(ds []models.Descriptor) string {
	rows := make([][]string, len(ds))
	for i, d := range ds {
		rows[i] = []string{strconv.Itoa(i + 1), d.Artist, d.Title}
	}
	return renderTable([]string{"#", "Artist", "Title"}, rows, []columnAlignment{alignRight})
}

// RenderResolutions renders descriptors that produced no seed with the reason.
func RenderResolutions(resolutions []models.SeedResolution) string {
	var rows [][]string
	for _, r := range resolutions {
		if r.Resolved() {
			continue
		}
		reason := "not found"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		rows = append(rows, []string{r.Descriptor.Artist, r.Descriptor.Title, reason})
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable([]string{"Artist", "Title", "Reason"}, rows, nil)
}

// RenderRuns renders build history, one row per run.
func RenderRuns(runs []*models.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		playlist := r.PlaylistName
		if r.DryRun {
			playlist = "(dry run)"
		}
		rows[i] = []string{
			strconv.Itoa(r.Sequence),
			r.CreatedAt.Local().Format(timeLayout),
			r.SourcePath,
			strconv.Itoa(r.SeedCount) + "/" + strconv.Itoa(r.DescriptorCount),
			strconv.Itoa(r.TrackCount),
			playlist,
		}
	}
	return renderTable(
		[]string{"#", "Created", "Source", "Seeds", "Tracks", "Playlist"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

// ExportToCSV converts tracks to CSV with columns: Position, ID, Name, Artists, ReleaseYear
func ExportToCSV(tracks []models.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "ID", "Name", "Artists", "ReleaseYear"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, t := range tracks {
		record := []string{strconv.Itoa(i + 1), t.ID, t.Name, strings.Join(t.ArtistNames, "; "), releaseYear(t)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSVExport writes tracks as CSV to path.
func WriteCSVExport(tracks []models.Candidate, path string) error {
	data, err := ExportToCSV(tracks)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// ToJSON marshals v as indented JSON with a trailing newline.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes tracks to path as JSON when it ends in ".json" and as CSV otherwise.
func WriteExport(tracks []models.Candidate, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return WriteCSVExport(tracks, path)
	}

	data, err := ToJSON(tracks)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
