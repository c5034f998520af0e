// package formatter provides functions to export generation results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/encore/internal/models"
	"github.com/desertthunder/encore/internal/shared"
)

// ExportToCSV converts a GenerationResult to CSV format with one row per resolved track.
//
// Columns: Artist, Title, Catalog ID, URI, URL, Match, Confidence, Source
func ExportToCSV(result *models.GenerationResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Title", "Catalog ID", "URI", "URL", "Match", "Confidence", "Source"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range result.Groups {
		for _, track := range group.Tracks {
			record := []string{
				track.Artist,
				track.Title,
				track.CatalogID,
				track.URI,
				track.URL,
				string(track.MatchMode),
				strconv.FormatFloat(track.Confidence, 'f', 2, 64),
				string(track.Source),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a GenerationResult to Markdown format with
// per-artist sections, setlist provenance, and a missing-tracks appendix.
func ExportToMarkdown(result *models.GenerationResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Live Repertoire: %s\n\n", strings.Join(result.Artists, ", ")))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n", result.CreatedAt.Format("2006-01-02 15:04")))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", result.Status))
	buf.WriteString(fmt.Sprintf("**Matched**: %d of %d songs\n\n",
		result.Stats.Matched, result.Stats.Matched+result.Stats.Missing))

	for _, group := range result.Groups {
		buf.WriteString(fmt.Sprintf("## %s\n\n", group.Artist.Name))

		if group.FromPopular {
			buf.WriteString("No recent setlists found; tracks below are the artist's popular catalog.\n\n")
		} else if len(group.Sources) > 0 {
			buf.WriteString(fmt.Sprintf("Drawn from %d recent %s:\n\n", len(group.Sources), plural("setlist", len(group.Sources))))
			for _, source := range group.Sources {
				buf.WriteString(fmt.Sprintf("- %s, %s (%d songs)\n", source.EventDate, source.Venue, source.SongCount))
			}
			buf.WriteString("\n")
		}

		for i, track := range group.Tracks {
			durationPart := ""
			if track.DurationMS > 0 {
				durationPart = fmt.Sprintf(" [%s]", shared.FormatDuration(track.DurationMS))
			}
			matchPart := ""
			if track.MatchMode == models.MatchFallback && track.Source == models.SourceSetlist {
				matchPart = fmt.Sprintf(" (fallback, %.2f)", track.Confidence)
			}
			buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s%s\n", i+1, track.Title, track.URL, durationPart, matchPart))
		}
		buf.WriteString("\n")
	}

	if len(result.Missing) > 0 {
		buf.WriteString("## Not Found\n\n")
		for _, missing := range result.Missing {
			buf.WriteString(fmt.Sprintf("- %s - %s\n", missing.Artist, missing.Title))
		}
		buf.WriteString("\n")
	}

	if len(result.MissingSetlists) > 0 {
		buf.WriteString("## Artists Without Results\n\n")
		for _, name := range result.MissingSetlists {
			buf.WriteString(fmt.Sprintf("- %s\n", name))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a GenerationResult to plain text format
func ExportToText(result *models.GenerationResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Artists: %s\n", strings.Join(result.Artists, ", ")))
	buf.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	buf.WriteString(fmt.Sprintf("Matched: %d  Missing: %d\n\n", result.Stats.Matched, result.Stats.Missing))

	for _, group := range result.Groups {
		buf.WriteString(fmt.Sprintf("%s (%d tracks)\n", group.Artist.Name, len(group.Tracks)))
		for i, track := range group.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
		}
		buf.WriteString("\n")
	}

	if len(result.Missing) > 0 {
		buf.WriteString("Not found:\n")
		for _, missing := range result.Missing {
			buf.WriteString(fmt.Sprintf("- %s - %s\n", missing.Artist, missing.Title))
		}
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a result to CSV with an accompanying run JSON file.
//
// Defaults to the run ID as the base filename & creates {base}_tracks.csv and {base}_run.json
func WriteCSVExport(result *models.GenerationResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = result.ID
	}

	csvData, err := ExportToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	runJSON, err := shared.MarshalJSON(result, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate run JSON: %w", err)
	}

	metadataFile := baseFilepath + "_run.json"
	if err := os.WriteFile(metadataFile, runJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write run file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a result to Markdown in a dedicated directory.
//
// Directory name defaults to the run ID. Creates {dir}/README.md.
func WriteMarkdownExport(result *models.GenerationResult, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = result.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a result to plain text format.
//
// Defaults to {run ID}_tracks.txt as the filename.
func WriteTextExport(result *models.GenerationResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", result.ID)
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
