package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curiolabs/curio/internal/adapters/driven/storage/dirfs"
	"github.com/curiolabs/curio/internal/adapters/driven/tabular"
	"github.com/curiolabs/curio/internal/core/domain"
	"github.com/curiolabs/curio/internal/core/services"
)

var (
	flagExportOutput  string
	flagExportOnlyYes bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file.jsonl>",
	Short: "Export an annotated record set as a cleaned CSV",
	Long: `Export an annotated .jsonl file as a cleaned CSV.

The annotation sub-objects and telemetry fields are stripped; only the
annotatable data fields survive. With --only-yes, a record keeps its
row only when every annotatable field was marked correct.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "output file (default <input>_cleaned.csv)")
	exportCmd.Flags().BoolVar(&flagExportOnlyYes, "only-yes", false, "keep only records with every field marked correct")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	source := args[0]
	directory := filepath.Dir(source)
	name := filepath.Base(source)

	gateway, err := dirfs.New(directory)
	if err != nil {
		return fmt.Errorf("opening directory: %w", err)
	}

	h, err := gateway.CreateOrOpen(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	raw, err := gateway.Read(cmd.Context(), h)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	cfg := curationConfig(directory)
	codec := services.NewCodec(cfg.AnnotationKey, cfg.TelemetryFields)
	doc, overlay, _ := codec.Load(raw)

	table := cleanedTable(codec, doc, overlay, flagExportOnlyYes)
	text, err := tabular.NewCSVCodec().Encode(table)
	if err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}

	outName := flagExportOutput
	if outName == "" {
		ext := filepath.Ext(name)
		outName = strings.TrimSuffix(name, ext) + "_cleaned.csv"
	}
	out, err := gateway.CreateOrOpen(cmd.Context(), outName)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	if err := gateway.Write(cmd.Context(), out, text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	cmd.Printf("Exported %d of %d records to %s\n", table.RowCount(), doc.Len(), filepath.Join(directory, outName))
	return nil
}

// cleanedTable flattens the document into a table of its annotatable
// fields. Headers follow first-seen key order.
func cleanedTable(codec *services.Codec, doc *domain.Document, overlay domain.AnnotationOverlay, onlyYes bool) *domain.Table {
	var headers []string
	seen := make(map[string]struct{})
	for _, rec := range doc.Records {
		for _, k := range rec.Keys() {
			if !codec.Annotatable(k) {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
	}

	var rows []domain.Row
	for i, rec := range doc.Records {
		if onlyYes && !allReviewedYes(overlay, i) {
			continue
		}
		row := make(domain.Row, len(headers))
		for _, k := range headers {
			if raw, ok := rec.Get(k); ok {
				row[k] = cellText(raw)
			} else {
				row[k] = ""
			}
		}
		rows = append(rows, row)
	}

	return domain.NewTable(headers, rows)
}

// allReviewedYes reports whether every annotated field of the record
// carries a yes verdict. Unreviewed fields count as not-yes, so a
// record with no annotations at all fails.
func allReviewedYes(overlay domain.AnnotationOverlay, recordIndex int) bool {
	fields := overlay.Fields(recordIndex)
	if len(fields) == 0 {
		return false
	}
	for _, ann := range fields {
		if ann.Correctness != domain.CorrectnessYes {
			return false
		}
	}
	return true
}

// cellText renders a decoded JSON value as a CSV cell.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
