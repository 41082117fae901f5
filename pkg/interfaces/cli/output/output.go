// Package output renders command results as text tables, JSON or CSV.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/sortfields"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	// Sorts are marked in text headers with an arrow and priority
	Sorts []sorting.Criterion
}

// ValidateFormat rejects unsupported output formats
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

var blendColumns = []string{"lot_code", "product", "tank", "quantity", "status", "updated_at"}

// Blends writes a blend listing
func Blends(w io.Writer, blends []*entities.Blend, cfg Config) error {
	rows := make([][]string, len(blends))
	for i, b := range blends {
		rows[i] = []string{
			string(b.LotCode),
			string(b.ProductCode),
			string(b.TankCode),
			b.Quantity.String(),
			string(b.Status),
			b.UpdatedAt.Format("2006-01-02 15:04"),
		}
	}

	switch cfg.Format {
	case FormatJSON:
		return writeJSON(w, blends)
	case FormatCSV:
		return writeCSV(w, blendColumns, rows)
	case FormatText, "":
		headers := make([]string, len(blendColumns))
		for i, key := range blendColumns {
			headers[i] = header(key, cfg.Sorts)
		}
		return writeTable(w, headers, rows)
	default:
		return ValidateFormat(cfg.Format)
	}
}

// History writes the status changes of one blend
func History(w io.Writer, changes []entities.BlendStatusChange, cfg Config) error {
	columns := []string{"at", "from", "to"}
	rows := make([][]string, len(changes))
	for i, c := range changes {
		rows[i] = []string{c.At.Format("2006-01-02 15:04:05"), string(c.From), string(c.To)}
	}

	switch cfg.Format {
	case FormatJSON:
		return writeJSON(w, changes)
	case FormatCSV:
		return writeCSV(w, columns, rows)
	case FormatText, "":
		return writeTable(w, []string{"At", "From", "To"}, rows)
	default:
		return ValidateFormat(cfg.Format)
	}
}

// Statuses writes each status with the statuses it can move to
func Statuses(w io.Writer, statuses []entities.BlendStatus, next func(entities.BlendStatus) []entities.BlendStatus) error {
	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		targets := next(s)
		names := make([]string, len(targets))
		for j, t := range targets {
			names[j] = string(t)
		}
		active := ""
		if s.IsActive() {
			active = "yes"
		}
		rows[i] = []string{string(s), active, strings.Join(names, ", ")}
	}
	return writeTable(w, []string{"Status", "Active", "Next"}, rows)
}

// header returns the label for key, marked when the listing is sorted by it
func header(key string, sorts []sorting.Criterion) string {
	label := key
	if field, ok := sortfields.Blends.Lookup(sortKey(key)); ok {
		label = field.Label
	}
	for i, c := range sorts {
		if c.Field != sortKey(key) {
			continue
		}
		arrow := "↑"
		if c.Direction == sorting.Desc {
			arrow = "↓"
		}
		if len(sorts) > 1 {
			return fmt.Sprintf("%s %s%d", label, arrow, i+1)
		}
		return label + " " + arrow
	}
	return label
}

// sortKey maps display columns to blend sort keys
func sortKey(column string) string {
	switch column {
	case "product":
		return "product_code"
	case "tank":
		return "tank_code"
	default:
		return column
	}
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
