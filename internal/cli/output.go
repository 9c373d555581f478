package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tessro/chromie/internal/display"
)

// newFormatter builds the event formatter from the display config.
func newFormatter() *display.Formatter {
	return display.NewFormatter(
		display.WithEmoji(cfg.Display.Emoji),
		display.WithTimestamp(cfg.Display.Timestamp),
		display.WithTemplate(cfg.Display.Format),
	)
}

// newDisplay returns a display on stdout honouring --json.
func newDisplay() *display.Display {
	return display.New(os.Stdout,
		display.WithFormatter(newFormatter()),
		display.WithJSON(JSONOutput()),
	)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}
