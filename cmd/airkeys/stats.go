package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF87"))
)

const (
	maxBarWidth         = 30
	terminalWidthBackup = 80
	// statsTableWidth is the width of the table without the bar column.
	statsTableWidth = 56
)

type statsOptions struct {
	top      int
	sessions int
	// plain prints tab-separated rows without styling.
	plain    bool
	barWidth int
}

func newStatsCmd() *cobra.Command {
	var dbPath string
	var opts statsOptions
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-key usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open db: %w", err)
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			out := cmd.OutOrStdout()
			opts.plain = !isTerminal(out)
			opts.barWidth = barWidth(terminalWidth())
			return printStats(out, st, opts, time.Now())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "statistics database path")
	cmd.Flags().IntVar(&opts.top, "top", 0, "show only the N most pressed keys (0 = all)")
	cmd.Flags().IntVar(&opts.sessions, "sessions", 5, "number of recent sessions to list")
	return cmd
}

func printStats(w io.Writer, st *store.Store, opts statsOptions, now time.Time) error {
	stats, err := st.KeyStats().List()
	if err != nil {
		return fmt.Errorf("failed to load key stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(w, "No key presses recorded yet.")
		return nil
	}

	total := 0
	for _, s := range stats {
		total += s.Count
	}
	if opts.top > 0 && opts.top < len(stats) {
		stats = stats[:opts.top]
	}
	highest := stats[0].Count

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		row := []string{
			displayLabel(s.Label),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f%%", 100*float64(s.Count)/float64(total)),
			s.LastPressed.Local().Format("2006-01-02 15:04"),
		}
		if !opts.plain && opts.barWidth > 0 {
			row = append(row, barStyle.Render(bar(s.Count, highest, opts.barWidth)))
		}
		rows = append(rows, row)
	}
	headers := []string{"Key", "Presses", "Share", "Last pressed"}
	if !opts.plain && opts.barWidth > 0 {
		headers = append(headers, "")
	}
	writeSection(w, fmt.Sprintf("Keys (%d presses)", total), headers, rows, opts.plain)

	if opts.sessions <= 0 {
		return nil
	}
	recent, err := st.Sessions().Recent(opts.sessions)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	rows = rows[:0]
	for _, sess := range recent {
		rows = append(rows, []string{
			sess.StartedAt.Local().Format("2006-01-02 15:04"),
			sess.Duration(now).Round(time.Second).String(),
			fmt.Sprintf("%d", sess.Keys),
		})
	}
	writeSection(w, "Recent sessions", []string{"Started", "Duration", "Keys"}, rows, opts.plain)
	return nil
}

func writeSection(w io.Writer, title string, headers []string, rows [][]string, plain bool) {
	if plain {
		fmt.Fprintf(w, "# %s\n", title)
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, newTable(headers, rows))
}

// bar draws count relative to highest in at most width cells.
func bar(count, highest, width int) string {
	if highest <= 0 || width <= 0 {
		return ""
	}
	cells := count * width / highest
	if cells == 0 && count > 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}

func barWidth(termWidth int) int {
	w := termWidth - statsTableWidth
	if w > maxBarWidth {
		w = maxBarWidth
	}
	if w < 0 {
		return 0
	}
	return w
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// displayLabel names whitespace and functional keys and quotes labels that
// would render invisibly.
func displayLabel(label string) string {
	switch label {
	case " ":
		return "<space>"
	case "<-":
		return "<backspace>"
	}
	if runewidth.StringWidth(label) == 0 {
		return fmt.Sprintf("%q", label)
	}
	return label
}
