package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// weekdayOrder is the row order of the weekday table.
var weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// PrintWalkResult outputs the console summary, dispatching based on the output format configured.
func PrintWalkResult(result *schema.WalkResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.NoneOut:
		return nil
	case schema.JSONOut:
		if err := writeJSON(os.Stdout, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVComponents(os.Stdout, result.Stats); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printWalkTables(os.Stdout, result, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeCSVComponents writes one row per component, busiest first.
func writeCSVComponents(w io.Writer, stats schema.Stats) error {
	header := []string{"component", "commits", "files_added", "files_deleted", "files_modified"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rc := range rankCounts(stats.ComponentStats, 0) {
			changes := stats.ChangesByComponent[rc.Key]
			row := []string{
				rc.Key,
				strconv.Itoa(rc.Count),
				strconv.Itoa(changes.FilesAdded),
				strconv.Itoa(changes.FilesDeleted),
				strconv.Itoa(changes.FilesModified),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// printWalkTables prints the human-readable summary using the tablewriter API.
func printWalkTables(w io.Writer, result *schema.WalkResult, cfg *contract.Config, duration time.Duration) error {
	stats := result.Stats
	nameWidth := GetMaxTableNameWidth(cfg)
	title := fmt.Sprint
	if cfg.UseColors {
		title = contract.HeaderColor.SprintFunc()
	}

	// Components
	var componentRows [][]string
	for i, rc := range rankCounts(stats.ComponentStats, cfg.ResultLimit) {
		changes := stats.ChangesByComponent[rc.Key]
		componentRows = append(componentRows, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(rc.Key, nameWidth),
			strconv.Itoa(rc.Count),
			strconv.Itoa(changes.FilesAdded),
			strconv.Itoa(changes.FilesDeleted),
			strconv.Itoa(changes.FilesModified),
		})
	}
	if err := renderTable(w, title("Components"), []string{"Rank", "Component", "Commits", "Added", "Deleted", "Modified"}, componentRows); err != nil {
		return err
	}

	// Languages
	var languageRows [][]string
	for i, rc := range rankCounts(stats.LangStats, cfg.ResultLimit) {
		languageRows = append(languageRows, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(rc.Key, nameWidth),
			strconv.Itoa(rc.Count),
			fmt.Sprintf("%.1f%%", percentOf(rc.Count, stats.NumCommitsToMaster)),
		})
	}
	if err := renderTable(w, title("Languages"), []string{"Rank", "Language", "Commits", "Share"}, languageRows); err != nil {
		return err
	}

	// Weekdays
	var weekdayRows [][]string
	for _, day := range weekdayOrder {
		count := stats.CommitsByDayOfWeek[day]
		weekdayRows = append(weekdayRows, []string{
			day,
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", percentOf(count, stats.NumCommitsToMaster)),
		})
	}
	if err := renderTable(w, title("Weekdays"), []string{"Day", "Commits", "Share"}, weekdayRows); err != nil {
		return err
	}

	// Months
	monthHeaders := []string{"Year"}
	for m := time.January; m <= time.December; m++ {
		monthHeaders = append(monthHeaders, m.String()[:3])
	}
	monthHeaders = append(monthHeaders, "Total")
	var monthRows [][]string
	for _, year := range sortedKeys(stats.CommitsByMonth) {
		months := stats.CommitsByMonth[year]
		row := []string{year}
		total := 0
		for _, n := range months {
			row = append(row, strconv.Itoa(n))
			total += n
		}
		monthRows = append(monthRows, append(row, strconv.Itoa(total)))
	}
	if err := renderTable(w, title("Months"), monthHeaders, monthRows); err != nil {
		return err
	}

	printFooter(w, result, cfg, duration)
	return nil
}

// renderTable writes a titled table with right-aligned cells.
func renderTable(w io.Writer, title string, headers []string, rows [][]string) error {
	_, _ = fmt.Fprintln(w, title)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(none)")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// printFooter prints the headline counters and the phase timings.
func printFooter(w io.Writer, result *schema.WalkResult, cfg *contract.Config, duration time.Duration) {
	stats := result.Stats
	coverage := percentOf(stats.NumPRs, stats.NumCommitsToMaster)
	label := contract.GetPlainCoverageLabel(coverage)
	if cfg.UseColors {
		label = contract.GetColorCoverageLabel(coverage)
	}

	_, _ = fmt.Fprintf(w, "Commits: %s | PRs: %s (%.1f%%, %s coverage) | Missing PRs: %s | Distinct PR numbers: %s | File changes: %s\n",
		humanize.Comma(int64(stats.NumCommitsToMaster)),
		humanize.Comma(int64(stats.NumPRs)),
		coverage,
		label,
		humanize.Comma(int64(stats.MissingPRs)),
		humanize.Comma(int64(result.DistinctPRNumbers)),
		humanize.Comma(int64(stats.NumFileChanges)))

	source := "walked"
	if result.FromCache {
		source = "served from cache"
	}
	_, _ = fmt.Fprintf(w, "Revwalk time: %v | Reduce time: %v (%s)\n", result.RevWalkDuration, result.ReduceDuration, source)
	_, _ = fmt.Fprintf(w, "Walk completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	_, _ = fmt.Fprintf(w, "Report written to %s\n", reportPath(cfg.OutputFile))
}
