package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
)

var (
	listHour      int
	listCondition string
	listAll       bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the songs for an hour",
	Long: `List the songs that would play for an hour, in playback order.

Examples:
  chromie list                       # Songs for the current hour
  chromie list --hour 9              # Songs for 9 AM
  chromie list --hour 9 --condition sunny
  chromie list --all                 # Song counts for every hour`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listHour, "hour", "H", -1, "hour to list (0-23, default: current hour)")
	listCmd.Flags().StringVar(&listCondition, "condition", "", "include tracks for a weather condition")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show song counts for every hour")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}

	condition, err := core.ParseCondition(listCondition)
	if err != nil {
		return chromieerrors.WithSuggestion(err, "Use one of: sunny, rainy, cloudy, snowy, foggy")
	}

	if listAll {
		return listCounts(func(h core.Hour) core.Counts { return cat.CountsFor(h, condition) })
	}

	hour := core.HourOf(time.Now())
	if listHour != -1 {
		hour = core.Hour(listHour)
		if !hour.Valid() {
			return fmt.Errorf("%w: got %d", chromieerrors.ErrInvalidHour, listHour)
		}
	}

	d := newDisplay()
	d.ShowList(hour, condition, cat.SongsFor(hour, condition))
	if !cat.Exists(hour) && !JSONOutput() {
		d.ShowInfo(fmt.Sprintf("No folder for hour %s. Run 'chromie init' to create it", hour))
	}
	return nil
}

func listCounts(countsFor func(core.Hour) core.Counts) error {
	type hourCounts struct {
		Hour    string `json:"hour"`
		Base    int    `json:"base"`
		Weather int    `json:"weather"`
		Total   int    `json:"total"`
	}

	rows := make([]hourCounts, 0, core.HoursPerDay)
	for h := core.Hour(0); h < core.HoursPerDay; h++ {
		c := countsFor(h)
		rows = append(rows, hourCounts{h.String(), c.Base, c.Weather, c.Total})
	}

	if JSONOutput() {
		return printJSON(rows)
	}

	table := NewTable("HOUR", "RANGE", "SONGS", "WEATHER", "TOTAL")
	for i, r := range rows {
		table.Row(r.Hour, core.Hour(i).Label(), strconv.Itoa(r.Base), strconv.Itoa(r.Weather), strconv.Itoa(r.Total))
	}
	table.Flush()
	return nil
}
