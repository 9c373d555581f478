package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/browser"
	"github.com/tessro/chromie/internal/catalog"
)

var initWeather bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the hour folders",
	Long: `Create the music directory with one folder per hour (00-23).

With --weather, each hour also gets sunny, rainy, cloudy, snowy and foggy
subfolders. Existing folders are left alone.`,
	RunE: runInit,
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the music directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if JSONOutput() {
			_ = printJSON(map[string]string{"dir": cfg.Music.Dir})
			return
		}
		fmt.Println(cfg.Music.Dir)
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the music directory in the file manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := prepareCatalog(false)
		if !JSONOutput() {
			fmt.Printf("Opening: %s\n", cat.Dir())
		}
		return browser.Open(cat.Dir())
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initWeather, "weather", "w", false, "also create weather subfolders")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(openCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cat := catalog.New(cfg.Music.Dir)
	result := cat.InitDirectories(initWeather)

	if JSONOutput() {
		created := result.Data
		if created == nil {
			created = []string{}
		}
		out := map[string]interface{}{
			"dir":     cat.Dir(),
			"created": created,
		}
		if result.HasErrors() {
			out["errors"] = result.ErrorSummary()
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		newDisplay().ShowInitComplete(cat.Dir(), len(result.Data), initWeather)
	}

	if result.HasErrors() {
		return fmt.Errorf("failed to create some folders: %w", result.Err())
	}
	return nil
}
