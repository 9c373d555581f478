package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/audio"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Player    string `json:"player"`
	Config    string `json:"config"`
	MusicDir  string `json:"music_dir"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and environment information",
	Long: `Show the chromie version. With --verbose, also show the audio player
that would be used, the config file and the music directory.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Player:    playerName(),
		Config:    getConfigPath(),
		MusicDir:  cfg.Music.Dir,
	}

	if JSONOutput() {
		return printJSON(info)
	}

	fmt.Printf("chromie %s\n", info.Version)
	if !Verbose() {
		return nil
	}

	table := NewTable()
	table.Row("  commit:", info.Commit)
	table.Row("  built:", info.BuildDate)
	table.Row("  go version:", info.GoVersion)
	table.Row("  platform:", info.Platform)
	table.Row("  player:", info.Player)
	table.Row("  config:", info.Config)
	table.Row("  music dir:", info.MusicDir)
	table.Flush()
	return nil
}

// playerName reports the audio player playback would use, or "none".
func playerName() string {
	p, err := audio.New(cfg.Player.Command, cfg.Player.Args)
	if err != nil {
		return "none"
	}
	return p.Command()
}
