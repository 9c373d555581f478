package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tessro/chromie/internal/config"
	"github.com/tessro/chromie/internal/wizard"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and creating the chromie configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file.

In a terminal a short form asks for the music directory and weather
settings. Use --defaults to write the default values without asking.`,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write defaults without prompting")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	newCfg := config.Default()
	if musicDir != "" {
		newCfg.Music.Dir = cfg.Music.Dir
	}

	if wizard.CanInteract(configInitDefaults || JSONOutput()) {
		if err := wizard.RunSetup(newCfg); err != nil {
			return err
		}
	}

	if err := newCfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(configPath, newCfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'chromie init' to create the hour folders")
	fmt.Println("  2. Drop music into the folder for each hour")
	fmt.Println("  3. Run 'chromie' to start playing")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"path":   path,
			"exists": exists,
		})
	}

	if exists {
		fmt.Println(path)
	} else {
		fmt.Printf("%s (not created)\n", path)
	}
	return nil
}

// getConfigPath returns the file in use, or where config init would write.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := config.FindConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}
