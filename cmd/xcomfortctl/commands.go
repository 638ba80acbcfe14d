package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(dimCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(versionCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List device names known to the client",
	Long: `List every device name in the directory, one per line, in the
order the gateway or setup file supplied them.

The directory is populated per the configured setup mode; run
'xcomfortctl setup' first if the listing comes back empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, err := buildClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		for _, name := range client.DeviceNames() {
			fmt.Println(name)
		}
		return nil
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List scene names known to the client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, err := buildClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		for _, name := range client.SceneNames() {
			fmt.Println(name)
		}
		return nil
	},
}

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print the full name directory as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, err := buildClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		data, err := json.MarshalIndent(client.NameObject(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding names: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var dimCmd = &cobra.Command{
	Use:   "dim <device> <value>",
	Short: "Switch or dim a device (on, off, or 0-100)",
	Example: `  # Switch on
  xcomfortctl dim "Kitchen Light" on

  # Dim to 40 percent
  xcomfortctl dim "Kitchen Light" 40`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		ok, err := client.SetDimState(cmd.Context(), args[0], parseDimValue(args[1]))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("gateway refused the command")
		}
		fmt.Printf("%s set to %s\n", args[0], args[1])
		return nil
	},
}

// parseDimValue keeps "on"/"off" as words and converts numerics to
// integers, since string-encoded numbers are rejected downstream.
func parseDimValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

var sceneCmd = &cobra.Command{
	Use:   "scene <name>",
	Short: "Trigger a scene by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		ok, err := client.TriggerScene(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("gateway refused the command")
		}
		fmt.Printf("%s triggered\n", args[0])
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Discover zones, devices and scenes from the gateway",
	Long: `Walk the gateway's zones and register every device and scene it
reports, replacing the configured setup mode for this run. With a
cache path configured the result persists, so later commands resolve
names without re-discovering.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cfg, err := buildClient(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck // Process exits right after

		names := client.NameObject()
		fmt.Printf("Registered %d device(s) and %d scene(s)\n", len(names.Devices), len(names.Scenes))
		if cfg.Cache.Path != "" {
			fmt.Printf("Directory cached at %s\n", cfg.Cache.Path)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("xcomfortctl %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
