package main

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/viz"
	"github.com/spf13/cobra"
)

// runLive opens the live view. The bare root command falls back to the
// preset menu unless a preset or config file was named.
func runLive(cmd *cobra.Command, args []string) error {
	opts := viz.Options{
		Theme:   theme,
		GIFPath: gifPath,
		Logger:  slog.Default(),
	}

	bare := !cmd.HasParent() && !cmd.Flags().Changed("preset") && configFile == ""
	if menu || bare {
		return viz.RunInteractive(opts)
	}

	var profile *config.Profile
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if profile, err = cfg.ResolveProfile(); err != nil {
			return err
		}
		opts.Label = configFile
		if watch {
			w, err := config.Watch(configFile)
			if err != nil {
				return err
			}
			defer w.Close()
			opts.Watcher = w
			opts.ConfigPath = configFile
		}
	} else {
		if watch {
			return fmt.Errorf("--watch needs --config")
		}
		var err error
		if profile, err = config.LookupPreset(liveDevice, preset); err != nil {
			return err
		}
		opts.Label = liveDevice + "/" + preset
	}

	overrides, err := parseParams(params)
	if err != nil {
		return err
	}
	for name, v := range overrides {
		if err := profile.SetParam(name, v); err != nil {
			return err
		}
	}
	opts.Profile = profile

	slog.Info("live session", "label", opts.Label, "theme", theme, "watch", watch)
	return viz.Run(opts)
}
