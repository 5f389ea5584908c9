// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audspace/config"
	"github.com/ik5/audspace/internal/log"
)

type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "audspace",
		Short: "Positional audio for multi-participant calls",
		Long: `Positional audio for multi-participant calls.

Scenarios describe participants, their media and how they move. They can be
rendered offline to WAV or played through the sound card.

Configuration is read from --config when given; AUDSPACE_LOG_LEVEL,
AUDSPACE_SPATIALIZER and AUDSPACE_SAMPLE_RATE override it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			log.Init(cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newRenderCmd(opts), newPlayCmd(opts), newInfoCmd())
	return root
}

// config loads the configuration file, or the defaults, and applies the
// command line on top.
func (o *globalOptions) config() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return config.Config{}, err
		}
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
