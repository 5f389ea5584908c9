// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audspace"
	"github.com/ik5/audspace/engine"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/scenario"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var scenarioPath, output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scenario to a WAV file",
		Long: `Render a scenario offline to a 16-bit stereo WAV file.

Examples:
  audspace render -s call.yaml -o call.wav
  audspace --log-level debug render -s call.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			sc, err := scenario.Load(scenarioPath)
			if err != nil {
				return err
			}
			media, err := scenario.Decode(cmd.Context(), sc, audspace.NewRegistry())
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := scenario.Render(cmd.Context(), sc, media, cfg, engine.WithLogger(log.L()))
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			if err := res.WriteWAV(f); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rendered %v of audio to %s in %v\n",
				sc.Duration, output, time.Since(start).Round(time.Millisecond))
			for _, tr := range res.Transitions {
				state := "stopped speaking"
				if tr.Active {
					state = "started speaking"
				}
				fmt.Fprintf(out, "%8v  %s %s\n", tr.At.Round(time.Millisecond), tr.ID, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario YAML file")
	cmd.Flags().StringVarP(&output, "output", "o", "out.wav", "WAV file to write")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}
