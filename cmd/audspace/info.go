// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audspace"
	"github.com/ik5/audspace/audio"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the format of a media file",
		Long: `Print the format, sample rate, channel count and duration of a media file.

Supported formats: ` + strings.Join(audspace.NewRegistry().Formats(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := audspace.OpenFile(audspace.NewRegistry(), path)
			if err != nil {
				return err
			}
			rate, channels := src.SampleRate(), src.Channels()

			buf, err := audio.LoadBuffer(src, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:        %s\n", path)
			fmt.Fprintf(out, "format:      %s\n", strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
			fmt.Fprintf(out, "sample rate: %d Hz\n", rate)
			fmt.Fprintf(out, "channels:    %d\n", channels)
			fmt.Fprintf(out, "duration:    %v\n", buf.Duration())
			return nil
		},
	}
}
