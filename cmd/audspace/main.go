// SPDX-License-Identifier: EPL-2.0

// Command audspace renders and plays scripted positional-audio calls.
//
// Usage:
//
//	audspace [--config file] [--log-level level] <command> [args]
//
// Commands:
//
//	render  - mix a scenario offline into a WAV file
//	play    - play a scenario live on the default output device
//	info    - print the format of a media file
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
