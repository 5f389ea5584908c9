// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ik5/audspace"
	"github.com/ik5/audspace/engine"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/internal/metrics"
	"github.com/ik5/audspace/scenario"
)

// graphReader feeds oto from the graph's render loop as float32 LE stereo.
type graphReader struct {
	ctx     *graph.Context
	metrics *metrics.Metrics
	scratch []float32
}

func (r *graphReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(r.scratch) < 2*frames {
		r.scratch = make([]float32, 2*frames)
	}
	samples := r.scratch[:2*frames]

	r.ctx.Render(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	r.metrics.AddRenderedFrames(frames)
	return 8 * frames, nil
}

func newPlayCmd(opts *globalOptions) *cobra.Command {
	var (
		scenarioPath string
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a scenario on the default output device",
		Long: `Play a scenario live. The engine ticks at the scenario frame rate on
the wall clock while the sound card pulls audio from the graph.

Examples:
  audspace play -s call.yaml
  audspace play -s call.yaml --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sc, err := scenario.Load(scenarioPath)
			if err != nil {
				return err
			}
			media, err := scenario.Decode(ctx, sc, audspace.NewRegistry())
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server", "error", err)
					}
				}()
				defer srv.Close()
			}

			cfg = scenario.Configure(sc, cfg)
			gctx := graph.NewContext(sc.SampleRate)
			eng, err := engine.New(gctx, cfg, engine.WithLogger(log.L()), engine.WithMetrics(m))
			if err != nil {
				return err
			}
			defer eng.Close()

			eng.OnActivityChanged(func(id string, active bool) {
				log.Info("activity", "participant", id, "speaking", active)
			})

			sess, err := scenario.NewSession(sc, media, eng)
			if err != nil {
				return err
			}

			otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
				SampleRate:   sc.SampleRate,
				ChannelCount: 2,
				Format:       oto.FormatFloat32LE,
				BufferSize:   time.Duration(cfg.BufferFrames) * time.Second / time.Duration(sc.SampleRate),
			})
			if err != nil {
				return fmt.Errorf("opening audio device: %w", err)
			}
			<-ready

			player := otoCtx.NewPlayer(&graphReader{ctx: gctx, metrics: m})
			defer player.Close()
			player.Play()

			ticker := time.NewTicker(time.Second / time.Duration(sc.FPS))
			defer ticker.Stop()

			start := time.Now()
			for {
				now := time.Since(start)
				if now >= sc.Duration {
					return nil
				}
				if err := sess.Advance(now); err != nil {
					return err
				}

				select {
				case <-ctx.Done():
					log.Info("interrupted", "at", now.Round(time.Millisecond))
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario YAML file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}
