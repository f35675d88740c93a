package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/MMM_GO/internal/client"
	"github.com/AngelCh415/MMM_GO/internal/curve"
	"github.com/AngelCh415/MMM_GO/internal/forecast"
	"github.com/AngelCh415/MMM_GO/internal/funnel"
	"github.com/AngelCh415/MMM_GO/internal/models"
	"github.com/AngelCh415/MMM_GO/internal/store"
)

type options struct {
	server       string
	timeout      time.Duration
	profilesFile string
}

// backend: local usa los paquetes directo; remote pega a la API.
type backend interface {
	Profiles(ctx context.Context) ([]models.Profile, error)
	Simulate(ctx context.Context, profile string, alloc models.Allocation) (models.Simulation, error)
	Curve(ctx context.Context, min, max float64, count int) ([]models.CurveSample, error)
	Effect(ctx context.Context, investment float64) (client.EffectResult, error)
	Forecast(ctx context.Context, seed int64) ([]models.ForecastPoint, error)
}

type local struct{ svc *funnel.Service }

func (l local) Profiles(context.Context) ([]models.Profile, error) { return l.svc.Profiles(), nil }

func (l local) Simulate(_ context.Context, profile string, alloc models.Allocation) (models.Simulation, error) {
	return l.svc.Simulate(profile, alloc)
}

func (l local) Curve(_ context.Context, min, max float64, count int) ([]models.CurveSample, error) {
	if err := curve.CheckDomain(min, max, count); err != nil {
		return nil, err
	}
	return curve.Series(min, max, count), nil
}

func (l local) Effect(_ context.Context, x float64) (client.EffectResult, error) {
	e, err := curve.EffectAtPoint(x)
	if err != nil {
		return client.EffectResult{}, err
	}
	s, err := curve.SampleAt(int(x))
	if err != nil {
		return client.EffectResult{}, err
	}
	return client.EffectResult{Investment: x, Effect: e, Sample: s}, nil
}

func (l local) Forecast(_ context.Context, seed int64) ([]models.ForecastPoint, error) {
	return forecast.Generate(seed), nil
}

func newBackend(o *options) (backend, error) {
	if o.server != "" {
		return client.New(o.server, client.NewHTTPClient(o.timeout)), nil
	}
	st, err := store.NewDefaultStore()
	if err != nil {
		return nil, err
	}
	if o.profilesFile != "" {
		if err := st.LoadFile(o.profilesFile); err != nil {
			return nil, err
		}
	}
	return local{svc: funnel.NewService(st, nil)}, nil
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "mixctl",
		Short:         "Marketing-mix simulator: funnel metrics and media response curve",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.server, "server", "", "simulator API base URL (empty = compute locally)")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 15*time.Second, "HTTP timeout for --server")
	root.PersistentFlags().StringVar(&o.profilesFile, "profiles", "", "extra profiles YAML (local mode)")

	root.AddCommand(
		newProfilesCmd(o),
		newSimulateCmd(o),
		newCurveCmd(o),
		newEffectCmd(o),
		newForecastCmd(o),
	)
	return root
}

func newProfilesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List simulation profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBackend(o)
			if err != nil {
				return err
			}
			ps, err := b.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ps)
		},
	}
}

func newSimulateCmd(o *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "simulate <profile>",
		Short: "Compute accesses, leads and sales for a profile",
		Example: `  mixctl simulate influencers --set Megainfluenciadores=500
  mixctl simulate influencers-lite --set Mega=150 --set Nano=40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alloc, err := parseSets(sets)
			if err != nil {
				return err
			}
			b, err := newBackend(o)
			if err != nil {
				return err
			}
			sim, err := b.Simulate(cmd.Context(), args[0], alloc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sim)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "category=amount override (repeatable)")
	return cmd
}

func newCurveCmd(o *options) *cobra.Command {
	var min, max float64
	var count int
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Sample the media response curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBackend(o)
			if err != nil {
				return err
			}
			s, err := b.Curve(cmd.Context(), min, max, count)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().Float64Var(&min, "min", curve.ReferenceMin, "lowest investment")
	cmd.Flags().Float64Var(&max, "max", curve.ReferenceMax, "highest investment")
	cmd.Flags().IntVar(&count, "count", curve.ReferenceCount, "number of samples")
	return cmd
}

func newEffectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "effect <investment>",
		Short: "Effect of the reference-domain sample for an investment in [0, 500)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("investment: %w", err)
			}
			b, err := newBackend(o)
			if err != nil {
				return err
			}
			res, err := b.Effect(cmd.Context(), x)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newForecastCmd(o *options) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Synthetic predicted vs realized monthly sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBackend(o)
			if err != nil {
				return err
			}
			pts, err := b.Forecast(cmd.Context(), seed)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pts)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 42, "noise seed")
	return cmd
}

func parseSets(sets []string) (models.Allocation, error) {
	alloc := models.Allocation{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("--set %q: want category=amount", s)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", s, err)
		}
		alloc[strings.TrimSpace(k)] = f
	}
	return alloc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
