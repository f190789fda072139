package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pthm/pokedex/internal/config"
	"github.com/pthm/pokedex/internal/pokeapi"
	"github.com/pthm/pokedex/internal/pokedex"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(6)
	nameStyle  = lipgloss.NewStyle().Width(16)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type listOptions struct {
	cfg   config.Config
	types []string
}

func listCmd() *cobra.Command {
	cfg, loadErr := config.Load()
	opts := &listOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the Pokémon that have every given type",
		Example: `  pokedex list --type fire
  pokedex list --type fire --type flying`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			client, err := pokeapi.New(opts.cfg.APIBaseURL,
				pokeapi.WithHTTPClient(&http.Client{Timeout: opts.cfg.RequestTimeout}),
				pokeapi.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			return runList(cmd.Context(), client, opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfg.APIBaseURL, "api", opts.cfg.APIBaseURL, "Pokémon API base URL")
	flags.DurationVar(&opts.cfg.RequestTimeout, "timeout", opts.cfg.RequestTimeout, "per-request timeout for API calls")
	flags.IntVar(&opts.cfg.HydrateWorkers, "workers", opts.cfg.HydrateWorkers, "concurrent detail fetches (1 fetches sequentially)")
	flags.StringArrayVarP(&opts.types, "type", "t", nil, "only list Pokémon with this type (repeatable)")
	return cmd
}

// runList drives a filter panel and an aggregator without a browser: both
// load, the requested types are toggled on and the visible records are
// printed.
func runList(ctx context.Context, src pokedex.Source, opts *listOptions, out io.Writer) error {
	panel := pokedex.NewFilterPanel(src, pokedex.WithLogger(logger))
	grid := pokedex.NewAggregator(src, pokedex.WithLogger(logger), pokedex.WithWorkers(opts.cfg.HydrateWorkers))
	panel.OnChange(grid.HandleFilterChanged)

	var g errgroup.Group
	g.Go(func() error { return panel.Mount(ctx) })
	g.Go(func() error { return grid.Mount(ctx) })
	_ = g.Wait()

	view := grid.View()
	if view.Err != "" {
		return fmt.Errorf("load pokémon: %s", view.Err)
	}
	if len(opts.types) > 0 {
		if pv := panel.View(); pv.Err != "" {
			return fmt.Errorf("load types: %s", pv.Err)
		}
		for _, name := range opts.types {
			if _, err := panel.Toggle(strings.ToLower(name), true); err != nil {
				return fmt.Errorf("type %q: %w", name, err)
			}
		}
		view = grid.View()
	}

	for _, r := range view.Visible {
		card := pokedex.NewCardView(r)
		types := make([]string, 0, len(r.Categories))
		for _, c := range r.CategoryNames() {
			types = append(types, typeStyle.Render(c))
		}
		fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(card.Label),
			nameStyle.Render(card.Title),
			strings.Join(types, " "),
		))
	}
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d of %d shown", len(view.Visible), view.Total)))
	return nil
}
