package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gamedex/internal/api"
	cl "gamedex/internal/cli"
	"gamedex/internal/config"
	"gamedex/internal/slots"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "gdx",
		Short:        "Gamedex catalog client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newGameCmd(&apiBase),
		newRecommendCmd(&apiBase),
		newGenresCmd(&apiBase),
		newPublishersCmd(&apiBase),
		newTopCmd(&apiBase),
		newPingCmd(&apiBase),
		newResetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// joinArgs rebuilds a multi-word name from positional args so quoting is
// optional: `gdx game Left 4 Dead` works.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAction(cmd *cobra.Command, apiBase *string, action string, slotValues map[string]any) error {
	sess, err := cl.LoadOrCreateSession()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	client := cl.NewClient(*apiBase)

	out, err := client.RunAction(ctx, action, sess.SenderID, slotValues)
	if err != nil {
		return err
	}
	renderResponses(out.Responses)
	return nil
}

func newGameCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "game <name>",
		Short: "Show the catalog card for one game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := joinArgs(args)
			return runAction(cmd, apiBase, api.ActionProvideGameInfo, map[string]any{
				slots.SlotGame: name,
			})
		},
	}
}

func newRecommendCmd(apiBase *string) *cobra.Command {
	var genres, publishers []string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend games, optionally filtered by genre and publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			slotValues := map[string]any{}
			applyFacet(slotValues, slots.FacetGenres, genres)
			applyFacet(slotValues, slots.FacetPublishers, publishers)
			return runAction(cmd, apiBase, api.ActionProvideRecommendation, slotValues)
		},
	}
	cmd.Flags().StringSliceVar(&genres, "genres", nil, "filter by these genres (any match)")
	cmd.Flags().StringSliceVar(&publishers, "publishers", nil, "filter by these publishers (any match)")
	return cmd
}

// applyFacet encodes one filter dimension the way the dialogue engine would
// after a completed form: values confirm the filter, absence declines it.
func applyFacet(slotValues map[string]any, name slots.FacetName, values []string) {
	facet := slots.Facet{Kind: slots.FacetDisabled}
	if len(values) > 0 {
		facet = slots.Facet{Kind: slots.FacetConfirmed, Values: values}
	}
	toggleKey, valuesKey := slots.FacetKeys(name)
	toggle, vals := facet.ToSlots()
	slotValues[toggleKey] = toggle
	slotValues[valuesKey] = vals
}

func newGenresCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the most popular genres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, api.ActionProvideGenres, nil)
		},
	}
}

func newPublishersCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "publishers",
		Short: "List the most prolific publishers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, api.ActionProvidePublishers, nil)
		},
	}
}

func newTopCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "top <publisher>",
		Short: "Show a publisher's best rated games",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher := joinArgs(args)
			return runAction(cmd, apiBase, api.ActionProvidePublisherGames, map[string]any{
				slots.SlotPublishers: []string{publisher},
			})
		},
	}
}

func newPingCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the bot is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := cl.NewClient(*apiBase).Health(ctx); err != nil {
				return err
			}
			printSuccess("Bot is up.")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Start a fresh conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}
