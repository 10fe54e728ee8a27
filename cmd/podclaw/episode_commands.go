package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"podclaw/internal/subscription"
)

const reverseFlagUsage = "Show episodes in feed order instead of newest first"

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "inspect <alias> [episode_index]",
		Short: "Show the details of a podcast or one of its episodes",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeIndex := -1
			if len(args) == 2 {
				parsed, err := parseEpisodeIndex(args[1])
				if err != nil {
					return err
				}
				episodeIndex = parsed
			}

			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				if err := s.autocache(index); err != nil {
					return err
				}
				sub := s.collection.Subscriptions[index]
				access := s.episodeAccess()

				if episodeIndex < 0 {
					details, err := access.InspectSeries(sub)
					if err != nil {
						return err
					}
					s.out.info("Displaying details for the requested series...")
					s.out.field("Name", details.Title)
					s.out.field("Creator(s)", details.Author)
					s.out.field("Description", details.Description)
					return nil
				}

				details, err := access.InspectEpisode(sub, episodeIndex, reverse)
				if err != nil {
					return err
				}
				s.out.info("Displaying details for the requested episode...")
				s.out.field("Name", details.Title)
				s.out.field("Index", strconv.Itoa(details.Index))
				s.out.field("Description", details.Description)
				s.out.field("Link", details.EnclosureURL)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, reverseFlagUsage)
	return cmd
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "get <alias> <episode_index>",
		Short: "Download an episode of a podcast",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeIndex, err := parseEpisodeIndex(args[1])
			if err != nil {
				return err
			}

			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				if err := s.autocache(index); err != nil {
					return err
				}
				sub := s.collection.Subscriptions[index]
				access := s.episodeAccess()

				target, _, err := access.Target(sub, episodeIndex, reverse)
				if err != nil {
					return err
				}
				s.out.info("Downloading " + s.out.quote(target) + "...")
				if _, err := access.Download(s.ctx, sub, episodeIndex, reverse); err != nil {
					return err
				}
				s.out.done("Done!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, reverseFlagUsage)
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "list [alias]",
		Short: "List registered podcasts, or the episodes of one podcast",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCollection(cmd, func(s *session) error {
				if len(args) == 0 {
					listSubscriptions(s, time.Now())
					return nil
				}

				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				if err := s.autocache(index); err != nil {
					return err
				}
				entries, err := s.episodeAccess().ListEpisodes(s.collection.Subscriptions[index], reverse)
				if err != nil {
					return err
				}
				s.out.info("Listing all episodes in the requested podcast...")
				for _, entry := range entries {
					s.out.entry(entry.Index, entry.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, reverseFlagUsage)
	return cmd
}

func listSubscriptions(s *session, now time.Time) {
	if s.collection.Len() == 0 {
		s.out.important("No podcasts registered yet. Add one with 'podclaw add'.")
		return
	}
	s.out.info("Listing all registered podcasts...")
	rows := make([][]string, 0, s.collection.Len())
	for i, sub := range s.collection.Subscriptions {
		rows = append(rows, []string{
			strconv.Itoa(i),
			sub.Alias,
			yesNo(sub.IsLocked),
			cacheAge(sub, now),
			formatInterval(sub.UpdateInterval),
		})
	}
	s.out.block(renderTable(
		[]string{"#", "Alias", "Locked", "Cached", "Interval"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func cacheAge(sub subscription.Subscription, now time.Time) string {
	if sub.CacheTimestamp.IsZero() {
		return "never"
	}
	return humanize.RelTime(sub.CacheTimestamp, now, "ago", "from now")
}

func formatInterval(d time.Duration) string {
	return fmt.Sprintf("%dh", int64(d/time.Hour))
}

func parseEpisodeIndex(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: %q is not a valid episode index", subscription.ErrIndexOutOfRange, value)
	}
	return index, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
