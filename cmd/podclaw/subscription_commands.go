package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"podclaw/internal/config"
	"podclaw/internal/storage"
	"podclaw/internal/subscription"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var lock bool

	cmd := &cobra.Command{
		Use:   "add <alias> <link> <download_path> <interval_hours>",
		Short: "Register a podcast",
		Long: `Register a podcast under a case-insensitive alias. The feed is fetched once to
create the initial cache; interval_hours is how long a cache stays fresh.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := parseHours(args[3])
			if err != nil {
				return err
			}
			downloadPath, err := expandDownloadPath(args[2])
			if err != nil {
				return err
			}
			return ctx.withCollection(cmd, func(s *session) error {
				alias := strings.TrimSpace(args[0])
				if alias == "" {
					return subscription.ErrInvalidAlias
				}
				if _, taken := s.collection.Find(alias); taken {
					return fmt.Errorf("%w: %q", subscription.ErrAliasConflict, alias)
				}
				s.out.info("Registering new podcast with this alias: " + s.out.quote(alias))

				updated, parsed, err := s.manager.Add(s.ctx, s.collection, subscription.AddRequest{
					Alias:         alias,
					FeedURL:       args[1],
					DownloadPath:  downloadPath,
					IntervalHours: interval,
					Lock:          lock,
				})
				if err != nil {
					return err
				}
				s.collection = updated

				s.out.info("Podcast will use this link: " + s.out.quote(args[1]))
				s.out.info("This podcast will save its downloaded files to: " + s.out.quote(downloadPath))
				s.out.info("This podcast will keep its cache for this many hours: " + s.out.quote(strconv.Itoa(interval)))
				s.out.info(fmt.Sprintf("Parsed RSS feed with %d episodes and created initial cache.", len(parsed.Episodes)))
				if lock {
					s.out.info("Podcast is locked.")
				}
				s.out.done("Done!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&lock, "lock", "l", false, "Lock the podcast so it is never refreshed automatically or edited")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <alias>",
		Short: "Remove a registered podcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				s.out.info("Removing " + s.out.quote(s.collection.Subscriptions[index].Alias) + " from podcasts...")
				updated, err := s.manager.Remove(s.collection, index)
				if err != nil {
					return err
				}
				s.collection = updated
				s.out.done("Done!")
				return nil
			})
		},
	}
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		newAlias    string
		newLink     string
		newPath     string
		newInterval string
	)

	cmd := &cobra.Command{
		Use:   "edit <alias>",
		Short: "Edit a registered podcast",
		Long:  "Edit a registered podcast. Every flag is optional; only the supplied fields change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req subscription.EditRequest
			flags := cmd.Flags()
			if flags.Changed("alias") {
				req.Alias = &newAlias
			}
			if flags.Changed("link") {
				req.FeedURL = &newLink
			}
			if flags.Changed("path") {
				expanded, err := expandDownloadPath(newPath)
				if err != nil {
					return err
				}
				req.DownloadPath = &expanded
			}
			if flags.Changed("interval") {
				hours, err := parseHours(newInterval)
				if err != nil {
					return err
				}
				req.IntervalHours = &hours
			}

			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				current := s.collection.Subscriptions[index]
				if !current.IsLocked {
					s.out.info("Editing " + s.out.quote(current.Alias) + "...")
				}

				updated, err := s.manager.Edit(s.collection, index, req)
				if errors.Is(err, subscription.ErrNoChanges) {
					s.out.important("No changes made.")
					return nil
				}
				if err != nil {
					return err
				}
				s.collection = updated

				if req.Alias != nil {
					s.out.info("Changed alias to " + s.out.quote(updated.Subscriptions[index].Alias) + "!")
				}
				if req.FeedURL != nil {
					s.out.info("Changed feed link to " + s.out.quote(updated.Subscriptions[index].FeedURL) + "!")
				}
				if req.DownloadPath != nil {
					s.out.info("Changed download path to " + s.out.quote(*req.DownloadPath) + "!")
				}
				if req.IntervalHours != nil {
					s.out.info("Changed update interval to " + s.out.quote(strconv.Itoa(*req.IntervalHours)) + "!")
				}
				s.out.done("Successfully edited podcast!")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&newAlias, "alias", "a", "", "New case-insensitive alias")
	cmd.Flags().StringVarP(&newLink, "link", "l", "", "New feed URL")
	cmd.Flags().StringVarP(&newPath, "path", "p", "", "New download directory")
	cmd.Flags().StringVarP(&newInterval, "interval", "i", "", "New cache interval in hours")
	return cmd
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update <alias>",
		Short: "Refresh the cache of a podcast now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				sub := s.collection.Subscriptions[index]
				if !sub.IsLocked {
					s.out.info("Updating podcast " + s.out.quote(sub.Alias) + "...")
				}
				updated, err := s.manager.Update(s.ctx, s.collection, index)
				if err != nil {
					return err
				}
				s.collection = updated
				s.out.done("Cache updated!")
				return nil
			})
		},
	}
}

func newLockCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lock <alias>",
		Short: "Toggle the lock of a registered podcast",
		Long: `Toggle the lock of a registered podcast. A locked podcast is never refreshed
automatically and cannot be edited or updated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCollection(cmd, func(s *session) error {
				index, err := s.find(args[0])
				if err != nil {
					return err
				}
				updated, locked, err := s.manager.ToggleLock(s.collection, index)
				if err != nil {
					return err
				}
				s.collection = updated
				if locked {
					s.out.done("Successfully locked podcast!")
				} else {
					s.out.done("Successfully unlocked podcast!")
				}
				return nil
			})
		},
	}
}

func newRepairCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Reset the storage file to an empty collection",
		Long: `Reset the storage file to an empty collection. Every registered podcast is
deleted, so the command refuses to run without --confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Refuse before withStore so not even the lock file is created.
			if !confirm {
				return storage.ErrRepairNotConfirmed
			}
			return ctx.withStore(cmd, func(s *session) error {
				s.out.info("Repairing storage...")
				if err := s.store.Repair(confirm); err != nil {
					return err
				}
				s.out.done("Done!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "confirm", "c", false, "Confirm the repair")
	return cmd
}

func parseHours(value string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || hours < 0 || hours > subscription.MaxIntervalHours {
		return 0, fmt.Errorf("%w: %q is not a whole number of hours up to %d", subscription.ErrInvalidInterval, value, subscription.MaxIntervalHours)
	}
	return hours, nil
}

func expandDownloadPath(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", errors.New("download path must not be empty")
	}
	expanded, err := config.ExpandPath(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("resolve download path: %w", err)
	}
	return expanded, nil
}
