package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/geobadge/internal/cli"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/infrastructure/surface"
	"github.com/bnema/geobadge/internal/logging"
)

const followRetry = 5 * time.Second

var (
	badgeFormat string
	badgeFollow bool
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Print the current badge, for status bars",
	Long: `Print the badge the daemon currently shows.

Formats:
  text    flag and badge text
  json    the badge record
  waybar  a waybar custom module line (return-type json)

With --follow a new line is printed on every change, which suits waybar's
continuous exec mode:

  "custom/geobadge": {
    "exec": "geobadge badge --format waybar --follow",
    "return-type": "json"
  }

When the daemon is not running the last badge written to the state
directory is printed instead.`,
	RunE: runBadge,
}

func init() {
	rootCmd.AddCommand(badgeCmd)
	badgeCmd.Flags().StringVarP(&badgeFormat, "format", "f", cli.FormatText, "output format: text, json or waybar")
	badgeCmd.Flags().BoolVar(&badgeFollow, "follow", false, "keep running and print a line on every change")
}

func runBadge(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	if _, err := cli.FormatBadge(badgeFormat, control.Status{}); err != nil {
		return err
	}

	if badgeFollow {
		ctx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followBadge(ctx, app)
	}

	st, err := app.Client.Status(app.Ctx())
	if errors.Is(err, control.ErrDaemonUnavailable) {
		st, err = offlineStatus(app)
	}
	if err != nil {
		return err
	}
	return printBadge(st)
}

// followBadge streams badge lines, reconnecting while the daemon is away.
func followBadge(ctx context.Context, app *cli.App) error {
	log := logging.FromContext(ctx)
	for {
		frames, err := app.Client.Subscribe(ctx)
		if err == nil {
			if err := streamBadge(ctx, frames); err != nil {
				return err
			}
		} else {
			log.Debug().Err(err).Msg("daemon not reachable")
			if st, offErr := offlineStatus(app); offErr == nil {
				if err := printBadge(st); err != nil {
					return err
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followRetry):
		}
	}
}

func streamBadge(ctx context.Context, frames <-chan control.Frame) error {
	var st control.Status
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if !applyBadgeFrame(&st, f) {
				continue
			}
			if err := printBadge(st); err != nil {
				return err
			}
		}
	}
}

// applyBadgeFrame folds a frame into st and reports whether the output may have changed.
func applyBadgeFrame(st *control.Status, f control.Frame) bool {
	switch f.Type {
	case control.FrameStatus:
		return json.Unmarshal(f.Payload, st) == nil
	case control.FrameBadge:
		return json.Unmarshal(f.Payload, &st.Badge) == nil
	case control.FrameState:
		return json.Unmarshal(f.Payload, &st.StatePayload) == nil
	case control.FrameLocation:
		var record entity.LocationRecord
		if json.Unmarshal(f.Payload, &record) != nil {
			return false
		}
		st.Location = &record
		return true
	}
	return false
}

func offlineStatus(app *cli.App) (control.Status, error) {
	state, err := surface.ReadState(app.Config.Badge.OutputDir)
	if err != nil {
		return control.Status{}, fmt.Errorf("daemon not running and no badge on disk: %w", err)
	}
	return cli.StatusFromSurface(state), nil
}

func printBadge(st control.Status) error {
	line, err := cli.FormatBadge(badgeFormat, st)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, line)
	return err
}
