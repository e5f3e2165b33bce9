// README: Operator CLI running single and team availability searches against the live stores.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/begoneskadedjur/kundportal-sub014/internal/app"
	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/infra"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/availability"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

func main() {
	cliApp := &cli.App{
		Name:  "slotctl",
		Usage: "Search technician availability from the command line.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print suggestions as JSON instead of a table."},
		},
		Commands: []*cli.Command{
			slotsCommand(),
			teamCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "slotctl:", err)
		os.Exit(1)
	}
}

func jobFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Required: true, Usage: "Job address."},
		&cli.StringFlag{Name: "skill", Aliases: []string{"s"}, Required: true, Usage: "Required technician skill."},
		&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Value: 60, Usage: "Job length in minutes."},
		&cli.StringFlag{Name: "start", Usage: "First day to search (YYYY-MM-DD). Defaults to today."},
		&cli.IntFlag{Name: "days", Usage: "Number of days to search. Defaults to SCHEDULING_SEARCH_DAYS."},
	}
}

func slotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "Suggest slots for a single technician.",
		Flags: append(jobFlags(),
			&cli.StringSliceFlag{Name: "technician", Aliases: []string{"t"}, Usage: "Restrict to technician id (repeatable)."},
		),
		Action: func(c *cli.Context) error {
			job, err := jobFromFlags(c)
			if err != nil {
				return err
			}
			var ids []types.ID
			for _, id := range c.StringSlice("technician") {
				ids = append(ids, types.ID(id))
			}
			return withApp(c, func(a *app.App, loc *time.Location) error {
				out, err := a.Availability.FindSlots(c.Context, availability.SlotQuery{JobQuery: job, TechnicianIDs: ids})
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return writeJSON(c.App.Writer, out)
				}
				return renderSlots(c.App.Writer, out, loc)
			})
		},
	}
}

func teamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Suggest windows where several technicians are free together.",
		Flags: append(jobFlags(),
			&cli.IntFlag{Name: "size", Aliases: []string{"n"}, Value: 2, Usage: "Technicians needed."},
		),
		Action: func(c *cli.Context) error {
			job, err := jobFromFlags(c)
			if err != nil {
				return err
			}
			return withApp(c, func(a *app.App, loc *time.Location) error {
				out, err := a.Availability.FindTeamSlots(c.Context, availability.TeamQuery{JobQuery: job, TeamSize: c.Int("size")})
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return writeJSON(c.App.Writer, out)
				}
				return renderTeam(c.App.Writer, out, loc)
			})
		},
	}
}

func jobFromFlags(c *cli.Context) (availability.JobQuery, error) {
	job := availability.JobQuery{
		DestinationAddress: c.String("address"),
		RequiredSkill:      c.String("skill"),
		DurationMinutes:    c.Int("duration"),
		SearchDays:         c.Int("days"),
	}
	if v := c.String("start"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return job, fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
		}
		job.SearchStartDate = start
	}
	return job, nil
}

func withApp(c *cli.Context, fn func(a *app.App, loc *time.Location) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := infra.NewLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		logger.Error("wire application", zap.Error(err))
		return err
	}
	defer a.Close()
	return fn(a, cfg.Scheduling.Location)
}
