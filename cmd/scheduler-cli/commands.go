package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/fixture"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

type rootOptions struct {
	fixturePath string
	output      string
	verbose     bool
	maxPerDay   int
	maxPerYear  int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "scheduler-cli",
		Short:         "Run the clerkship scheduler against a YAML fixture",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputJSON && opts.output != outputTable {
				return fmt.Errorf("unsupported output %q, want json or table", opts.output)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.fixturePath, "fixture", "f", "", "path to the YAML fixture")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format: json or table")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine decisions to stderr")
	root.PersistentFlags().IntVar(&opts.maxPerDay, "max-per-day", 0, "default students per preceptor per day")
	root.PersistentFlags().IntVar(&opts.maxPerYear, "max-per-year", 0, "default students per preceptor per year")
	_ = root.MarkPersistentFlagRequired("fixture")

	root.AddCommand(newGapFillCmd(opts), newValidateTeamCmd(opts))
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func (o *rootOptions) defaults() scheduling.CapacityDefaults {
	return scheduling.CapacityDefaults{MaxPerDay: o.maxPerDay, MaxPerYear: o.maxPerYear}
}

func newGapFillCmd(opts *rootOptions) *cobra.Command {
	var start, end string
	var students, clerkships []string

	cmd := &cobra.Command{
		Use:   "gap-fill",
		Short: "Fill unmet requirements and print the proposed assignments",
		Long: "Runs one gap-fill pass over the fixture as a dry run. The range defaults to the\n" +
			"fixture's range. Nothing is written back to the fixture.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.Load(opts.fixturePath)
			if err != nil {
				return err
			}
			if start == "" {
				start = f.Range.Start
			}
			if end == "" {
				end = f.Range.End
			}

			logger := opts.logger()
			defer logger.Sync() //nolint:errcheck

			d := opts.defaults()
			svc := service.NewSchedulingService(f.Sources(), nil, nil, nil, nil, nil, logger, service.SchedulingConfig{
				DefaultMaxPerDay:  d.MaxPerDay,
				DefaultMaxPerYear: d.MaxPerYear,
			})
			resp, err := svc.GapFill(cmd.Context(), dto.GapFillRequest{
				StartDate:    start,
				EndDate:      end,
				StudentIDs:   students,
				ClerkshipIDs: clerkships,
				DryRun:       true,
			})
			if err != nil {
				return err
			}

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return renderGapFill(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first date to fill (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last date to fill (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&students, "student", nil, "limit to these student ids")
	cmd.Flags().StringSliceVar(&clerkships, "clerkship", nil, "limit to these clerkship ids")
	return cmd
}

func newValidateTeamCmd(opts *rootOptions) *cobra.Command {
	var teamID string
	var coverRange bool

	cmd := &cobra.Command{
		Use:   "validate-team",
		Short: "Validate a team defined in the fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.Load(opts.fixturePath)
			if err != nil {
				return err
			}
			team, ok := f.Team(teamID)
			if !ok {
				return fmt.Errorf("team %s not found in fixture", teamID)
			}

			var dates []string
			if coverRange && f.Range.Start != "" {
				dates = scheduling.DateRange{Start: f.Range.Start, End: f.Range.End}.Dates()
			}

			logger := opts.logger()
			defer logger.Sync() //nolint:errcheck

			src := f.Sources()
			svc := service.NewTeamService(f.TeamStore(), src.Preceptors, src.Clerkships, src.Availability,
				src.CapacityRules, src.Assignments, nil, nil, logger, opts.defaults())
			result, err := svc.Validate(cmd.Context(), fixture.TeamRequest(team, dates))
			if err != nil {
				return err
			}

			if opts.output == outputJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else if err := renderTeamValidation(cmd.OutOrStdout(), team.ID, result); err != nil {
				return err
			}
			if !result.IsValid {
				return fmt.Errorf("team %s is invalid", team.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&teamID, "team", "t", "", "team id")
	cmd.Flags().BoolVar(&coverRange, "cover-range", false, "require a member to be available on every date of the fixture range")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
