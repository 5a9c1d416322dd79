package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
	"github.com/noah-isme/clerkship-scheduler/internal/scheduling"
)

func renderGapFill(w io.Writer, resp *dto.GapFillResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "ASSIGNMENTS (%d)\n", len(resp.Assignments))
	if len(resp.Assignments) > 0 {
		fmt.Fprintln(tw, "DATE\tSTUDENT\tPRECEPTOR\tCLERKSHIP\tTIER\tPENDING")
		for _, a := range resp.Assignments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n", a.Date, a.StudentID, a.PreceptorID, a.ClerkshipID, a.Tier, a.PendingApproval)
		}
	}

	writeFulfillments(tw, "FULFILLED", resp.FulfilledRequirements)
	writeFulfillments(tw, "PARTIAL", resp.PartialFulfillments)

	fmt.Fprintf(tw, "\nSTILL UNMET (%d)\n", len(resp.StillUnmet))
	if len(resp.StillUnmet) > 0 {
		fmt.Fprintln(tw, "STUDENT\tCLERKSHIP\tREMAINING\tREASON")
		for _, u := range resp.StillUnmet {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", u.StudentID, u.ClerkshipID, u.RemainingDays, orDash(u.Reason))
		}
	}

	tiers := make([]int, 0, len(resp.TierCounts))
	for tier := range resp.TierCounts {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	parts := make([]string, len(tiers))
	for i, tier := range tiers {
		parts[i] = fmt.Sprintf("tier %d: %d", tier, resp.TierCounts[tier])
	}
	fmt.Fprintf(tw, "\nTIERS\t%s\n", orDash(strings.Join(parts, ", ")))
	return tw.Flush()
}

func writeFulfillments(tw *tabwriter.Writer, title string, rows []scheduling.RequirementFulfillment) {
	fmt.Fprintf(tw, "\n%s (%d)\n", title, len(rows))
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(tw, "STUDENT\tCLERKSHIP\tASSIGNED\tADDED\tREMAINING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%d\n", r.StudentID, r.ClerkshipID, r.AssignedDays, r.RequiredDays, r.AddedDays, r.RemainingDays)
	}
}

func renderTeamValidation(w io.Writer, teamID string, result *scheduling.TeamValidationResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	status := "VALID"
	if !result.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(tw, "TEAM\t%s\nSTATUS\t%s\nAPPROVAL\t%t\n", teamID, status, result.RequiresApproval)

	if len(result.Errors) > 0 {
		fmt.Fprintln(tw, "\nCODE\tFIELD\tPRECEPTOR\tMESSAGE")
		for _, e := range result.Errors {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Code, e.Field, orDash(e.PreceptorID), e.Message)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(tw, "WARNING\t%s\n", warning)
	}
	return tw.Flush()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
