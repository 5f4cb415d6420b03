package engine

import (
	"fmt"
	"strings"

	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// Formatter renders operation results as plain text suitable for the CLI
// and the API alike.
type Formatter struct{}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// LatestInfo renders the full newest record for a machine.
func (Formatter) LatestInfo(r LatestInfoResult) string {
	rec := r.Record
	var b strings.Builder
	fmt.Fprintf(&b, "Latest repair for %s (%s):\n", rec.MachineID, rec.MachineName)
	fmt.Fprintf(&b, "  Issue: %s\n", rec.IssueDescription)
	fmt.Fprintf(&b, "  Root cause: %s\n", rec.RootCause)
	fmt.Fprintf(&b, "  Solution: %s\n", rec.SolutionApplied)
	fmt.Fprintf(&b, "  Technician: %s\n", rec.TechnicianName)
	fmt.Fprintf(&b, "  Date: %s\n", rec.RepairDateRaw)
	fmt.Fprintf(&b, "  Time taken: %s hours\n", rec.TimeTakenRaw)
	fmt.Fprintf(&b, "  Production loss: %s%%", rec.ProductionLossRaw)
	if rec.AdditionalNotes != "" {
		fmt.Fprintf(&b, "\n  Notes: %s", rec.AdditionalNotes)
	}
	return b.String()
}

// ColumnLookup renders one column's values for a machine.
func (Formatter) ColumnLookup(r ColumnValues) string {
	label := strings.ReplaceAll(r.Column, "_", " ")
	if len(r.Values) == 0 {
		return fmt.Sprintf("No %s recorded for %s.", label, r.MachineID)
	}
	if len(r.Values) == 1 {
		return fmt.Sprintf("The %s for %s is %s.", label, r.MachineID, r.Values[0])
	}
	return fmt.Sprintf("The %s for %s: %s.", label, r.MachineID, strings.Join(r.Values, ", "))
}

// MostRepeatedIssue renders the issue summaries, noting ties.
func (Formatter) MostRepeatedIssue(summaries []IssueSummary) string {
	var b strings.Builder
	if len(summaries) > 1 {
		fmt.Fprintf(&b, "%d issues are tied as the most repeated:\n", len(summaries))
	}
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Most repeated issue: %s (%d occurrences)\n", s.Issue, s.Count)
		fmt.Fprintf(&b, "  Affected machines: %s\n", joinOr(s.AffectedMachines, "none recorded"))
		fmt.Fprintf(&b, "  Root causes: %s\n", joinOr(s.RootCauses, "none recorded"))
		fmt.Fprintf(&b, "  Solutions: %s\n", joinOr(s.Solutions, "none recorded"))
		fmt.Fprintf(&b, "  Total production loss: %.1f%%\n", s.TotalProductionLoss)
		fmt.Fprintf(&b, "  Total repair time: %.1f hours", s.TotalRepairTime)
		if s.SkippedValues > 0 {
			fmt.Fprintf(&b, "\n  (%d unreadable values skipped)", s.SkippedValues)
		}
	}
	return b.String()
}

// CountMachines renders a machine count.
func (Formatter) CountMachines(r CountResult) string {
	noun := "machines"
	if r.Subject != "" && r.Subject != "machines" {
		if strings.HasSuffix(r.Subject, " machine") {
			noun = r.Subject + "s"
		} else {
			noun = r.Subject + " machines"
		}
	}
	if r.Count == 1 {
		return fmt.Sprintf("There is 1 %s in the log.", strings.TrimSuffix(noun, "s"))
	}
	return fmt.Sprintf("There are %d %s in the log.", r.Count, noun)
}

// MachinesByTechnician renders each of a technician's repairs in record order.
func (Formatter) MachinesByTechnician(r TechnicianRepairs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Machines repaired by %s (%d repairs):", r.Technician, r.RepairCount)
	for _, d := range r.Repairs {
		fmt.Fprintf(&b, "\n  %s: %s (solution: %s)", d.MachineName, d.Issue, d.Solution)
	}
	return b.String()
}

// Totals renders summed production loss and repair time.
func (Formatter) Totals(r Totals) string {
	scope := "across all machines"
	switch r.ScopeKind {
	case ScopeMachine:
		scope = "for " + r.Scope
	case ScopeIssue:
		scope = "due to " + r.Scope
	}
	s := fmt.Sprintf("Total production loss %s is %.1f%% and total repair time is %.1f hours (%d repairs).",
		scope, r.ProductionLoss, r.RepairTime, r.RecordCount)
	if r.SkippedValues > 0 {
		s += fmt.Sprintf(" %d unreadable values were skipped.", r.SkippedValues)
	}
	return s
}

// IssueRootCause renders the machines, causes and fixes recorded for an issue.
func (Formatter) IssueRootCause(r RootCauseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For %q (%d occurrences):\n", r.Issue, r.Count)
	fmt.Fprintf(&b, "  Affected machines: %s\n", joinOr(r.AffectedMachines, "none recorded"))
	fmt.Fprintf(&b, "  Root causes: %s\n", joinOr(r.RootCauses, "none recorded"))
	fmt.Fprintf(&b, "  Solutions: %s", joinOr(r.Solutions, "none recorded"))
	return b.String()
}

// CountRepairs renders a repair count for one machine.
func (Formatter) CountRepairs(r CountResult) string {
	if r.Count == 1 {
		return fmt.Sprintf("%s was repaired once.", r.Subject)
	}
	return fmt.Sprintf("%s was repaired %d times.", r.Subject, r.Count)
}

// LastRepairDate renders the most recent repair date.
func (Formatter) LastRepairDate(r DateResult) string {
	return fmt.Sprintf("%s was last repaired on %s.", r.MachineID, r.Raw)
}

// RepairTime renders the durations logged for a machine.
func (Formatter) RepairTime(r RepairTimeResult) string {
	if len(r.Hours) == 0 {
		return fmt.Sprintf("No readable repair times recorded for %s.", r.MachineID)
	}
	if len(r.Hours) == 1 {
		return fmt.Sprintf("The repair on %s took %.1f hours.", r.MachineID, r.Hours[0])
	}
	parts := make([]string, len(r.Hours))
	for i, h := range r.Hours {
		parts[i] = fmt.Sprintf("%.1f", h)
	}
	return fmt.Sprintf("Repairs on %s took %s hours (%.1f total).", r.MachineID, strings.Join(parts, ", "), r.TotalHours)
}

// HighestRepairTime renders the machine with the largest summed repair time.
func (Formatter) HighestRepairTime(r MachineRepairTime) string {
	return fmt.Sprintf("%s has the highest repair time at %.1f hours.", r.MachineID, r.TotalHours)
}

// TopTechnicians renders the technicians tied at the highest repair count.
func (Formatter) TopTechnicians(rs []TechnicianRepairs) string {
	if len(rs) == 1 {
		t := rs[0]
		return fmt.Sprintf("%s did the most repairs (%d), covering %s.",
			t.Technician, t.RepairCount, joinOr(t.MachineIDs, "no recorded machines"))
	}
	names := make([]string, len(rs))
	for i, t := range rs {
		names[i] = t.Technician
	}
	return fmt.Sprintf("%s are tied for the most repairs with %d each.",
		strings.Join(names, " and "), rs[0].RepairCount)
}

// FallbackMatch renders a record found by similarity search.
func (f Formatter) FallbackMatch(m FallbackMatch) string {
	rec := m.Record
	var b strings.Builder
	fmt.Fprintf(&b, "Closest logged issue: %s (machine %s)\n", rec.IssueDescription, rec.MachineID)
	fmt.Fprintf(&b, "  Root cause: %s\n", rec.RootCause)
	fmt.Fprintf(&b, "  Solution: %s", rec.SolutionApplied)
	return b.String()
}

// Record renders one raw record on a single line for listings.
func (Formatter) Record(rec store.Record) string {
	return fmt.Sprintf("%s | %s | %s | %s | %s",
		rec.MachineID, rec.MachineName, rec.IssueDescription, rec.TechnicianName, rec.RepairDateRaw)
}
