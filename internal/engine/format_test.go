package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_ColumnLookup(t *testing.T) {
	var f Formatter

	single := f.ColumnLookup(ColumnValues{MachineID: "MM001", Column: "technician", Values: []string{"Rajesh"}})
	assert.Equal(t, "The technician for MM001 is Rajesh.", single)

	multi := f.ColumnLookup(ColumnValues{MachineID: "MM001", Column: "root_cause", Values: []string{"Coolant blockage", "Worn bearing"}})
	assert.Contains(t, multi, "root cause")
	assert.Contains(t, multi, "Coolant blockage, Worn bearing")

	empty := f.ColumnLookup(ColumnValues{MachineID: "MM001", Column: "issue"})
	assert.Contains(t, empty, "No issue recorded")
}

func TestFormatter_MostRepeatedIssue_Tie(t *testing.T) {
	var f Formatter

	out := f.MostRepeatedIssue([]IssueSummary{
		{Issue: "Bearing Failure", Count: 2, AffectedMachines: []string{"CNC Machine"}},
		{Issue: "Spindle Overheating", Count: 2, SkippedValues: 1},
	})
	assert.Contains(t, out, "2 issues are tied")
	assert.Contains(t, out, "Bearing Failure")
	assert.Contains(t, out, "Spindle Overheating")
	assert.Contains(t, out, "1 unreadable values skipped")
}

func TestFormatter_Counts(t *testing.T) {
	var f Formatter

	assert.Equal(t, "There are 2 cnc machines in the log.", f.CountMachines(CountResult{Subject: "cnc machine", Count: 2}))
	assert.Equal(t, "MM001 was repaired once.", f.CountRepairs(CountResult{Subject: "MM001", Count: 1}))
	assert.Equal(t, "MM001 was repaired 3 times.", f.CountRepairs(CountResult{Subject: "MM001", Count: 3}))
}

func TestFormatter_Totals(t *testing.T) {
	var f Formatter

	out := f.Totals(Totals{ProductionLoss: 12, RepairTime: 6.5, RecordCount: 2, SkippedValues: 1, Scope: "MM001", ScopeKind: ScopeMachine})
	assert.Contains(t, out, "for MM001")
	assert.Contains(t, out, "12.0%")
	assert.Contains(t, out, "6.5 hours")
	assert.Contains(t, out, "1 unreadable values were skipped")

	out = f.Totals(Totals{ProductionLoss: 17, RepairTime: 5, RecordCount: 2, Scope: "bearing failure", ScopeKind: ScopeIssue})
	assert.Contains(t, out, "due to bearing failure")

	out = f.Totals(Totals{ProductionLoss: 27, RepairTime: 17, RecordCount: 5})
	assert.Contains(t, out, "across all machines")
}

func TestFormatter_MachinesByTechnician(t *testing.T) {
	var f Formatter

	out := f.MachinesByTechnician(TechnicianRepairs{
		Technician:  "rajesh",
		RepairCount: 2,
		Repairs: []RepairDetail{
			{MachineName: "CNC Machine", Issue: "Bearing Failure", Solution: "Replaced bearing"},
			{MachineName: "Lathe Machine", Issue: "Chatter Marks", Solution: "Tightened fixture"},
		},
	})
	assert.Contains(t, out, "Machines repaired by rajesh (2 repairs):")
	assert.Contains(t, out, "CNC Machine: Bearing Failure (solution: Replaced bearing)")
	assert.Contains(t, out, "Lathe Machine: Chatter Marks (solution: Tightened fixture)")
}

func TestFormatter_IssueRootCause(t *testing.T) {
	var f Formatter

	out := f.IssueRootCause(RootCauseResult{
		Issue:            "bearing failure",
		Count:            2,
		AffectedMachines: []string{"CNC Machine", "Lathe Machine"},
		RootCauses:       []string{"Worn bearing"},
	})
	assert.Contains(t, out, "Affected machines: CNC Machine, Lathe Machine")
	assert.Contains(t, out, "Root causes: Worn bearing")
}
