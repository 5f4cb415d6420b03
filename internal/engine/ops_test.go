package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeyavarman-2005/mechmate/internal/query"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

func rec(id, name, issue, cause, solution, tech, date, hours, loss string) store.Record {
	r := store.Record{
		MachineID:         id,
		MachineName:       name,
		IssueDescription:  issue,
		RootCause:         cause,
		SolutionApplied:   solution,
		TechnicianName:    tech,
		RepairDateRaw:     date,
		TimeTakenRaw:      hours,
		ProductionLossRaw: loss,
	}
	if t, err := time.Parse(store.DateLayoutCanonical, date); err == nil {
		r.RepairDate = t
		r.RepairDateValid = true
	}
	return r
}

func fixture() RecordSet {
	return RecordSet{
		rec("MM001", "CNC Machine", "Bearing Failure", "Worn bearing", "Replaced bearing", "Rajesh", "01/10/2024", "2", "12%"),
		rec("MM001", "CNC Machine", "Spindle Overheating", "Coolant blockage", "Flushed coolant lines", "Suresh", "03/05/2024", "4.5", "bad"),
		rec("MM002", "Lathe Machine", "Bearing Failure", "Misalignment", "Realigned shaft", "Rajesh", "02/20/2024", "3", "5"),
		rec("MM003", "Milling Machine", "Chatter Marks", "Loose fixture", "Tightened fixture", "Vikram", "04/01/2024", "1.5", "2"),
		rec("MM004", "CNC Machine", "Spindle Overheating", "Fan failure", "Replaced fan", "Rajesh", "05/12/2024", "6", "8"),
	}
}

func TestLatestInfo_PicksNewestRecord(t *testing.T) {
	r, err := fixture().LatestInfo("MM001", "")
	require.NoError(t, err)
	assert.Equal(t, "03/05/2024", r.Record.RepairDateRaw)
	assert.Equal(t, "Spindle Overheating", r.Record.IssueDescription)
}

func TestLatestInfo_Errors(t *testing.T) {
	_, err := fixture().LatestInfo("", "")
	var missing *MissingEntityError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "machine", missing.Entity)

	_, err = fixture().LatestInfo("MM099", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestColumnLookup(t *testing.T) {
	r, err := fixture().ColumnLookup("MM001", "", query.ColumnTechnician)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rajesh", "Suresh"}, r.Values)

	r, err = fixture().ColumnLookup("MM003", "", query.ColumnRootCause)
	require.NoError(t, err)
	assert.Equal(t, []string{"Loose fixture"}, r.Values)

	_, err = fixture().ColumnLookup("MM099", "", query.ColumnIssue)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestColumnLookup_KeepsRecordOrderAndEmptyCells(t *testing.T) {
	rs := fixture()
	rs = append(rs, rec("MM001", "CNC Machine", "Unexpected Shutdown", "", "", "Gopal", "06/01/2024", "1", "1"))

	r, err := rs.ColumnLookup("MM001", "", query.ColumnRootCause)
	require.NoError(t, err)
	assert.Equal(t, []string{"Worn bearing", "Coolant blockage", "N/A"}, r.Values)
}

func TestMostRepeatedIssue_TieReturnsAll(t *testing.T) {
	summaries, err := fixture().MostRepeatedIssue("", "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byIssue := map[string]IssueSummary{}
	for _, s := range summaries {
		byIssue[s.Issue] = s
	}

	bearing := byIssue["Bearing Failure"]
	assert.Equal(t, 2, bearing.Count)
	assert.ElementsMatch(t, []string{"CNC Machine", "Lathe Machine"}, bearing.AffectedMachines)
	assert.ElementsMatch(t, []string{"Worn bearing", "Misalignment"}, bearing.RootCauses)

	spindle := byIssue["Spindle Overheating"]
	assert.Equal(t, 2, spindle.Count)
	assert.Equal(t, 1, spindle.SkippedValues)
}

func TestMostRepeatedIssue_ScopedToMachineID(t *testing.T) {
	summaries, err := fixture().MostRepeatedIssue("MM003", "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Chatter Marks", summaries[0].Issue)
	assert.Equal(t, 1, summaries[0].Count)
	assert.Equal(t, []string{"Milling Machine"}, summaries[0].AffectedMachines)
}

func TestMostRepeatedIssue_ScopedToMachineName(t *testing.T) {
	summaries, err := fixture().MostRepeatedIssue("", "cnc machine")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Spindle Overheating", summaries[0].Issue)
	assert.Equal(t, 2, summaries[0].Count)
}

func TestMostRepeatedIssue_Empty(t *testing.T) {
	_, err := RecordSet{}.MostRepeatedIssue("", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCountMachines_CountsRecords(t *testing.T) {
	assert.Equal(t, 3, fixture().CountMachines("cnc machine").Count)
	assert.Equal(t, 5, fixture().CountMachines("").Count)
	assert.Equal(t, 0, fixture().CountMachines("boring machine").Count)
	assert.Equal(t, 0, RecordSet{}.CountMachines("cnc machine").Count)
}

func TestMachinesByTechnician(t *testing.T) {
	r, err := fixture().MachinesByTechnician("rajesh")
	require.NoError(t, err)
	assert.Equal(t, 3, r.RepairCount)
	assert.Equal(t, []string{"MM001", "MM002", "MM004"}, r.MachineIDs)
	assert.Equal(t, []RepairDetail{
		{MachineName: "CNC Machine", Issue: "Bearing Failure", Solution: "Replaced bearing"},
		{MachineName: "Lathe Machine", Issue: "Bearing Failure", Solution: "Realigned shaft"},
		{MachineName: "CNC Machine", Issue: "Spindle Overheating", Solution: "Replaced fan"},
	}, r.Repairs)

	_, err = fixture().MachinesByTechnician("unknown")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = fixture().MachinesByTechnician("")
	var missing *MissingEntityError
	assert.ErrorAs(t, err, &missing)
}

func TestTotalsFor_SkipsUnparseableValues(t *testing.T) {
	r, err := fixture().TotalsFor("", "", "MM001")
	require.NoError(t, err)
	assert.InDelta(t, 12.0, r.ProductionLoss, 1e-9)
	assert.InDelta(t, 6.5, r.RepairTime, 1e-9)
	assert.Equal(t, 1, r.SkippedValues)
	assert.Equal(t, 2, r.RecordCount)
}

func TestTotalsFor_WholeLog(t *testing.T) {
	r, err := fixture().TotalsFor("", "", "")
	require.NoError(t, err)
	assert.InDelta(t, 27.0, r.ProductionLoss, 1e-9)
	assert.InDelta(t, 17.0, r.RepairTime, 1e-9)
	assert.Equal(t, 5, r.RecordCount)
	assert.Equal(t, 1, r.SkippedValues)
}

func TestTotalsFor_IssueScope(t *testing.T) {
	r, err := fixture().TotalsFor("", "bearing failure", "")
	require.NoError(t, err)
	assert.InDelta(t, 17.0, r.ProductionLoss, 1e-9)
	assert.InDelta(t, 5.0, r.RepairTime, 1e-9)
	assert.Equal(t, 2, r.RecordCount)
	assert.Equal(t, ScopeIssue, r.ScopeKind)
	assert.Equal(t, "bearing failure", r.Scope)
}

func TestTotalsFor_MachineNameWinsOverIssueAndID(t *testing.T) {
	r, err := fixture().TotalsFor("cnc machine", "bearing failure", "MM002")
	require.NoError(t, err)
	assert.Equal(t, 3, r.RecordCount)
	assert.InDelta(t, 20.0, r.ProductionLoss, 1e-9)
	assert.InDelta(t, 12.5, r.RepairTime, 1e-9)
	assert.Equal(t, ScopeMachine, r.ScopeKind)
	assert.Equal(t, "cnc machine", r.Scope)
}

func TestIssueRootCause(t *testing.T) {
	r, err := fixture().IssueRootCause("bearing failure")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, []string{"CNC Machine", "Lathe Machine"}, r.AffectedMachines)
	assert.ElementsMatch(t, []string{"Worn bearing", "Misalignment"}, r.RootCauses)
	assert.ElementsMatch(t, []string{"Replaced bearing", "Realigned shaft"}, r.Solutions)

	_, err = fixture().IssueRootCause("phantom issue")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIssueRootCause_RequiresExactIssue(t *testing.T) {
	_, err := fixture().IssueRootCause("bearing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCountRepairsForMachine(t *testing.T) {
	r, err := fixture().CountRepairsForMachine("MM001", "")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count)

	r, err = fixture().CountRepairsForMachine("MM099", "")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Count)
}

func TestLastRepairDate(t *testing.T) {
	r, err := fixture().LastRepairDate("MM001", "")
	require.NoError(t, err)
	assert.Equal(t, "03/05/2024", r.Raw)

	rs := fixture()
	rs = append(rs, rec("MM005", "CNC Machine", "Unexpected Shutdown", "", "", "Gopal", "not a date", "1", "1"))
	_, err = rs.LastRepairDate("MM005", "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepairTimeLookup(t *testing.T) {
	r, err := fixture().RepairTimeLookup("MM001", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 2}, r.Hours)
	assert.InDelta(t, 6.5, r.TotalHours, 1e-9)
}

func TestHighestRepairTimeMachine(t *testing.T) {
	r, err := fixture().HighestRepairTimeMachine()
	require.NoError(t, err)
	assert.Equal(t, "MM001", r.MachineID)
	assert.InDelta(t, 6.5, r.TotalHours, 1e-9)

	_, err = RecordSet{}.HighestRepairTimeMachine()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTechnicianWithMostRepairs(t *testing.T) {
	rs, err := fixture().TechnicianWithMostRepairs()
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "Rajesh", rs[0].Technician)
	assert.Equal(t, 3, rs[0].RepairCount)
}

func TestTechnicianWithMostRepairs_Tie(t *testing.T) {
	rs := RecordSet{
		rec("MM001", "CNC Machine", "Bearing Failure", "", "", "Rajesh", "01/10/2024", "1", "1"),
		rec("MM002", "Lathe Machine", "Chatter Marks", "", "", "Suresh", "02/10/2024", "1", "1"),
	}
	tied, err := rs.TechnicianWithMostRepairs()
	require.NoError(t, err)
	assert.Len(t, tied, 2)
}

func TestForMachine_NameFragment(t *testing.T) {
	matched := fixture().ForMachine("", "cnc machine")
	assert.Len(t, matched, 3)
}
