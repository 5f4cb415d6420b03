package engine

import (
	"time"

	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// LatestInfoResult is the newest repair record for a machine.
type LatestInfoResult struct {
	Record store.Record
}

// ColumnValues lists the values of one column across a machine's repairs in
// record order, with N/A standing in for empty cells.
type ColumnValues struct {
	MachineID string
	Column    string
	Values    []string
}

// IssueSummary aggregates one issue across the log.
type IssueSummary struct {
	Issue               string
	Count               int
	AffectedMachines    []string
	RootCauses          []string
	Solutions           []string
	TotalProductionLoss float64
	TotalRepairTime     float64
	SkippedValues       int
}

// CountResult is a simple count with the subject it counted.
type CountResult struct {
	Subject string
	Count   int
}

// RepairDetail is one logged repair: the machine it was on, what went wrong
// and how it was fixed.
type RepairDetail struct {
	MachineName string
	Issue       string
	Solution    string
}

// TechnicianRepairs lists one technician's repairs in record order, plus the
// distinct machine IDs they cover.
type TechnicianRepairs struct {
	Technician  string
	Repairs     []RepairDetail
	MachineIDs  []string
	RepairCount int
}

// Scope kinds for Totals.
const (
	ScopeMachine = "machine"
	ScopeIssue   = "issue"
)

// Totals sums production loss and repair time, tracking skipped unparseable
// values separately. Scope names the machine or issue the sums cover; empty
// means the whole log.
type Totals struct {
	ProductionLoss float64
	RepairTime     float64
	RecordCount    int
	SkippedValues  int
	Scope          string
	ScopeKind      string
}

// RootCauseResult pairs an issue with the machines, causes and fixes seen
// for it.
type RootCauseResult struct {
	Issue            string
	AffectedMachines []string
	RootCauses       []string
	Solutions        []string
	Count            int
}

// DateResult is the outcome of a last-repair-date lookup.
type DateResult struct {
	MachineID string
	Date      time.Time
	Raw       string
}

// RepairTimeResult lists repair durations for a machine with their sum.
type RepairTimeResult struct {
	MachineID  string
	Hours      []float64
	TotalHours float64
	Skipped    int
}

// MachineRepairTime ranks a machine by its summed repair hours.
type MachineRepairTime struct {
	MachineID  string
	TotalHours float64
}

// FallbackMatch is a record selected by embedding similarity.
type FallbackMatch struct {
	Record store.Record
	Score  float64
}
