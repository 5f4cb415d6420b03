// Package store provides the maintenance log data model and record sources.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical column names for the maintenance log. Lookups are exact-match and
// case-sensitive across the whole system.
const (
	ColID              = "ID"
	ColMachineName     = "Machine Name"
	ColIssue           = "Issue Description"
	ColRootCause       = "Root Cause"
	ColSolution        = "Solution Applied"
	ColTechnician      = "Technician Name"
	ColRepairDate      = "Date of Repair"
	ColTimeTaken       = "Time Taken (in hours)"
	ColProductionLoss  = "Production Loss (%)"
	ColAdditionalNotes = "Additional Notes"
)

// columnAliases maps misspelled headers observed in real feeds to the
// canonical schema. Hitting an alias is a data-quality deviation and is
// reported, not silently accepted.
var columnAliases = map[string]string{
	"Production Loss ()":     ColProductionLoss,
	"Additional Note's":      ColAdditionalNotes,
	"Additional Information": ColAdditionalNotes,
}

// DateLayoutCanonical is the documented repair date format (%m/%d/%Y).
const DateLayoutCanonical = "01/02/2006"

// DateLayoutFallback is accepted for older feeds (%Y-%m-%d) and flagged.
const DateLayoutFallback = "2006-01-02"

// DefaultDateLayouts lists the accepted repair date layouts, canonical first.
var DefaultDateLayouts = []string{DateLayoutCanonical, DateLayoutFallback}

// Record is one maintenance log entry. MachineID groups repair events; it is
// not unique per Record.
type Record struct {
	MachineID        string
	MachineName      string
	IssueDescription string
	RootCause        string
	SolutionApplied  string
	TechnicianName   string

	// RepairDate is the parsed repair date; valid only when RepairDateValid.
	RepairDate      time.Time
	RepairDateRaw   string
	RepairDateValid bool

	// Numeric columns are kept raw; aggregation parses them tolerantly.
	TimeTakenRaw      string
	ProductionLossRaw string

	AdditionalNotes string
}

// TimeTakenHours parses the repair time column. An empty value contributes
// zero and is not an error; a non-numeric value returns ok=false so callers
// can skip it with a warning.
func (r Record) TimeTakenHours() (float64, bool) {
	return parseTolerantFloat(r.TimeTakenRaw)
}

// ProductionLoss parses the production loss column, stripping a trailing
// percent sign. Same tolerance contract as TimeTakenHours.
func (r Record) ProductionLoss() (float64, bool) {
	s := strings.ReplaceAll(r.ProductionLossRaw, "%", "")
	return parseTolerantFloat(s)
}

func parseTolerantFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FromRow builds a Record from a raw column map. It never fails: malformed
// values are carried through and any schema deviations (alias headers,
// fallback or unparseable dates) are returned as warnings for the operator
// log.
func FromRow(row map[string]string, dateLayouts []string) (Record, []string) {
	var warnings []string

	get := func(col string) string {
		if v, ok := row[col]; ok {
			return strings.TrimSpace(v)
		}
		for alias, canonical := range columnAliases {
			if canonical != col {
				continue
			}
			if v, ok := row[alias]; ok {
				warnings = append(warnings, fmt.Sprintf("column %q read via deviant header %q", col, alias))
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	rec := Record{
		MachineID:         strings.ToUpper(get(ColID)),
		MachineName:       get(ColMachineName),
		IssueDescription:  get(ColIssue),
		RootCause:         get(ColRootCause),
		SolutionApplied:   get(ColSolution),
		TechnicianName:    get(ColTechnician),
		RepairDateRaw:     get(ColRepairDate),
		TimeTakenRaw:      get(ColTimeTaken),
		ProductionLossRaw: get(ColProductionLoss),
		AdditionalNotes:   get(ColAdditionalNotes),
	}

	if len(dateLayouts) == 0 {
		dateLayouts = DefaultDateLayouts
	}

	if rec.RepairDateRaw != "" {
		for i, layout := range dateLayouts {
			t, err := time.Parse(layout, rec.RepairDateRaw)
			if err != nil {
				continue
			}
			rec.RepairDate = t
			rec.RepairDateValid = true
			if i > 0 {
				warnings = append(warnings, fmt.Sprintf("repair date %q parsed with fallback layout %q", rec.RepairDateRaw, layout))
			}
			break
		}
		if !rec.RepairDateValid {
			warnings = append(warnings, fmt.Sprintf("repair date %q matches no accepted layout", rec.RepairDateRaw))
		}
	}

	return rec, warnings
}

// CanonicalColumns returns the canonical header set in sheet order.
func CanonicalColumns() []string {
	return []string{
		ColID,
		ColMachineName,
		ColIssue,
		ColRootCause,
		ColSolution,
		ColTechnician,
		ColRepairDate,
		ColTimeTaken,
		ColProductionLoss,
		ColAdditionalNotes,
	}
}
