package engine

import (
	"sort"
	"strings"

	"github.com/Jeyavarman-2005/mechmate/internal/query"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// RecordSet is an in-memory view of the maintenance log that the retrieval
// operations run against.
type RecordSet []store.Record

// ForMachine filters to records matching a machine ID or a machine name
// fragment. ID match wins when both are present.
func (rs RecordSet) ForMachine(machineID, machineName string) RecordSet {
	var out RecordSet
	for _, r := range rs {
		if machineID != "" {
			if strings.EqualFold(r.MachineID, machineID) {
				out = append(out, r)
			}
			continue
		}
		if machineName != "" && strings.Contains(query.Normalize(r.MachineName), query.Normalize(machineName)) {
			out = append(out, r)
		}
	}
	return out
}

// byMachineName filters to records whose machine name equals the given name,
// case-insensitively.
func (rs RecordSet) byMachineName(name string) RecordSet {
	want := query.Normalize(name)
	var out RecordSet
	for _, r := range rs {
		if query.Normalize(r.MachineName) == want {
			out = append(out, r)
		}
	}
	return out
}

// byIssue filters to records whose issue description equals the given phrase,
// case-insensitively.
func (rs RecordSet) byIssue(issue string) RecordSet {
	want := query.Normalize(issue)
	var out RecordSet
	for _, r := range rs {
		if query.Normalize(r.IssueDescription) == want {
			out = append(out, r)
		}
	}
	return out
}

// sortedNewestFirst returns a copy ordered by repair date descending.
// Records with unparseable dates sort last, keeping their input order.
func (rs RecordSet) sortedNewestFirst() RecordSet {
	out := make(RecordSet, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RepairDateValid != out[j].RepairDateValid {
			return out[i].RepairDateValid
		}
		return out[i].RepairDate.After(out[j].RepairDate)
	})
	return out
}

// LatestInfo returns the newest repair record for the named machine.
func (rs RecordSet) LatestInfo(machineID, machineName string) (LatestInfoResult, error) {
	if machineID == "" && machineName == "" {
		return LatestInfoResult{}, &MissingEntityError{Entity: "machine"}
	}
	matched := rs.ForMachine(machineID, machineName).sortedNewestFirst()
	if len(matched) == 0 {
		return LatestInfoResult{}, ErrNotFound
	}
	return LatestInfoResult{Record: matched[0]}, nil
}

// ColumnLookup lists one column's values for a machine in record order.
// Empty cells come back as "N/A" so positions still line up with repairs.
func (rs RecordSet) ColumnLookup(machineID, machineName string, col query.Column) (ColumnValues, error) {
	if machineID == "" && machineName == "" {
		return ColumnValues{}, &MissingEntityError{Entity: "machine"}
	}
	matched := rs.ForMachine(machineID, machineName)
	if len(matched) == 0 {
		return ColumnValues{}, ErrNotFound
	}
	out := ColumnValues{MachineID: matched[0].MachineID, Column: string(col)}
	for _, r := range matched {
		var v string
		switch col {
		case query.ColumnTechnician:
			v = r.TechnicianName
		case query.ColumnIssue:
			v = r.IssueDescription
		case query.ColumnRootCause:
			v = r.RootCause
		case query.ColumnSolution:
			v = r.SolutionApplied
		case query.ColumnDate:
			v = r.RepairDateRaw
		case query.ColumnTime:
			v = r.TimeTakenRaw
		case query.ColumnProductionLoss:
			v = r.ProductionLossRaw
		}
		if v == "" {
			v = "N/A"
		}
		out.Values = append(out.Values, v)
	}
	return out, nil
}

// MostRepeatedIssue finds the issue with the highest occurrence count within
// the named machine's records, or the whole log when no machine is given.
// A machine ID wins over a machine name. All issues tied at the maximum come
// back, each with its own aggregation.
func (rs RecordSet) MostRepeatedIssue(machineID, machineName string) ([]IssueSummary, error) {
	scope := rs
	switch {
	case machineID != "":
		scope = rs.ForMachine(machineID, "")
	case machineName != "":
		scope = rs.byMachineName(machineName)
	}
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, r := range scope {
		key := query.Normalize(r.IssueDescription)
		if key == "" {
			continue
		}
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = r.IssueDescription
		}
	}
	if len(counts) == 0 {
		return nil, ErrNotFound
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	var keys []string
	for k, n := range counts {
		if n == max {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	summaries := make([]IssueSummary, 0, len(keys))
	for _, key := range keys {
		s := IssueSummary{Issue: display[key], Count: counts[key]}
		seenMachine := make(map[string]bool)
		seenCause := make(map[string]bool)
		seenSolution := make(map[string]bool)
		for _, r := range scope {
			if query.Normalize(r.IssueDescription) != key {
				continue
			}
			if r.MachineName != "" && !seenMachine[r.MachineName] {
				seenMachine[r.MachineName] = true
				s.AffectedMachines = append(s.AffectedMachines, r.MachineName)
			}
			if r.RootCause != "" && !seenCause[r.RootCause] {
				seenCause[r.RootCause] = true
				s.RootCauses = append(s.RootCauses, r.RootCause)
			}
			if r.SolutionApplied != "" && !seenSolution[r.SolutionApplied] {
				seenSolution[r.SolutionApplied] = true
				s.Solutions = append(s.Solutions, r.SolutionApplied)
			}
			if v, ok := r.ProductionLoss(); ok {
				s.TotalProductionLoss += v
			} else {
				s.SkippedValues++
			}
			if v, ok := r.TimeTakenHours(); ok {
				s.TotalRepairTime += v
			} else {
				s.SkippedValues++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// CountMachines counts log records whose machine name equals the given name,
// case-insensitively. An empty name counts every record in the log.
func (rs RecordSet) CountMachines(machineName string) CountResult {
	want := query.Normalize(machineName)
	count := 0
	for _, r := range rs {
		if want == "" || query.Normalize(r.MachineName) == want {
			count++
		}
	}
	subject := machineName
	if subject == "" {
		subject = "machines"
	}
	return CountResult{Subject: subject, Count: count}
}

// MachinesByTechnician lists every repair a technician performed, in record
// order, keeping the machine, issue and solution of each.
func (rs RecordSet) MachinesByTechnician(technician string) (TechnicianRepairs, error) {
	if technician == "" {
		return TechnicianRepairs{}, &MissingEntityError{Entity: "technician"}
	}
	tech := query.Normalize(technician)
	out := TechnicianRepairs{Technician: technician}
	seen := make(map[string]bool)
	for _, r := range rs {
		if !strings.Contains(query.Normalize(r.TechnicianName), tech) {
			continue
		}
		out.RepairCount++
		out.Repairs = append(out.Repairs, RepairDetail{
			MachineName: r.MachineName,
			Issue:       r.IssueDescription,
			Solution:    r.SolutionApplied,
		})
		if r.MachineID != "" && !seen[r.MachineID] {
			seen[r.MachineID] = true
			out.MachineIDs = append(out.MachineIDs, r.MachineID)
		}
	}
	if out.RepairCount == 0 {
		return TechnicianRepairs{}, ErrNotFound
	}
	sort.Strings(out.MachineIDs)
	return out, nil
}

// TotalsFor sums production loss and repair time. A machine name scopes the
// totals to that machine type, else an issue phrase scopes them to that
// issue, else a machine ID scopes them to one machine, else the whole log.
// Unparseable values are skipped and counted.
func (rs RecordSet) TotalsFor(machineName, issuePhrase, machineID string) (Totals, error) {
	scope := rs
	var t Totals
	switch {
	case machineName != "":
		scope = rs.byMachineName(machineName)
		t.Scope, t.ScopeKind = machineName, ScopeMachine
	case issuePhrase != "":
		scope = rs.byIssue(issuePhrase)
		t.Scope, t.ScopeKind = issuePhrase, ScopeIssue
	case machineID != "":
		scope = rs.ForMachine(machineID, "")
		t.Scope, t.ScopeKind = machineID, ScopeMachine
	}
	if t.Scope != "" && len(scope) == 0 {
		return Totals{}, ErrNotFound
	}
	t.RecordCount = len(scope)
	for _, r := range scope {
		if v, ok := r.ProductionLoss(); ok {
			t.ProductionLoss += v
		} else {
			t.SkippedValues++
		}
		if v, ok := r.TimeTakenHours(); ok {
			t.RepairTime += v
		} else {
			t.SkippedValues++
		}
	}
	return t, nil
}

// IssueRootCause collects the root causes, solutions and affected machines
// recorded for an issue. The phrase must equal the logged issue description,
// case-insensitively.
func (rs RecordSet) IssueRootCause(issuePhrase string) (RootCauseResult, error) {
	if issuePhrase == "" {
		return RootCauseResult{}, &MissingEntityError{Entity: "issue"}
	}
	out := RootCauseResult{Issue: issuePhrase}
	seenMachine := make(map[string]bool)
	seenCause := make(map[string]bool)
	seenSolution := make(map[string]bool)
	for _, r := range rs.byIssue(issuePhrase) {
		out.Count++
		if r.MachineName != "" && !seenMachine[r.MachineName] {
			seenMachine[r.MachineName] = true
			out.AffectedMachines = append(out.AffectedMachines, r.MachineName)
		}
		if r.RootCause != "" && !seenCause[r.RootCause] {
			seenCause[r.RootCause] = true
			out.RootCauses = append(out.RootCauses, r.RootCause)
		}
		if r.SolutionApplied != "" && !seenSolution[r.SolutionApplied] {
			seenSolution[r.SolutionApplied] = true
			out.Solutions = append(out.Solutions, r.SolutionApplied)
		}
	}
	if out.Count == 0 {
		return RootCauseResult{}, ErrNotFound
	}
	return out, nil
}

// CountRepairsForMachine counts the log entries for one machine.
func (rs RecordSet) CountRepairsForMachine(machineID, machineName string) (CountResult, error) {
	if machineID == "" && machineName == "" {
		return CountResult{}, &MissingEntityError{Entity: "machine"}
	}
	matched := rs.ForMachine(machineID, machineName)
	subject := machineID
	if subject == "" {
		subject = machineName
	}
	if len(matched) > 0 && matched[0].MachineID != "" {
		subject = matched[0].MachineID
	}
	return CountResult{Subject: subject, Count: len(matched)}, nil
}

// LastRepairDate returns the most recent valid repair date for a machine.
func (rs RecordSet) LastRepairDate(machineID, machineName string) (DateResult, error) {
	if machineID == "" && machineName == "" {
		return DateResult{}, &MissingEntityError{Entity: "machine"}
	}
	matched := rs.ForMachine(machineID, machineName)
	if len(matched) == 0 {
		return DateResult{}, ErrNotFound
	}
	var best *store.Record
	for i := range matched {
		r := &matched[i]
		if !r.RepairDateValid {
			continue
		}
		if best == nil || r.RepairDate.After(best.RepairDate) {
			best = r
		}
	}
	if best == nil {
		return DateResult{}, ErrNotFound
	}
	return DateResult{MachineID: best.MachineID, Date: best.RepairDate, Raw: best.RepairDateRaw}, nil
}

// RepairTimeLookup lists repair durations for a machine, newest first.
func (rs RecordSet) RepairTimeLookup(machineID, machineName string) (RepairTimeResult, error) {
	if machineID == "" && machineName == "" {
		return RepairTimeResult{}, &MissingEntityError{Entity: "machine"}
	}
	matched := rs.ForMachine(machineID, machineName).sortedNewestFirst()
	if len(matched) == 0 {
		return RepairTimeResult{}, ErrNotFound
	}
	out := RepairTimeResult{MachineID: matched[0].MachineID}
	for _, r := range matched {
		v, ok := r.TimeTakenHours()
		if !ok {
			out.Skipped++
			continue
		}
		out.Hours = append(out.Hours, v)
		out.TotalHours += v
	}
	return out, nil
}

// HighestRepairTimeMachine ranks machines by summed repair hours and returns
// the top one.
func (rs RecordSet) HighestRepairTimeMachine() (MachineRepairTime, error) {
	totals := make(map[string]float64)
	for _, r := range rs {
		if r.MachineID == "" {
			continue
		}
		if v, ok := r.TimeTakenHours(); ok {
			totals[r.MachineID] += v
		}
	}
	if len(totals) == 0 {
		return MachineRepairTime{}, ErrNotFound
	}
	var best MachineRepairTime
	for id, hours := range totals {
		if hours > best.TotalHours || (hours == best.TotalHours && (best.MachineID == "" || id < best.MachineID)) {
			best = MachineRepairTime{MachineID: id, TotalHours: hours}
		}
	}
	return best, nil
}

// TechnicianWithMostRepairs returns every technician tied at the highest
// repair count.
func (rs RecordSet) TechnicianWithMostRepairs() ([]TechnicianRepairs, error) {
	counts := make(map[string]*TechnicianRepairs)
	machines := make(map[string]map[string]bool)
	var order []string
	for _, r := range rs {
		name := strings.TrimSpace(r.TechnicianName)
		if name == "" {
			continue
		}
		key := query.Normalize(name)
		t, ok := counts[key]
		if !ok {
			t = &TechnicianRepairs{Technician: name}
			counts[key] = t
			machines[key] = make(map[string]bool)
			order = append(order, key)
		}
		t.RepairCount++
		if r.MachineID != "" && !machines[key][r.MachineID] {
			machines[key][r.MachineID] = true
			t.MachineIDs = append(t.MachineIDs, r.MachineID)
		}
	}
	if len(counts) == 0 {
		return nil, ErrNotFound
	}
	max := 0
	for _, t := range counts {
		if t.RepairCount > max {
			max = t.RepairCount
		}
	}
	var out []TechnicianRepairs
	for _, key := range order {
		if counts[key].RepairCount == max {
			sort.Strings(counts[key].MachineIDs)
			out = append(out, *counts[key])
		}
	}
	return out, nil
}
