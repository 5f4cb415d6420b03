package query

import "strings"

// rule matches a normalized query against any of its triggers. guard is
// consulted after a trigger hit so rules can require an extracted entity.
type rule struct {
	intent   Intent
	column   Column
	triggers []string
	guard    func(ents Entities) bool
}

// RuleClassifier matches queries with an ordered keyword table. The first
// rule whose trigger appears in the normalized query wins, so broader
// triggers sit below more specific ones.
type RuleClassifier struct {
	rules []rule
}

// NewRuleClassifier builds the classifier with the default rule table.
func NewRuleClassifier() *RuleClassifier {
	hasMachine := func(ents Entities) bool {
		return ents.MachineID != "" || ents.MachineName != ""
	}
	hasIssue := func(ents Entities) bool { return ents.IssuePhrase != "" }
	hasTechnician := func(ents Entities) bool { return ents.Technician != "" }

	return &RuleClassifier{rules: []rule{
		{
			intent: IntentTotals,
			triggers: []string{
				"total production loss",
				"total repair time",
				"overall production loss",
				"production loss and repair time",
			},
		},
		{
			intent:   IntentTotals,
			triggers: []string{"production loss", "hours taken"},
			guard:    hasIssue,
		},
		{
			intent: IntentHighestRepairTime,
			triggers: []string{
				"highest repair time",
				"longest repair time",
				"most time to repair",
				"took the longest",
			},
		},
		{
			intent:   IntentRepairTimeLookup,
			triggers: []string{"how long", "how many hours", "repair time for"},
			guard:    hasMachine,
		},
		{
			intent: IntentCountRepairsForMachine,
			triggers: []string{
				"how many times",
				"how many repairs",
				"number of repairs",
			},
			guard: hasMachine,
		},
		{
			intent: IntentCountMachines,
			triggers: []string{
				"how many machines",
				"how many cnc",
				"how many lathe",
				"how many milling",
				"how many grinding",
				"how many drilling",
				"number of machines",
				"count of machines",
			},
		},
		{
			intent: IntentMachinesByTechnician,
			triggers: []string{
				"machines repaired by",
				"machines did",
				"machines has",
				"which machines",
				"what machines",
			},
			guard: hasTechnician,
		},
		{
			intent: IntentTopTechnician,
			triggers: []string{
				"most repairs",
				"repaired the most",
				"busiest technician",
				"top technician",
			},
		},
		{
			intent: IntentMostRepeatedIssue,
			triggers: []string{
				"most repeated issue",
				"most common issue",
				"most frequent issue",
				"most recurring issue",
			},
		},
		{
			intent: IntentLastRepairDate,
			triggers: []string{
				"last repaired",
				"last repair date",
				"when was",
				"most recent repair",
			},
			guard: hasMachine,
		},
		{
			intent:   IntentIssueRootCause,
			triggers: []string{"root cause of", "cause of", "why does", "why did"},
			guard:    hasIssue,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnTechnician,
			triggers: []string{"who repaired", "which technician", "technician name", "who fixed"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnRootCause,
			triggers: []string{"root cause"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnSolution,
			triggers: []string{"solution applied", "what solution", "how was it fixed", "how was it resolved"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnDate,
			triggers: []string{"date of repair", "repair date", "what date"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnTime,
			triggers: []string{"time taken", "hours taken"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnProductionLoss,
			triggers: []string{"production loss"},
			guard:    hasMachine,
		},
		{
			intent:   IntentColumnLookup,
			column:   ColumnIssue,
			triggers: []string{"what issue", "which issue", "issue with", "problem with", "what happened"},
			guard:    hasMachine,
		},
		{
			intent: IntentLatestInfo,
			triggers: []string{
				"latest info",
				"latest information",
				"latest repair",
				"latest status",
				"tell me about",
			},
			guard: hasMachine,
		},
	}}
}

// Classify normalizes the query, runs entity extraction when the caller has
// not, and walks the rule table in order. Queries matching no rule come back
// as general_query with zero confidence.
func (c *RuleClassifier) Classify(raw string, ents Entities) (Classification, error) {
	q := Normalize(raw)
	for _, r := range c.rules {
		trigger, ok := matchTrigger(q, r.triggers)
		if !ok {
			continue
		}
		if r.guard != nil && !r.guard(ents) {
			continue
		}
		return Classification{
			Intent:     r.intent,
			Column:     r.column,
			Confidence: 1,
			Trigger:    trigger,
		}, nil
	}
	// A bare machine reference with no other cue reads as a status request.
	if ents.MachineID != "" || ents.MachineName != "" {
		return Classification{Intent: IntentLatestInfo, Confidence: 1, Trigger: "machine reference"}, nil
	}
	return Classification{Intent: IntentGeneralQuery}, nil
}

func matchTrigger(q string, triggers []string) (string, bool) {
	for _, t := range triggers {
		if strings.Contains(q, t) {
			return t, true
		}
	}
	return "", false
}
