package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, question string) Classification {
	t.Helper()
	v := DefaultVocabulary()
	cls, err := NewRuleClassifier().Classify(question, v.ExtractAll(question))
	require.NoError(t, err)
	return cls
}

func TestRuleClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		intent   Intent
		column   Column
	}{
		{
			name:     "latest info by id",
			question: "Tell me about MM001",
			intent:   IntentLatestInfo,
		},
		{
			name:     "bare machine reference",
			question: "MM005",
			intent:   IntentLatestInfo,
		},
		{
			name:     "technician lookup",
			question: "Who repaired MM003?",
			intent:   IntentColumnLookup,
			column:   ColumnTechnician,
		},
		{
			name:     "root cause lookup for machine",
			question: "What is the root cause for MM002?",
			intent:   IntentColumnLookup,
			column:   ColumnRootCause,
		},
		{
			name:     "production loss lookup",
			question: "Production loss of MM004",
			intent:   IntentColumnLookup,
			column:   ColumnProductionLoss,
		},
		{
			name:     "most repeated issue",
			question: "What is the most common issue?",
			intent:   IntentMostRepeatedIssue,
		},
		{
			name:     "count machines",
			question: "How many CNC machines are there?",
			intent:   IntentCountMachines,
		},
		{
			name:     "machines by technician",
			question: "Which machines did Rajesh repair?",
			intent:   IntentMachinesByTechnician,
		},
		{
			name:     "totals",
			question: "What is the total production loss and repair time?",
			intent:   IntentTotals,
		},
		{
			name:     "totals scoped to issue",
			question: "What is the production loss due to bearing failure?",
			intent:   IntentTotals,
		},
		{
			name:     "issue root cause",
			question: "What is the cause of bearing failure?",
			intent:   IntentIssueRootCause,
		},
		{
			name:     "count repairs for machine",
			question: "How many times was MM001 repaired?",
			intent:   IntentCountRepairsForMachine,
		},
		{
			name:     "last repair date",
			question: "When was MM002 last repaired?",
			intent:   IntentLastRepairDate,
		},
		{
			name:     "repair time lookup",
			question: "How long did the repair on MM003 take?",
			intent:   IntentRepairTimeLookup,
		},
		{
			name:     "highest repair time",
			question: "Which machine has the highest repair time?",
			intent:   IntentHighestRepairTime,
		},
		{
			name:     "top technician",
			question: "Which technician did the most repairs?",
			intent:   IntentTopTechnician,
		},
		{
			name:     "no rule matches",
			question: "My coolant pump is making a strange noise",
			intent:   IntentGeneralQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cls := classify(t, tc.question)
			assert.Equal(t, tc.intent, cls.Intent, "question: %s", tc.question)
			if tc.column != "" {
				assert.Equal(t, tc.column, cls.Column)
			}
		})
	}
}

func TestRuleClassifier_Precedence(t *testing.T) {
	// "total production loss" must not be mistaken for a per-machine
	// production loss lookup even with a machine ID present.
	cls := classify(t, "What is the total production loss for MM001?")
	assert.Equal(t, IntentTotals, cls.Intent)

	// A guard failure falls through to later rules instead of aborting.
	cls = classify(t, "Which machines broke down the most?")
	assert.NotEqual(t, IntentMachinesByTechnician, cls.Intent)
}

func TestRuleClassifier_ConfidenceAndTrigger(t *testing.T) {
	cls := classify(t, "Who repaired MM003?")
	assert.Equal(t, 1.0, cls.Confidence)
	assert.Equal(t, "who repaired", cls.Trigger)

	cls = classify(t, "completely unrelated question about weather")
	assert.Equal(t, IntentGeneralQuery, cls.Intent)
	assert.Zero(t, cls.Confidence)
}
