package query

// Intent is the classified purpose of a user query.
type Intent string

// Closed intent enumeration.
const (
	IntentLatestInfo             Intent = "latest_info"
	IntentColumnLookup           Intent = "column_lookup"
	IntentMostRepeatedIssue      Intent = "most_repeated_issue"
	IntentCountMachines          Intent = "count_machines"
	IntentMachinesByTechnician   Intent = "machines_by_technician"
	IntentTotals                 Intent = "total_production_loss_and_repair_time"
	IntentIssueRootCause         Intent = "issue_root_cause_lookup"
	IntentCountRepairsForMachine Intent = "count_repairs_for_machine"
	IntentLastRepairDate         Intent = "last_repair_date"
	IntentRepairTimeLookup       Intent = "repair_time_lookup"
	IntentHighestRepairTime      Intent = "highest_repair_time_machine"
	IntentTopTechnician          Intent = "technician_with_most_repairs"
	IntentGeneralQuery           Intent = "general_query"
)

// Column names a Record field targeted by a column_lookup intent.
type Column string

// Columns addressable by column_lookup.
const (
	ColumnTechnician     Column = "technician"
	ColumnIssue          Column = "issue"
	ColumnRootCause      Column = "root_cause"
	ColumnSolution       Column = "solution"
	ColumnDate           Column = "date"
	ColumnTime           Column = "time"
	ColumnProductionLoss Column = "production_loss"
)

// Classification is the classifier output for one query.
type Classification struct {
	Intent Intent
	// Column is set when Intent is column_lookup.
	Column Column
	// Confidence is 1 for rule matches, the best cosine similarity for
	// semantic matches, and 0 for general_query.
	Confidence float64
	// Trigger records the rule trigger or example phrase that matched.
	Trigger string
}

// Classifier maps a query and its extracted entities to an intent.
type Classifier interface {
	Classify(raw string, ents Entities) (Classification, error)
}
