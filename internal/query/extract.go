package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// Vocabulary holds the closed entity lists used by the extractors. The lists
// come from configuration so deployments can extend or localize them.
type Vocabulary struct {
	MachineNames    []string
	TechnicianNames []string
	IssuePhrases    []string
}

// DefaultVocabulary returns the vocabulary matching the production sheet.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		MachineNames: []string{
			"cnc machine",
			"lathe machine",
			"milling machine",
			"grinding machine",
			"drilling machine",
		},
		TechnicianNames: []string{
			"rajesh", "suresh", "vikram", "gopal", "sanjay", "manoj", "anil",
		},
		IssuePhrases: []string{
			"bearing failure",
			"spindle overheating",
			"unexpected shutdown",
			"excessive vibration",
			"chatter marks",
		},
	}
}

// Entities is the set of values pulled from one query. Fields are extracted
// independently and may individually be empty.
type Entities struct {
	MachineID   string
	MachineName string
	Technician  string
	IssuePhrase string
	Year        int
	Date        time.Time
	DateValid   bool
}

// The mm prefix is optional so that bare "001" style references still
// resolve, but exactly three digits are required to avoid matching arbitrary
// numbers.
var machineIDPattern = regexp.MustCompile(`(?i)\b(?:mm\s?)?(\d{3})\b`)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// ExtractMachineID finds a machine ID such as "MM001", "mm001" or "mm 001"
// in the raw query and returns the canonical uppercase form. Returns "" when
// no ID is present.
func ExtractMachineID(raw string) string {
	m := machineIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return "MM" + m[1]
}

// ExtractMachineName returns the first configured machine type name contained
// in the query, in list order.
func (v Vocabulary) ExtractMachineName(raw string) string {
	return firstContained(raw, v.MachineNames)
}

// ExtractTechnician returns the first configured technician name contained in
// the query.
func (v Vocabulary) ExtractTechnician(raw string) string {
	return firstContained(raw, v.TechnicianNames)
}

// ExtractIssue returns the first configured issue phrase contained in the
// query.
func (v Vocabulary) ExtractIssue(raw string) string {
	return firstContained(raw, v.IssuePhrases)
}

// ExtractYear returns the first four-digit run in the query, or 0.
func ExtractYear(raw string) int {
	m := yearPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}

// ExtractDate returns the first whitespace token parseable in one of the
// accepted repair date layouts.
func ExtractDate(raw string, layouts []string) (time.Time, bool) {
	if len(layouts) == 0 {
		layouts = store.DefaultDateLayouts
	}
	for _, tok := range strings.Fields(raw) {
		tok = strings.Trim(tok, ".,!?")
		for _, layout := range layouts {
			if t, err := time.Parse(layout, tok); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ExtractAll runs every extractor over the raw query.
func (v Vocabulary) ExtractAll(raw string) Entities {
	ents := Entities{
		MachineID:   ExtractMachineID(raw),
		MachineName: v.ExtractMachineName(raw),
		Technician:  v.ExtractTechnician(raw),
		IssuePhrase: v.ExtractIssue(raw),
		Year:        ExtractYear(raw),
	}
	ents.Date, ents.DateValid = ExtractDate(raw, nil)
	return ents
}

func firstContained(raw string, list []string) string {
	lower := strings.ToLower(raw)
	for _, item := range list {
		if strings.Contains(lower, strings.ToLower(item)) {
			return item
		}
	}
	return ""
}
