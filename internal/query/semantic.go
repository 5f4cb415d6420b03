package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jeyavarman-2005/mechmate/internal/embedding"
)

// intentExamples are representative phrasings per intent. The semantic
// classifier embeds these once and compares queries against them.
var intentExamples = map[Intent][]string{
	IntentLatestInfo: {
		"give me the latest information about this machine",
		"what is the current status of the machine",
	},
	IntentMostRepeatedIssue: {
		"what is the most repeated issue across machines",
		"which problem occurs most often",
	},
	IntentCountMachines: {
		"how many machines of this type are there",
		"count the cnc machines in the log",
	},
	IntentMachinesByTechnician: {
		"which machines did this technician repair",
		"list the machines handled by the technician",
	},
	IntentTotals: {
		"what is the total production loss and repair time",
		"sum the production loss across all repairs",
	},
	IntentIssueRootCause: {
		"what is the root cause of this issue",
		"why does this failure happen",
	},
	IntentCountRepairsForMachine: {
		"how many times was this machine repaired",
		"number of repairs done on the machine",
	},
	IntentLastRepairDate: {
		"when was this machine last repaired",
		"date of the most recent repair for the machine",
	},
	IntentRepairTimeLookup: {
		"how long did the repair take",
		"hours spent repairing the machine",
	},
	IntentHighestRepairTime: {
		"which machine had the highest repair time",
		"which repair took the longest",
	},
	IntentTopTechnician: {
		"which technician did the most repairs",
		"who is the busiest technician",
	},
}

type examplePoint struct {
	intent Intent
	phrase string
	vector []float32
}

// SemanticClassifier classifies by cosine similarity against embedded
// example phrases. Below the threshold it returns general_query.
type SemanticClassifier struct {
	embedder  embedding.Embedder
	threshold float64

	mu     sync.Mutex
	points []examplePoint
}

// NewSemanticClassifier wraps an embedder. Example phrases are embedded
// lazily on first use.
func NewSemanticClassifier(embedder embedding.Embedder, threshold float64) *SemanticClassifier {
	return &SemanticClassifier{embedder: embedder, threshold: threshold}
}

func (c *SemanticClassifier) ensurePoints(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.points != nil {
		return nil
	}
	var phrases []string
	var owners []Intent
	for intent, examples := range intentExamples {
		for _, p := range examples {
			phrases = append(phrases, p)
			owners = append(owners, intent)
		}
	}
	vectors, err := c.embedder.Embed(ctx, phrases)
	if err != nil {
		return fmt.Errorf("embedding intent examples: %w", err)
	}
	points := make([]examplePoint, len(phrases))
	for i := range phrases {
		points[i] = examplePoint{intent: owners[i], phrase: phrases[i], vector: vectors[i]}
	}
	c.points = points
	return nil
}

// ClassifyContext embeds the query and picks the nearest example phrase.
func (c *SemanticClassifier) ClassifyContext(ctx context.Context, raw string, ents Entities) (Classification, error) {
	if err := c.ensurePoints(ctx); err != nil {
		return Classification{}, err
	}
	vec, err := c.embedder.EmbedSingle(ctx, Normalize(raw))
	if err != nil {
		return Classification{}, fmt.Errorf("embedding query: %w", err)
	}

	best := Classification{Intent: IntentGeneralQuery}
	for _, p := range c.points {
		score := embedding.Cosine(vec, p.vector)
		if score > best.Confidence {
			best = Classification{Intent: p.intent, Confidence: score, Trigger: p.phrase}
		}
	}
	if best.Confidence <= c.threshold {
		return Classification{Intent: IntentGeneralQuery}, nil
	}
	// The example phrases carry no column detail, so column lookups still
	// rely on the rule table. Guard intents that need an entity.
	switch best.Intent {
	case IntentLatestInfo, IntentCountRepairsForMachine, IntentLastRepairDate, IntentRepairTimeLookup:
		if ents.MachineID == "" && ents.MachineName == "" {
			return Classification{Intent: IntentGeneralQuery}, nil
		}
	case IntentMachinesByTechnician:
		if ents.Technician == "" {
			return Classification{Intent: IntentGeneralQuery}, nil
		}
	case IntentIssueRootCause:
		if ents.IssuePhrase == "" {
			return Classification{Intent: IntentGeneralQuery}, nil
		}
	}
	return best, nil
}

// Classify satisfies Classifier with a background context.
func (c *SemanticClassifier) Classify(raw string, ents Entities) (Classification, error) {
	return c.ClassifyContext(context.Background(), raw, ents)
}
