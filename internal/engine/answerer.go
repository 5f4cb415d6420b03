package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Jeyavarman-2005/mechmate/internal/cache"
	"github.com/Jeyavarman-2005/mechmate/internal/generation"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
	"github.com/Jeyavarman-2005/mechmate/internal/query"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// Answer is the engine's response to one question.
type Answer struct {
	QueryID    string       `json:"query_id"`
	Question   string       `json:"question"`
	Intent     query.Intent `json:"intent"`
	Confidence float64      `json:"confidence"`
	// Source is "rules", "semantic", "fallback", "generated" or "cache".
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Options configures optional Answerer behavior.
type Options struct {
	// Semantic replaces the rule table when set.
	Semantic *query.SemanticClassifier
	// Matcher enables the embedding fallback for general queries.
	Matcher *Matcher
	// Generator answers general queries the fallback cannot.
	Generator generation.Generator
	// Cache stores rendered answers keyed on the normalized question.
	Cache    cache.Client
	CacheTTL time.Duration
	Logger   *observability.Logger
}

// Answerer routes a question through classification, the matching retrieval
// operation and formatting. A failing question never takes the process down;
// every path ends in either an Answer or an error for that question alone.
type Answerer struct {
	snapshot *store.Snapshot
	vocab    query.Vocabulary
	rules    *query.RuleClassifier
	opts     Options
	format   Formatter
	logger   *observability.Logger
}

const defaultCacheTTL = 10 * time.Minute

// NewAnswerer builds an answerer over a loaded or lazily loading snapshot.
func NewAnswerer(snapshot *store.Snapshot, vocab query.Vocabulary, opts Options) *Answerer {
	if opts.Logger == nil {
		opts.Logger = observability.Nop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Answerer{
		snapshot: snapshot,
		vocab:    vocab,
		rules:    query.NewRuleClassifier(),
		opts:     opts,
		logger:   opts.Logger,
	}
}

// Invalidate drops the snapshot and any derived embedding caches so the next
// question refetches the source.
func (a *Answerer) Invalidate(ctx context.Context) {
	a.snapshot.Invalidate()
	if a.opts.Matcher != nil {
		a.opts.Matcher.Reset()
	}
	if a.opts.Cache != nil {
		if err := a.opts.Cache.DeleteByPrefix(ctx, "answer"); err != nil {
			a.logger.Warn().Err(err).Msg("clearing answer cache")
		}
	}
}

// Warm loads the snapshot and precomputes issue embeddings when a matcher is
// configured. progress, when non-nil, is called after each stage completes.
func (a *Answerer) Warm(ctx context.Context, progress func(stage string)) (int, error) {
	records, err := a.snapshot.Records(ctx)
	if err != nil {
		return 0, &UpstreamError{Source: "store", Err: err}
	}
	if progress != nil {
		progress("snapshot")
	}
	if a.opts.Matcher != nil {
		if err := a.opts.Matcher.ensureVectors(ctx, records); err != nil {
			return len(records), &UpstreamError{Source: "embedding", Err: err}
		}
		if progress != nil {
			progress("embeddings")
		}
	}
	return len(records), nil
}

func answerCacheKey(question string) string {
	sum := sha256.Sum256([]byte(query.Normalize(question)))
	return cache.Key("answer", hex.EncodeToString(sum[:]))
}

// Answer resolves one question end to end.
func (a *Answerer) Answer(ctx context.Context, question string) (Answer, error) {
	queryID := uuid.NewString()
	ctx = observability.ContextWithQueryID(ctx, queryID)
	log := a.logger.WithContext(ctx)

	if a.opts.Cache != nil {
		if raw, err := a.opts.Cache.Get(ctx, answerCacheKey(question)); err == nil {
			var cached Answer
			if json.Unmarshal(raw, &cached) == nil {
				cached.QueryID = queryID
				cached.Source = "cache"
				log.Debug().Str("intent", string(cached.Intent)).Msg("answer served from cache")
				return cached, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("answer cache lookup failed")
		}
	}

	records, err := a.snapshot.Records(ctx)
	if err != nil {
		return Answer{}, &UpstreamError{Source: "store", Err: err}
	}
	rs := RecordSet(records)

	ents := a.vocab.ExtractAll(question)
	cls, err := a.classify(ctx, question, ents)
	if err != nil {
		log.Warn().Err(err).Msg("classification failed, treating as general query")
		cls = query.Classification{Intent: query.IntentGeneralQuery}
	}
	log.Info().
		Str("intent", string(cls.Intent)).
		Float64("confidence", cls.Confidence).
		Str("machine_id", ents.MachineID).
		Msg("query classified")

	ans := Answer{
		QueryID:    queryID,
		Question:   question,
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Source:     a.classifierSource(),
	}

	text, err := a.dispatch(ctx, rs, cls, ents, question, &ans)
	if err != nil {
		var missing *MissingEntityError
		switch {
		case errors.As(err, &missing):
			text = "I need to know which " + missing.Entity + " you mean. Could you rephrase with its name or ID?"
		case errors.Is(err, ErrNotFound):
			text = "I could not find a matching record in the maintenance log."
		default:
			return Answer{}, err
		}
	}
	ans.Text = text

	if a.opts.Cache != nil {
		if raw, err := json.Marshal(ans); err == nil {
			if err := a.opts.Cache.Set(ctx, answerCacheKey(question), raw, a.opts.CacheTTL); err != nil {
				log.Warn().Err(err).Msg("answer cache write failed")
			}
		}
	}
	return ans, nil
}

func (a *Answerer) classifierSource() string {
	if a.opts.Semantic != nil {
		return "semantic"
	}
	return "rules"
}

func (a *Answerer) classify(ctx context.Context, question string, ents query.Entities) (query.Classification, error) {
	if a.opts.Semantic != nil {
		return a.opts.Semantic.ClassifyContext(ctx, question, ents)
	}
	return a.rules.Classify(question, ents)
}

func (a *Answerer) dispatch(ctx context.Context, rs RecordSet, cls query.Classification, ents query.Entities, question string, ans *Answer) (string, error) {
	switch cls.Intent {
	case query.IntentLatestInfo:
		r, err := rs.LatestInfo(ents.MachineID, ents.MachineName)
		if err != nil {
			return "", err
		}
		return a.format.LatestInfo(r), nil

	case query.IntentColumnLookup:
		r, err := rs.ColumnLookup(ents.MachineID, ents.MachineName, cls.Column)
		if err != nil {
			return "", err
		}
		return a.format.ColumnLookup(r), nil

	case query.IntentMostRepeatedIssue:
		r, err := rs.MostRepeatedIssue(ents.MachineID, ents.MachineName)
		if err != nil {
			return "", err
		}
		return a.format.MostRepeatedIssue(r), nil

	case query.IntentCountMachines:
		return a.format.CountMachines(rs.CountMachines(ents.MachineName)), nil

	case query.IntentMachinesByTechnician:
		r, err := rs.MachinesByTechnician(ents.Technician)
		if err != nil {
			return "", err
		}
		return a.format.MachinesByTechnician(r), nil

	case query.IntentTotals:
		r, err := rs.TotalsFor(ents.MachineName, ents.IssuePhrase, ents.MachineID)
		if err != nil {
			return "", err
		}
		return a.format.Totals(r), nil

	case query.IntentIssueRootCause:
		r, err := rs.IssueRootCause(ents.IssuePhrase)
		if err != nil {
			return "", err
		}
		return a.format.IssueRootCause(r), nil

	case query.IntentCountRepairsForMachine:
		r, err := rs.CountRepairsForMachine(ents.MachineID, ents.MachineName)
		if err != nil {
			return "", err
		}
		return a.format.CountRepairs(r), nil

	case query.IntentLastRepairDate:
		r, err := rs.LastRepairDate(ents.MachineID, ents.MachineName)
		if err != nil {
			return "", err
		}
		return a.format.LastRepairDate(r), nil

	case query.IntentRepairTimeLookup:
		r, err := rs.RepairTimeLookup(ents.MachineID, ents.MachineName)
		if err != nil {
			return "", err
		}
		return a.format.RepairTime(r), nil

	case query.IntentHighestRepairTime:
		r, err := rs.HighestRepairTimeMachine()
		if err != nil {
			return "", err
		}
		return a.format.HighestRepairTime(r), nil

	case query.IntentTopTechnician:
		r, err := rs.TechnicianWithMostRepairs()
		if err != nil {
			return "", err
		}
		return a.format.TopTechnicians(r), nil

	default:
		return a.general(ctx, rs, question, ans)
	}
}

// general handles queries no intent claimed: similarity search over logged
// issues first, then the generator when one is configured.
func (a *Answerer) general(ctx context.Context, rs RecordSet, question string, ans *Answer) (string, error) {
	if a.opts.Matcher != nil {
		match, err := a.opts.Matcher.Match(ctx, rs, question)
		if err == nil {
			ans.Source = "fallback"
			ans.Confidence = match.Score
			return a.format.FallbackMatch(match), nil
		}
		if !errors.Is(err, ErrNotFound) {
			a.logger.WithContext(ctx).Warn().Err(err).Msg("similarity fallback failed")
		}
	}
	if a.opts.Generator != nil {
		text, err := a.opts.Generator.Generate(ctx, generation.ResolutionPrompt(question))
		if err != nil {
			a.logger.WithContext(ctx).Warn().Err(err).Msg("generation failed")
			return "", &UpstreamError{Source: "generation", Err: err}
		}
		ans.Source = "generated"
		return text, nil
	}
	return "I do not have an answer for that in the maintenance log. Try naming a machine ID, a technician or an issue.", nil
}
