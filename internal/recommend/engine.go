// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package recommend

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/nutricoach/internal/cache"
	"github.com/tomtom215/nutricoach/internal/metrics"
	"github.com/tomtom215/nutricoach/internal/models"
	"github.com/tomtom215/nutricoach/internal/recommend/strategies"
	"github.com/tomtom215/nutricoach/internal/rules"
	"github.com/tomtom215/nutricoach/internal/snapshot"
)

// ErrNoAssembler is returned by Recommend when no context assembler is set.
var ErrNoAssembler = errors.New("recommendation context assembler not configured")

// idNamespace scopes recommendation IDs derived from dedup keys.
var idNamespace = uuid.MustParse("6f1c2a8e-3b7d-5e40-9a61-2c8d4f7b0e13")

// Engine runs every registered strategy and the rule set against a context,
// then deduplicates, ranks and caps the union. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	now    func() time.Time

	strategies []Strategy
	ruleSet    []models.Rule
	matcher    *rules.Matcher
	regMu      sync.RWMutex

	assembler Assembler
	repo      Repository

	cache *cache.FIFO[string, cachedResponse]
	// epoch advances on every invalidation. A list assembled across an
	// advance is returned but not cached.
	epoch atomic.Uint64

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64
	persistErrors atomic.Int64
	generated     atomic.Int64
}

// cachedResponse is a cached list plus the request fingerprint it answers.
type cachedResponse struct {
	fingerprint string
	response    *Response
}

// NewEngine creates an engine with no strategies or rules registered.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		now:     time.Now,
		matcher: rules.NewMatcher(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewFIFO[string, cachedResponse](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// NewDefaultEngine creates an engine with the built-in strategies and rules.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDefaultEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	e, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	for _, s := range DefaultStrategies() {
		e.RegisterStrategy(s)
	}
	if err := e.SetRules(rules.DefaultRules()); err != nil {
		return nil, err
	}
	return e, nil
}

// DefaultStrategies returns the built-in strategies in registration order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		strategies.NewNutritionalGap(),
		strategies.NewGoalBased(),
		strategies.NewContextAware(),
		strategies.NewTimeBased(),
		strategies.NewLocationBased(),
	}
}

// WithClock overrides the clock used when a request carries no timestamp.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	if e.cache != nil {
		e.cache.WithClock(now)
	}
	return e
}

// RegisterStrategy appends a strategy. Output order follows registration
// order, which decides which duplicate survives deduplication.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.regMu.Lock()
	defer e.regMu.Unlock()
	e.strategies = append(e.strategies, s)
	e.logger.Debug().Str("strategy", s.Name()).Msg("Registered strategy")
}

// SetRules replaces the rule set after validating every rule.
func (e *Engine) SetRules(ruleSet []models.Rule) error {
	for _, r := range ruleSet {
		if err := rules.ValidateRule(r); err != nil {
			return err
		}
	}
	e.regMu.Lock()
	e.ruleSet = append([]models.Rule(nil), ruleSet...)
	e.regMu.Unlock()
	e.clearCache()
	return nil
}

// SetAssembler sets the context assembler used by Recommend.
func (e *Engine) SetAssembler(a Assembler) {
	e.regMu.Lock()
	defer e.regMu.Unlock()
	e.assembler = a
}

// SetRepository sets the repository generated lists are persisted to.
func (e *Engine) SetRepository(r Repository) {
	e.regMu.Lock()
	defer e.regMu.Unlock()
	e.repo = r
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// GenerateAll produces the final list for rc: the union of every strategy,
// the matched rules and the plan nudges, deduplicated with the first
// occurrence winning, stably sorted by priority then confidence, and capped.
// It performs no I/O and does not modify rc.
func (e *Engine) GenerateAll(rc *models.RecommendationContext) []models.Recommendation {
	if rc == nil {
		return nil
	}

	e.regMu.RLock()
	registered := e.strategies
	ruleSet := e.ruleSet
	e.regMu.RUnlock()

	var all []models.Recommendation
	for _, s := range registered {
		all = append(all, s.Generate(rc)...)
	}
	if len(ruleSet) > 0 {
		all = append(all, rules.ToRecommendations(e.matcher.Evaluate(ruleSet, rc), rc, rc.Timestamp)...)
	}
	all = append(all, e.planRecommendations(rc)...)

	unique, keys := deduplicate(all)
	rank(unique, keys)

	limit := e.config.Limits.MaxResults
	if limit > MaxRecommendations {
		limit = MaxRecommendations
	}
	if len(unique) > limit {
		unique = unique[:limit]
		keys = keys[:limit]
	}

	date := rc.Date
	if date == "" {
		date = rc.Timestamp.Format(time.DateOnly)
	}
	for i := range unique {
		unique[i].ID = recommendationID(rc.UserID, date, keys[i])
	}
	return unique
}

// Recommend assembles the user's context, generates the list and persists it
// when a repository is configured. Persistence failures are logged and do not
// fail the call.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req snapshot.Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.Now.IsZero() {
		req.Now = e.now()
	}
	logger := e.logger.With().Str("user_id", req.UserID).Logger()

	fingerprint := requestFingerprint(&req)
	if resp := e.cachedResponse(req.UserID, fingerprint, start); resp != nil {
		metrics.RecordRecommendation("hit", time.Since(start))
		logger.Debug().Msg("Recommendations served from cache")
		return resp, nil
	}

	e.regMu.RLock()
	assembler := e.assembler
	repo := e.repo
	e.regMu.RUnlock()
	epoch := e.epoch.Load()

	if assembler == nil {
		e.errorCount.Add(1)
		return nil, ErrNoAssembler
	}

	rc, err := assembler.Assemble(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("error", time.Since(start))
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	recs := e.GenerateAll(rc)
	e.generated.Add(int64(len(recs)))
	recordGenerated(recs)

	if repo != nil && len(recs) > 0 {
		if err := repo.SaveRecommendations(ctx, req.UserID, recs); err != nil {
			e.persistErrors.Add(1)
			metrics.RecommendPersistErrors.Inc()
			logger.Warn().Err(err).Int("count", len(recs)).Msg("Failed to persist recommendations")
		}
	}

	resp := &Response{
		UserID:          req.UserID,
		Recommendations: recs,
		Scenario:        strategies.DetectScenario(rc).Description(),
		GeneratedAt:     rc.Timestamp,
		LatencyMS:       time.Since(start).Milliseconds(),
	}
	if e.cache != nil && e.epoch.Load() == epoch {
		e.cache.Set(req.UserID, cachedResponse{fingerprint: fingerprint, response: copyResponse(resp)})
	}

	metrics.RecordRecommendation("miss", time.Since(start))
	logger.Debug().
		Int("count", len(recs)).
		Int64("latency_ms", resp.LatencyMS).
		Msg("Recommendations generated")

	return resp, nil
}

// MarkRead flags a persisted recommendation as read.
func (e *Engine) MarkRead(ctx context.Context, userID, id string) error {
	repo := e.repository()
	if repo == nil {
		return ErrNoRepository
	}
	if err := repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	e.InvalidateUser(userID)
	return nil
}

// MarkApplied flags a persisted recommendation as applied.
func (e *Engine) MarkApplied(ctx context.Context, userID, id string) error {
	repo := e.repository()
	if repo == nil {
		return ErrNoRepository
	}
	if err := repo.MarkApplied(ctx, userID, id); err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}
	e.InvalidateUser(userID)
	return nil
}

// History returns the user's persisted recommendations, newest first.
func (e *Engine) History(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	repo := e.repository()
	if repo == nil {
		return nil, ErrNoRepository
	}
	return repo.ListRecommendations(ctx, userID, limit)
}

// InvalidateUser drops the cached list for userID. Callers invoke it after
// the user's goals, plans, records or preferences change.
func (e *Engine) InvalidateUser(userID string) {
	e.epoch.Add(1)
	if e.cache != nil {
		e.cache.Delete(userID)
	}
}

// PurgeCache removes expired cache entries and returns how many were dropped.
func (e *Engine) PurgeCache() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Cleanup()
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	e.regMu.RLock()
	names := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		names = append(names, s.Name())
	}
	ruleCount := len(e.ruleSet)
	e.regMu.RUnlock()

	return Metrics{
		RequestCount:  e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		ErrorCount:    e.errorCount.Load(),
		PersistErrors: e.persistErrors.Load(),
		Generated:     e.generated.Load(),
		Strategies:    names,
		RuleCount:     ruleCount,
	}
}

func (e *Engine) repository() Repository {
	e.regMu.RLock()
	defer e.regMu.RUnlock()
	return e.repo
}

func (e *Engine) cachedResponse(userID, fingerprint string, start time.Time) *Response {
	if e.cache == nil {
		return nil
	}
	entry, ok := e.cache.Get(userID)
	if !ok || entry.fingerprint != fingerprint {
		e.cacheMisses.Add(1)
		return nil
	}
	e.cacheHits.Add(1)
	resp := copyResponse(entry.response)
	resp.CacheHit = true
	resp.LatencyMS = time.Since(start).Milliseconds()
	return resp
}

func (e *Engine) clearCache() {
	e.epoch.Add(1)
	if e.cache != nil {
		e.cache.Clear()
	}
}

func copyResponse(resp *Response) *Response {
	out := *resp
	out.Recommendations = append([]models.Recommendation(nil), resp.Recommendations...)
	return &out
}

// requestFingerprint identifies the request inputs that are not loaded from
// providers. A cached list only answers a request with the same fingerprint.
// Stored preferences are not part of it; saving them invalidates the user.
func requestFingerprint(req *snapshot.Request) string {
	p := &req.Preferences
	h := fnv.New32a()
	for i, list := range [][]string{p.DietaryRestrictions, p.DislikedFoods, p.Cuisines} {
		for _, s := range list {
			_, _ = h.Write([]byte(strings.ToLower(s)))
			_, _ = h.Write([]byte{byte(i)})
		}
	}
	_, _ = h.Write([]byte(strconv.Itoa(p.CookingTimeBudget)))
	_, _ = h.Write([]byte(strconv.FormatFloat(p.Budget.Min, 'g', -1, 64)))
	_, _ = h.Write([]byte{'-'})
	_, _ = h.Write([]byte(strconv.FormatFloat(p.Budget.Max, 'g', -1, 64)))
	return strings.Join([]string{
		req.Now.Format(time.DateOnly),
		strconv.Itoa(req.Now.Hour()),
		string(req.Location),
		string(req.MealType),
		strconv.FormatUint(uint64(h.Sum32()), 16),
	}, "|")
}

// dedupField is the metadata field that distinguishes recommendations of the
// same type and title.
var dedupField = map[models.RecommendationType]string{
	models.RecNutritionGap:   models.MetaNutrient,
	models.RecFoodSuggestion: models.MetaNutrient,
	models.RecMealPlan:       models.MetaGoalType,
	models.RecHealthGoal:     models.MetaGoalID,
	models.RecPlanProgress:   models.MetaPlanID,
	models.RecTimeBased:      models.MetaScenario,
	models.RecScenario:       models.MetaScenario,
}

// DedupKey returns the identity used to deduplicate rec.
func DedupKey(rec *models.Recommendation) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rec.Title))
	key := string(rec.Type) + "|" + strconv.FormatUint(uint64(h.Sum32()), 16)
	if field, ok := dedupField[rec.Type]; ok {
		key += "|" + rec.Meta(field)
	}
	return key
}

// deduplicate keeps the first recommendation for every dedup key and returns
// the survivors with their keys.
func deduplicate(recs []models.Recommendation) ([]models.Recommendation, []string) {
	seen := make(map[string]struct{}, len(recs))
	out := make([]models.Recommendation, 0, len(recs))
	keys := make([]string, 0, len(recs))
	for i := range recs {
		key := DedupKey(&recs[i])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, recs[i])
		keys = append(keys, key)
	}
	return out, keys
}

// rank sorts recs by priority then confidence, both descending, keeping keys
// aligned. Ties keep their generation order.
func rank(recs []models.Recommendation, keys []string) {
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := &recs[idx[a]], &recs[idx[b]]
		if ra.Priority != rb.Priority {
			return ra.Priority > rb.Priority
		}
		return ra.Confidence > rb.Confidence
	})

	sortedRecs := make([]models.Recommendation, len(recs))
	sortedKeys := make([]string, len(keys))
	for to, from := range idx {
		sortedRecs[to] = recs[from]
		sortedKeys[to] = keys[from]
	}
	copy(recs, sortedRecs)
	copy(keys, sortedKeys)
}

// recommendationID derives a stable ID so the same advice on the same day
// keeps its identity across calls.
func recommendationID(userID, date, key string) string {
	return uuid.NewSHA1(idNamespace, []byte(userID+"|"+date+"|"+key)).String()
}

func recordGenerated(recs []models.Recommendation) {
	counts := make(map[models.RecommendationType]int)
	for i := range recs {
		counts[recs[i].Type]++
	}
	for t, n := range counts {
		metrics.RecordGenerated(string(t), n)
	}
}
