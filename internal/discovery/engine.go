// Trouvaille - Content Discovery and Recommendation Engine
// Copyright 2026 Haverstock Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/haverstock/trouvaille

package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/haverstock/trouvaille/internal/geo"
	"github.com/haverstock/trouvaille/internal/models"
)

// Note: this package depends only on models and geo. Catalog access goes
// through the CandidateSource interface so the HTTP client (and its circuit
// breaker) stays out of the scoring core.

// CandidateFilters narrows a candidate fetch at the catalog, so scoped
// queries do not pull the whole index. Zero values mean no filtering on
// that dimension.
type CandidateFilters struct {
	// Category restricts candidates to one venue or article category.
	Category string
}

// CandidateSource fetches content candidates from the catalog.
type CandidateSource interface {
	// FetchCandidates returns up to limit items of the given kind matching
	// the filters.
	FetchCandidates(ctx context.Context, kind models.ContentKind, filters CandidateFilters, limit int) ([]models.ContentItem, error)

	// FetchVenue returns one venue by ID, or an error when it does not exist.
	FetchVenue(ctx context.Context, id string) (*models.ContentItem, error)

	// FetchSimilarVenues returns venues the catalog considers similar.
	FetchSimilarVenues(ctx context.Context, id string, limit int) ([]models.ContentItem, error)

	// FetchRelatedArticles returns articles mentioning the venue.
	FetchRelatedArticles(ctx context.Context, venueID string, limit int) ([]models.ContentItem, error)
}

// Locator resolves the caller's current position. Implementations may talk
// to an external geolocation service; a nil location with nil error means
// the position is simply unknown.
type Locator interface {
	CurrentLocation(ctx context.Context) (*models.Coordinates, error)
}

// Engine coordinates the scorers and composes responses. It is safe for
// concurrent use; the shuffle RNG is guarded by a mutex.
type Engine struct {
	config Config
	logger zerolog.Logger

	source  CandidateSource
	locator Locator

	popularity  *PopularityScorer
	trending    *TrendScorer
	personalize *PersonalizationEngine
	feed        *FeedComposer

	clock func() time.Time

	rng   *rand.Rand
	rngMu sync.Mutex
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used in tests for
// deterministic decay and age bonuses.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLocator sets the fallback position resolver used when a request
// carries no location of its own.
func WithLocator(l Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithVelocityEstimator overrides the configured trend velocity estimator.
func WithVelocityEstimator(v VelocityEstimator) Option {
	return func(e *Engine) { e.trending = NewTrendScorer(v) }
}

// NewEngine creates a discovery engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, source CandidateSource, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("candidate source is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "discovery").Logger(),
		source:      source,
		popularity:  NewPopularityScorer(cfg.Weights),
		trending:    NewTrendScorer(cfg.newVelocityEstimator()),
		personalize: NewPersonalizationEngine(),
		feed:        NewFeedComposer(cfg.Feed),
		clock:       time.Now,
		rng:         rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed shuffling
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.config.Clone()
}

// PopularRequest asks for items ranked by cumulative engagement.
type PopularRequest struct {
	Kind      models.ContentKind
	Timeframe Timeframe
	Limit     int

	// Category restricts candidates to one category at the catalog.
	Category string

	// Center enables the optional geo filter and distance annotation.
	Center *models.Coordinates
	// Radius filters to items within this distance of Center. Zero means
	// no filtering even when Center is set.
	Radius float64
	Unit   geo.Unit

	// SortByDistance orders results nearest-first instead of by score.
	// Requires Center.
	SortByDistance bool
}

// GetPopular returns the most popular items of one kind within a timeframe.
func (e *Engine) GetPopular(ctx context.Context, req PopularRequest) ([]models.ScoredItem, error) {
	if !req.Kind.Valid() {
		return nil, &InvalidInputError{Field: "kind", Reason: fmt.Sprintf("unknown content kind %q", req.Kind)}
	}
	tf := req.Timeframe
	if tf == "" {
		tf = TimeframeAll
	}
	if !tf.Valid() {
		return nil, &InvalidInputError{Field: "timeframe", Reason: fmt.Sprintf("unknown timeframe %q", req.Timeframe)}
	}
	if req.Unit != "" && !req.Unit.Valid() {
		return nil, &InvalidInputError{Field: "unit", Reason: fmt.Sprintf("unknown distance unit %q", req.Unit)}
	}
	if req.Radius < 0 {
		return nil, &InvalidInputError{Field: "radius", Reason: "radius must be non-negative"}
	}
	limit := e.clampLimit(req.Limit)
	unit := req.Unit
	if unit == "" {
		unit = geo.UnitKilometers
	}

	items, err := e.fetchScored(ctx, req.Kind, CandidateFilters{Category: req.Category}, "popular")
	if err != nil {
		return nil, err
	}

	now := e.clock()
	e.popularity.ScoreAll(items, tf, now)

	if req.Center != nil {
		items = geo.FilterWithinRadius(req.Center, req.Radius, items, unit)
		geo.AnnotateDistances(req.Center, items, unit)
	}

	if req.SortByDistance && req.Center != nil {
		geo.SortByDistance(req.Center, items, unit)
	} else {
		sortByPopularity(items)
	}
	return truncate(items, limit), nil
}

// TrendingRequest asks for items ranked by short-horizon momentum.
type TrendingRequest struct {
	Kind      models.ContentKind
	Timeframe Timeframe
	Limit     int

	// Center enables the optional geo filter and distance annotation.
	Center *models.Coordinates
	// Radius filters to items within this distance of Center. Zero means
	// no filtering even when Center is set.
	Radius float64
	Unit   geo.Unit
}

// GetTrending returns the items with the strongest recent momentum. The
// timeframe drives the popularity annotation on each item; the trend score
// itself ranks on age bonuses plus velocity.
func (e *Engine) GetTrending(ctx context.Context, req TrendingRequest) ([]models.ScoredItem, error) {
	if !req.Kind.Valid() {
		return nil, &InvalidInputError{Field: "kind", Reason: fmt.Sprintf("unknown content kind %q", req.Kind)}
	}
	tf := req.Timeframe
	if tf == "" {
		tf = TimeframeAll
	}
	if !tf.Valid() {
		return nil, &InvalidInputError{Field: "timeframe", Reason: fmt.Sprintf("unknown timeframe %q", req.Timeframe)}
	}
	if req.Unit != "" && !req.Unit.Valid() {
		return nil, &InvalidInputError{Field: "unit", Reason: fmt.Sprintf("unknown distance unit %q", req.Unit)}
	}
	if req.Radius < 0 {
		return nil, &InvalidInputError{Field: "radius", Reason: "radius must be non-negative"}
	}
	limit := e.clampLimit(req.Limit)
	unit := req.Unit
	if unit == "" {
		unit = geo.UnitKilometers
	}

	items, err := e.fetchScored(ctx, req.Kind, CandidateFilters{}, "trending")
	if err != nil {
		return nil, err
	}

	now := e.clock()
	e.popularity.ScoreAll(items, tf, now)
	e.trending.ScoreAll(items, now)

	if req.Center != nil {
		items = geo.FilterWithinRadius(req.Center, req.Radius, items, unit)
		geo.AnnotateDistances(req.Center, items, unit)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TrendScore > items[j].TrendScore
	})
	return truncate(items, limit), nil
}

// PersonalizedRequest asks for items ranked against a preference profile.
type PersonalizedRequest struct {
	Preferences *models.UserPreferences
	Limit       int
	Unit        geo.Unit

	// IncludeVenues and IncludeArticles select which lists to build. At
	// least one must be set.
	IncludeVenues   bool
	IncludeArticles bool
}

// PersonalizedContent holds the separately ranked venue and article lists.
type PersonalizedContent struct {
	Venues   []models.ScoredItem `json:"venues"`
	Articles []models.ScoredItem `json:"articles"`

	// Degraded lists branches whose fetch failed; their lists are empty
	// rather than the whole response erroring.
	Degraded []string `json:"degraded,omitempty"`
}

// GetPersonalized returns venues and articles ranked by popularity plus
// preference bonuses, as two independent lists. The requested branches are
// fetched concurrently; a failed branch degrades unless every requested
// branch failed.
func (e *Engine) GetPersonalized(ctx context.Context, req PersonalizedRequest) (*PersonalizedContent, error) {
	if !req.IncludeVenues && !req.IncludeArticles {
		return nil, &InvalidInputError{Field: "include", Reason: "at least one of venues or articles must be included"}
	}
	if req.Unit != "" && !req.Unit.Valid() {
		return nil, &InvalidInputError{Field: "unit", Reason: fmt.Sprintf("unknown distance unit %q", req.Unit)}
	}
	limit := e.clampLimit(req.Limit)
	unit := req.Unit
	if unit == "" {
		unit = geo.UnitKilometers
	}

	var (
		wg       sync.WaitGroup
		venues   []models.ScoredItem
		articles []models.ScoredItem
		venueErr error
		artErr   error
	)
	if req.IncludeVenues {
		wg.Add(1)
		go func() {
			defer wg.Done()
			venues, venueErr = e.fetchScored(ctx, models.KindVenue, CandidateFilters{}, "personalized")
		}()
	}
	if req.IncludeArticles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles, artErr = e.fetchScored(ctx, models.KindArticle, CandidateFilters{}, "personalized")
		}()
	}
	wg.Wait()

	out := &PersonalizedContent{}
	if req.IncludeVenues && venueErr != nil {
		if !req.IncludeArticles || artErr != nil {
			return nil, venueErr
		}
		e.logger.Warn().Err(venueErr).Msg("personalized: venue fetch failed, continuing with articles")
		out.Degraded = append(out.Degraded, "venues")
	}
	if req.IncludeArticles && artErr != nil {
		if !req.IncludeVenues {
			return nil, artErr
		}
		e.logger.Warn().Err(artErr).Msg("personalized: article fetch failed, continuing with venues")
		out.Degraded = append(out.Degraded, "articles")
	}

	now := e.clock()
	loc := e.resolveLocation(ctx, req.Preferences)
	rank := func(items []models.ScoredItem) []models.ScoredItem {
		e.popularity.ScoreAll(items, TimeframeAll, now)
		e.personalize.Rank(items, req.Preferences)
		if loc != nil {
			geo.AnnotateDistances(loc, items, unit)
		}
		return truncate(items, limit)
	}
	if venueErr == nil && req.IncludeVenues {
		out.Venues = rank(venues)
	}
	if artErr == nil && req.IncludeArticles {
		out.Articles = rank(articles)
	}
	return out, nil
}

// VenueRelated is the response to a related-content lookup for one venue.
type VenueRelated struct {
	Venue           models.ContentItem  `json:"venue"`
	SimilarVenues   []models.ScoredItem `json:"similar_venues"`
	NearbyVenues    []models.ScoredItem `json:"nearby_venues"`
	RelatedArticles []models.ScoredItem `json:"related_articles"`

	// Degraded lists branches whose fetch failed; their lists are empty
	// rather than the whole response erroring.
	Degraded []string `json:"degraded,omitempty"`
}

// RelatedRequest asks for content related to one venue.
type RelatedRequest struct {
	VenueID string
	Limit   int
	Unit    geo.Unit

	// NearbyRadius bounds the nearby-venues branch. Zero uses a 5 unit
	// default radius.
	NearbyRadius float64
}

const defaultNearbyRadius = 5.0

// GetVenueRelated returns similar venues, nearby venues, and related
// articles for a venue. The anchor venue fetch must succeed; the three
// branches then run concurrently and degrade independently.
func (e *Engine) GetVenueRelated(ctx context.Context, req RelatedRequest) (*VenueRelated, error) {
	if req.VenueID == "" {
		return nil, &InvalidInputError{Field: "venue_id", Reason: "venue_id is required"}
	}
	if req.Unit != "" && !req.Unit.Valid() {
		return nil, &InvalidInputError{Field: "unit", Reason: fmt.Sprintf("unknown distance unit %q", req.Unit)}
	}
	limit := e.clampLimit(req.Limit)
	unit := req.Unit
	if unit == "" {
		unit = geo.UnitKilometers
	}
	radius := req.NearbyRadius
	if radius <= 0 {
		radius = defaultNearbyRadius
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
	venue, err := e.source.FetchVenue(fetchCtx, req.VenueID)
	cancel()
	if err != nil {
		return nil, &CandidateRetrievalError{Op: "related: fetch venue", Err: err}
	}

	out := &VenueRelated{Venue: *venue}
	now := e.clock()

	var wg sync.WaitGroup
	var mu sync.Mutex
	degrade := func(branch string, err error) {
		e.logger.Warn().Err(err).Str("branch", branch).Str("venue_id", req.VenueID).
			Msg("related branch failed")
		mu.Lock()
		out.Degraded = append(out.Degraded, branch)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		bctx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
		defer cancel()
		raw, err := e.source.FetchSimilarVenues(bctx, req.VenueID, e.config.Limits.MaxCandidates)
		if err != nil {
			degrade("similar_venues", err)
			return
		}
		items := wrapScored(raw)
		e.popularity.ScoreAll(items, TimeframeAll, now)
		sortByPopularity(items)
		out.SimilarVenues = truncate(items, limit)
	}()
	go func() {
		defer wg.Done()
		bctx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
		defer cancel()
		raw, err := e.source.FetchCandidates(bctx, models.KindVenue, CandidateFilters{}, e.config.Limits.MaxCandidates)
		if err != nil {
			degrade("nearby_venues", err)
			return
		}
		items := wrapScored(raw)
		items = dropItem(items, req.VenueID)
		if venue.Coordinates != nil {
			items = geo.FilterWithinRadius(venue.Coordinates, radius, items, unit)
		}
		e.popularity.ScoreAll(items, TimeframeAll, now)
		geo.SortByDistance(venue.Coordinates, items, unit)
		out.NearbyVenues = truncate(items, limit)
	}()
	go func() {
		defer wg.Done()
		bctx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
		defer cancel()
		raw, err := e.source.FetchRelatedArticles(bctx, req.VenueID, e.config.Limits.MaxCandidates)
		if err != nil {
			degrade("related_articles", err)
			return
		}
		items := wrapScored(raw)
		e.popularity.ScoreAll(items, TimeframeAll, now)
		sortByPopularity(items)
		out.RelatedArticles = truncate(items, limit)
	}()
	wg.Wait()

	sort.Strings(out.Degraded)
	return out, nil
}

// FeedRequest asks for the mixed discovery feed.
type FeedRequest struct {
	Preferences *models.UserPreferences

	// RecentlySeen lists feed sections the user was recently served;
	// other sections get the diversity bonus.
	RecentlySeen []models.FeedSection

	Limit int

	// AllOrNothing fails the whole feed when any section fails, instead
	// of returning a degraded feed.
	AllOrNothing bool
}

// DiscoveryFeed is a shuffled mixed feed plus the sections that failed.
type DiscoveryFeed struct {
	Items    []models.DiscoveryFeedItem `json:"items"`
	Degraded []models.FeedSection       `json:"degraded,omitempty"`
}

// GetDiscoveryFeed composes the four-section discovery feed. Sections are
// fetched and scored concurrently; a failed section is recorded in Degraded
// and the feed composes from the rest, unless AllOrNothing is set.
func (e *Engine) GetDiscoveryFeed(ctx context.Context, req FeedRequest) (*DiscoveryFeed, error) {
	for _, s := range req.RecentlySeen {
		if !validSection(s) {
			return nil, &InvalidInputError{Field: "recently_seen", Reason: fmt.Sprintf("unknown feed section %q", s)}
		}
	}
	limit := e.clampLimit(req.Limit)
	now := e.clock()

	results := make([]sectionResult, len(models.FeedSections))
	errs := make([]error, len(models.FeedSections))

	var wg sync.WaitGroup
	for i, section := range models.FeedSections {
		wg.Add(1)
		go func(idx int, sec models.FeedSection) {
			defer wg.Done()
			items, err := e.buildSection(ctx, sec, req.Preferences, now)
			results[idx] = sectionResult{section: sec, items: items}
			errs[idx] = err
		}(i, section)
	}
	wg.Wait()

	feed := &DiscoveryFeed{}
	live := make([]sectionResult, 0, len(results))
	for i, res := range results {
		if errs[i] != nil {
			if req.AllOrNothing {
				return nil, &CandidateRetrievalError{Op: fmt.Sprintf("feed: %s", res.section), Err: errs[i]}
			}
			e.logger.Warn().Err(errs[i]).Str("section", string(res.section)).
				Msg("feed section degraded")
			feed.Degraded = append(feed.Degraded, res.section)
			continue
		}
		live = append(live, res)
	}

	e.rngMu.Lock()
	feed.Items = e.feed.Compose(live, req.RecentlySeen, limit, e.rng)
	e.rngMu.Unlock()

	if feed.Items == nil {
		feed.Items = []models.DiscoveryFeedItem{}
	}
	return feed, nil
}

// buildSection fetches and ranks one feed section.
func (e *Engine) buildSection(ctx context.Context, section models.FeedSection, prefs *models.UserPreferences, now time.Time) ([]models.ScoredItem, error) {
	kind := models.KindVenue
	if section == models.SectionPopularArticles || section == models.SectionTrendingArticles {
		kind = models.KindArticle
	}

	items, err := e.fetchScored(ctx, kind, CandidateFilters{}, string(section))
	if err != nil {
		return nil, err
	}

	e.popularity.ScoreAll(items, TimeframeAll, now)
	switch section {
	case models.SectionTrendingVenues, models.SectionTrendingArticles:
		e.trending.ScoreAll(items, now)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].TrendScore > items[j].TrendScore
		})
	default:
		if prefs != nil {
			e.personalize.Rank(items, prefs)
		} else {
			sortByPopularity(items)
		}
	}
	return items, nil
}

// fetchScored pulls raw candidates and wraps them for scoring.
func (e *Engine) fetchScored(ctx context.Context, kind models.ContentKind, filters CandidateFilters, op string) ([]models.ScoredItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
	defer cancel()

	raw, err := e.source.FetchCandidates(fetchCtx, kind, filters, e.config.Limits.MaxCandidates)
	if err != nil {
		return nil, &CandidateRetrievalError{Op: op, Err: err}
	}
	return wrapScored(raw), nil
}

// resolveLocation prefers the profile's stated location, falling back to the
// locator. Locator failures degrade to "no location" rather than erroring.
func (e *Engine) resolveLocation(ctx context.Context, prefs *models.UserPreferences) *models.Coordinates {
	if prefs != nil && prefs.Location != nil {
		return prefs.Location
	}
	if e.locator == nil {
		return nil
	}
	loc, err := e.locator.CurrentLocation(ctx)
	if err != nil {
		e.logger.Debug().Err(err).Msg("locator unavailable, skipping distance annotation")
		return nil
	}
	return loc
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		return e.config.Limits.MaxLimit
	}
	return limit
}

func wrapScored(raw []models.ContentItem) []models.ScoredItem {
	items := make([]models.ScoredItem, len(raw))
	for i := range raw {
		items[i] = models.ScoredItem{Item: raw[i]}
	}
	return items
}

func sortByPopularity(items []models.ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PopularityScore > items[j].PopularityScore
	})
}

func truncate(items []models.ScoredItem, limit int) []models.ScoredItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func dropItem(items []models.ScoredItem, id string) []models.ScoredItem {
	out := items[:0]
	for _, it := range items {
		if it.Item.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func validSection(s models.FeedSection) bool {
	for _, known := range models.FeedSections {
		if s == known {
			return true
		}
	}
	return false
}
