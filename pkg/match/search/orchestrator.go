package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/contract"
	"specialist-match-be/internal/repository/specification"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/pkg/embedding"
	"specialist-match-be/pkg/store"
)

// Strategy names the retrieval path a search took.
type Strategy string

const (
	StrategySemantic Strategy = "semantic"
	StrategyKeyword  Strategy = "keyword"
	StrategyHybrid   Strategy = "hybrid"
)

// oversampleFactor is how many extra rows each retrieval branch fetches so
// post-retrieval filters and the visibility re-check still leave enough
// candidates to fill the page.
const oversampleFactor = 2

// Request describes one candidate search.
type Request struct {
	// Query is the free-text retrieval query built from the conversation.
	Query string
	// Params are the relational filters extracted from collected slots.
	Params store.SearchParams
	// SlotCount is how many slots the conversation has filled; drives
	// strategy selection together with the category.
	SlotCount int
	Limit     int
	// ExcludeIds removes specialists already shown in this session.
	ExcludeIds []uuid.UUID
}

// Result carries the retrieved candidates plus how they were retrieved.
// Degraded marks a search that lost one or both retrieval branches to an
// embedding or store failure; callers surface reduced confidence, never the
// error.
type Result struct {
	Candidates []store.Candidate
	Strategy   Strategy
	Degraded   bool
}

// Orchestrator routes a search to the semantic, keyword, or hybrid path and
// applies relational filtering and the visibility predicate on the way out.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Execute runs the search. Store failures never surface as errors: embedding
// failures degrade to keyword retrieval, and relational failures degrade to
// an empty result with Degraded set so callers can tell the user.
func (o *Orchestrator) Execute(ctx context.Context, uow unitofwork.UnitOfWork, req Request) (*Result, error) {
	if req.Limit <= 0 {
		req.Limit = 10
	}

	strategy := o.pickStrategy(req)
	o.logf("[SEARCH] strategy=%s query=%q category=%q slots=%d limit=%d",
		strategy, req.Query, req.Params.Category, req.SlotCount, req.Limit)

	switch strategy {
	case StrategySemantic:
		candidates, err := o.semantic(ctx, uow, req, req.Limit)
		if err != nil {
			o.logf("[WARN] semantic retrieval failed, degrading to keyword: %v", err)
			keyword, kerr := o.keyword(ctx, uow, req, req.Limit)
			if kerr != nil {
				o.logf("[WARN] keyword fallback failed, returning empty result: %v", kerr)
				return &Result{Strategy: StrategySemantic, Degraded: true}, nil
			}
			return &Result{Candidates: keyword, Strategy: StrategySemantic, Degraded: true}, nil
		}
		return &Result{Candidates: candidates, Strategy: StrategySemantic}, nil

	case StrategyKeyword:
		candidates, err := o.keyword(ctx, uow, req, req.Limit)
		if err != nil {
			o.logf("[WARN] keyword retrieval failed, returning empty result: %v", err)
			return &Result{Strategy: StrategyKeyword, Degraded: true}, nil
		}
		return &Result{Candidates: candidates, Strategy: StrategyKeyword}, nil

	default:
		return o.hybrid(ctx, uow, req)
	}
}

// pickStrategy: a well-slotted conversation with a known category trusts the
// semantic index; a bare token without spaces is treated as a name/keyword
// lookup; anything in between runs both branches.
func (o *Orchestrator) pickStrategy(req Request) Strategy {
	if req.SlotCount >= 3 && req.Params.Category != "" {
		return StrategySemantic
	}
	trimmed := strings.TrimSpace(req.Query)
	if trimmed != "" && !strings.ContainsAny(trimmed, " \t\n") {
		return StrategyKeyword
	}
	return StrategyHybrid
}

// semantic embeds the query and scans the vector index in batches until the
// limit is met or the pool is exhausted. Every batch re-checks relational
// filters and the visibility predicate, since the index may lag profile
// changes.
func (o *Orchestrator) semantic(ctx context.Context, uow unitofwork.UnitOfWork, req Request, limit int) ([]store.Candidate, error) {
	embeddingRes, err := o.embeddingProvider.Generate(req.Query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	vector := embeddingRes.Embedding.Values

	exclude := append([]uuid.UUID{}, req.ExcludeIds...)
	var candidates []store.Candidate

	for len(candidates) < limit {
		scored, err := uow.SpecialistEmbeddingRepository().SearchSimilarWithScore(ctx, contract.SimilarQuery{
			Vector:     vector,
			Limit:      limit * oversampleFactor,
			ExcludeIds: exclude,
			Category:   req.Params.Category,
		})
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
		if len(scored) == 0 {
			break // pool exhausted
		}

		ids := make([]uuid.UUID, 0, len(scored))
		for _, s := range scored {
			ids = append(ids, s.Embedding.SpecialistId)
			exclude = append(exclude, s.Embedding.SpecialistId)
		}

		specs := append([]specification.Specification{specification.ByIDs{IDs: ids}}, filterSpecs(req.Params)...)
		specialists, err := uow.SpecialistRepository().FindAll(ctx, specs...)
		if err != nil {
			return nil, fmt.Errorf("candidate load failed: %w", err)
		}
		byId := make(map[uuid.UUID]*entity.Specialist, len(specialists))
		for _, sp := range specialists {
			byId[sp.Id] = sp
		}

		for _, s := range scored {
			sp, ok := byId[s.Embedding.SpecialistId]
			if !ok || !sp.Visible() {
				continue
			}
			candidates = append(candidates, toCandidate(sp, s.Similarity, "semantic"))
			if len(candidates) >= limit {
				break
			}
		}
	}

	o.logf("[SEARCH] semantic retrieved %d candidates", len(candidates))
	return candidates, nil
}

// keyword runs ILIKE matching over the lexical profile fields.
func (o *Orchestrator) keyword(ctx context.Context, uow unitofwork.UnitOfWork, req Request, limit int) ([]store.Candidate, error) {
	specs := filterSpecs(req.Params)
	if query := strings.TrimSpace(req.Query); query != "" {
		specs = append(specs, specification.KeywordMatch{Query: query})
	}
	specs = append(specs,
		specification.OrderBy{Field: "verified", Desc: true},
		specification.Pagination{Limit: limit * oversampleFactor},
	)

	specialists, err := uow.SpecialistRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	excluded := make(map[uuid.UUID]bool, len(req.ExcludeIds))
	for _, id := range req.ExcludeIds {
		excluded[id] = true
	}

	var candidates []store.Candidate
	for _, sp := range specialists {
		if excluded[sp.Id] || !sp.Visible() {
			continue
		}
		candidates = append(candidates, toCandidate(sp, 0, "keyword"))
		if len(candidates) >= limit {
			break
		}
	}

	o.logf("[SEARCH] keyword retrieved %d candidates", len(candidates))
	return candidates, nil
}

// hybrid oversamples both branches and unions them, first occurrence wins,
// with semantic hits ahead of keyword hits.
func (o *Orchestrator) hybrid(ctx context.Context, uow unitofwork.UnitOfWork, req Request) (*Result, error) {
	degraded := false

	semantic, err := o.semantic(ctx, uow, req, req.Limit*oversampleFactor)
	if err != nil {
		o.logf("[WARN] hybrid semantic branch failed, continuing keyword-only: %v", err)
		semantic = nil
		degraded = true
	}

	keyword, err := o.keyword(ctx, uow, req, req.Limit*oversampleFactor)
	if err != nil {
		o.logf("[WARN] hybrid keyword branch failed, continuing semantic-only: %v", err)
		keyword = nil
		degraded = true
	}

	seen := make(map[string]bool, len(semantic)+len(keyword))
	var merged []store.Candidate
	for _, c := range append(semantic, keyword...) {
		if seen[c.SpecialistId] {
			continue
		}
		seen[c.SpecialistId] = true
		merged = append(merged, c)
		if len(merged) >= req.Limit {
			break
		}
	}

	o.logf("[SEARCH] hybrid merged %d candidates (semantic=%d keyword=%d)",
		len(merged), len(semantic), len(keyword))
	return &Result{Candidates: merged, Strategy: StrategyHybrid, Degraded: degraded}, nil
}

func filterSpecs(params store.SearchParams) []specification.Specification {
	specs := []specification.Specification{specification.AcceptingClients{}}
	if params.Category != "" {
		specs = append(specs, specification.ByCategory{Category: params.Category})
	}
	if params.WorkFormat != "" {
		specs = append(specs, specification.WithFormat{Format: params.WorkFormat})
	}
	if params.City != "" {
		specs = append(specs, specification.InCity{City: params.City})
	}
	if params.MinExperience > 0 {
		specs = append(specs, specification.MinExperience{Years: params.MinExperience})
	}
	if params.MaxPriceMinor > 0 {
		specs = append(specs, specification.MaxPrice{PriceMinor: params.MaxPriceMinor})
	}
	if params.VerifiedOnly {
		specs = append(specs, specification.VerifiedOnly{})
	}
	return specs
}

func toCandidate(sp *entity.Specialist, similarity float64, source string) store.Candidate {
	return store.Candidate{
		SpecialistId: sp.Id.String(),
		Name:         sp.Name,
		Tagline:      sp.Tagline,
		Category:     sp.Category,
		Gender:       sp.Gender,
		WorkFormats:  sp.WorkFormats,
		City:         sp.City,
		Experience:   sp.ExperienceYears,
		PriceMinor:   sp.PriceMinor,
		Verified:     sp.Verified,
		Similarity:   similarity,
		Source:       source,
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}
