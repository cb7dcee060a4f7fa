package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/repository/memory"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/match/rank"
	"specialist-match-be/pkg/match/search"
	"specialist-match-be/pkg/question"
	"specialist-match-be/pkg/store"
)

// matchLimit is how many specialists one search turn returns.
const matchLimit = 10

type IMatchingService interface {
	CreateSession(ctx context.Context, req *dto.CreateMatchSessionRequest) (*dto.CreateMatchSessionResponse, error)
	Converse(ctx context.Context, req *dto.ConverseRequest) (*dto.ConverseResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type matchingService struct {
	sessions     *memory.SessionRepository
	uowFactory   unitofwork.RepositoryFactory
	analyzer     *dialog.Analyzer
	generator    *question.Generator
	orchestrator *search.Orchestrator
	fusion       *rank.Fusion
	reranker     *rank.Reranker // nil when the generative refinement is disabled
	logger       *log.Logger
}

func NewMatchingService(
	sessions *memory.SessionRepository,
	uowFactory unitofwork.RepositoryFactory,
	analyzer *dialog.Analyzer,
	generator *question.Generator,
	orchestrator *search.Orchestrator,
	fusion *rank.Fusion,
	reranker *rank.Reranker,
	logger *log.Logger,
) IMatchingService {
	return &matchingService{
		sessions:     sessions,
		uowFactory:   uowFactory,
		analyzer:     analyzer,
		generator:    generator,
		orchestrator: orchestrator,
		fusion:       fusion,
		reranker:     reranker,
		logger:       logger,
	}
}

func (s *matchingService) CreateSession(ctx context.Context, req *dto.CreateMatchSessionRequest) (*dto.CreateMatchSessionResponse, error) {
	sessionId := uuid.New()
	state := store.NewConversationState(sessionId.String(), req.UserId)
	s.sessions.Save(state)

	return &dto.CreateMatchSessionResponse{
		SessionId: sessionId,
	}, nil
}

// Converse advances the conversation one turn: extract slots from the new
// utterance, analyze the state, then either ask the next questions or run
// the search and return ranked matches.
func (s *matchingService) Converse(ctx context.Context, req *dto.ConverseRequest) (*dto.ConverseResponse, error) {
	state, found := s.sessions.Get(req.SessionId.String())
	if !found {
		return nil, fmt.Errorf("session %s not found or expired", req.SessionId)
	}

	if req.Message != "" {
		state.Turns = append(state.Turns, store.Turn{Role: "user", Text: req.Message})
		dialog.ExtractSlots(state)
	}
	applyAnswers(state, req.Answers)

	analysis := s.analyzer.Analyze(state)
	result, err := s.generator.Generate(ctx, question.GenerationContext{
		State:    state,
		Analysis: analysis,
	})
	if err != nil {
		return nil, err
	}

	res := &dto.ConverseResponse{
		SessionId:      req.SessionId,
		Stage:          string(analysis.Stage),
		Confidence:     analysis.Confidence,
		ForceProceeded: analysis.ForceProceeded,
	}

	if !result.ShouldSearch {
		state.QuestionsAsked = append(state.QuestionsAsked, result.Questions...)
		for _, q := range result.Questions {
			state.Turns = append(state.Turns, store.Turn{Role: "assistant", Text: q.Prompt})
		}
		s.sessions.Save(state)
		res.Questions = result.Questions
		return res, nil
	}

	matches, degraded, err := s.runSearch(ctx, state, analysis)
	if err != nil {
		return nil, err
	}
	s.sessions.Save(state)

	res.SearchPerformed = true
	res.Matches = matches
	res.Degraded = degraded
	return res, nil
}

func (s *matchingService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	s.sessions.Delete(sessionId.String())
	return nil
}

func (s *matchingService) runSearch(ctx context.Context, state *store.ConversationState, analysis dialog.Analysis) ([]dto.MatchDTO, bool, error) {
	params := searchParamsFrom(state, analysis)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	searchRes, err := s.orchestrator.Execute(ctx, uow, search.Request{
		Query:     state.UserText(),
		Params:    params,
		SlotCount: len(state.CollectedSlots),
		Limit:     matchLimit,
	})
	if err != nil {
		return nil, false, err
	}

	ranked := s.fusion.Rank(searchRes.Candidates, state.Profile, analysis.Category, params)
	if s.reranker != nil {
		ranked = s.reranker.Refine(ctx, ranked, state.Profile, state.UserText())
	}

	matches := make([]dto.MatchDTO, 0, len(ranked))
	for _, rc := range ranked {
		matches = append(matches, dto.ToMatchDTO(rc))
	}

	s.logf("[MATCH] session=%s strategy=%s degraded=%v matches=%d",
		state.SessionId, searchRes.Strategy, searchRes.Degraded, len(matches))
	return matches, searchRes.Degraded, nil
}

// applyAnswers merges structured question answers into the slot state.
// Answers are authoritative over lexical extraction for the same slot.
func applyAnswers(state *store.ConversationState, answers map[string]any) {
	if len(answers) == 0 {
		return
	}
	if state.CollectedSlots == nil {
		state.CollectedSlots = map[string]any{}
	}
	for slot, value := range answers {
		state.CollectedSlots[slot] = value
		if str, ok := value.(string); ok {
			switch slot {
			case dialog.SlotGender:
				state.Profile.Gender = str
			case dialog.SlotAgeBracket:
				state.Profile.AgeBracket = str
			case dialog.SlotExperienceLevel:
				state.Profile.ExperienceLevel = str
			case "communication_style":
				state.Profile.CommunicationStyle = str
			}
		}
	}
}

// searchParamsFrom lifts collected slots into relational filters.
func searchParamsFrom(state *store.ConversationState, analysis dialog.Analysis) store.SearchParams {
	params := store.SearchParams{
		Category:   analysis.Category,
		WorkFormat: state.SlotString(dialog.SlotWorkFormat),
		City:       state.SlotString("city"),
	}
	if v, ok := state.CollectedSlots[dialog.SlotBudget]; ok {
		// Budget slots arrive in major currency units; the store keeps
		// minor units.
		switch budget := v.(type) {
		case float64:
			params.MaxPriceMinor = int64(budget * 100)
		case int:
			params.MaxPriceMinor = int64(budget) * 100
		case int64:
			params.MaxPriceMinor = budget * 100
		}
	}
	return params
}

func (s *matchingService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
