package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/memory"
	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/match/rank"
	"specialist-match-be/pkg/match/search"
	"specialist-match-be/pkg/question"
)

// matchingFixture wires the full pipeline over in-memory stores with the
// LLM paths disabled, so every turn exercises the deterministic fallbacks.
func matchingFixture(t *testing.T) (IMatchingService, *listSpecialistRepo, *memory.SpecialistEmbeddingRepository) {
	t.Helper()

	repo := &listSpecialistRepo{}
	index := memory.NewSpecialistEmbeddingRepository()
	factory := &stubFactory{uow: &stubUow{specialists: repo, embeddings: index}}

	svc := NewMatchingService(
		memory.NewSessionRepository(),
		factory,
		dialog.NewAnalyzer(nil),
		question.NewGenerator(nil, question.NewLocalCache(), nil),
		search.NewOrchestrator(&flakyEmbedder{failCall: -1}, nil),
		rank.NewFusion(nil),
		nil,
		nil,
	)
	return svc, repo, index
}

func seedPsychologist(repo *listSpecialistRepo, index *memory.SpecialistEmbeddingRepository, name string) *entity.Specialist {
	sp := &entity.Specialist{
		Id:               uuid.New(),
		Name:             name,
		Tagline:          "anxiety and stress therapy",
		Description:      name + " is a licensed therapist",
		Category:         entity.CategoryPsychology,
		WorkFormats:      []string{entity.FormatOnline},
		ExperienceYears:  6,
		PriceMinor:       350000,
		Verified:         true,
		AcceptingClients: true,
		ContactQuota:     3,
	}
	repo.specialists = append(repo.specialists, sp)
	_ = index.Upsert(context.Background(), &entity.SpecialistEmbedding{
		SpecialistId:   sp.Id,
		Category:       sp.Category,
		EmbeddingValue: []float32{1, 0, 0},
		ModelVersion:   "test-001",
	})
	return sp
}

func TestConverseFullFlow(t *testing.T) {
	svc, repo, index := matchingFixture(t)
	seedPsychologist(repo, index, "Dr. Anna")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateMatchSessionRequest{UserId: "user-1"})
	require.NoError(t, err)

	// Turn 1: vague opener. Identity is missing, so the pipeline must ask
	// identity questions rather than search.
	res, err := svc.Converse(ctx, &dto.ConverseRequest{
		SessionId: created.SessionId,
		Message:   "I keep having anxiety and panic attacks, I want help from a therapist",
	})
	require.NoError(t, err)
	assert.Equal(t, string(dialog.StageCollectingIdentity), res.Stage)
	assert.False(t, res.SearchPerformed)
	require.NotEmpty(t, res.Questions)

	// Turn 2: structured answers fill identity plus the remaining
	// clarification slots; the analyzer should now be ready and the
	// pipeline should return ranked matches.
	res, err = svc.Converse(ctx, &dto.ConverseRequest{
		SessionId: created.SessionId,
		Message:   "I am looking for online sessions, this is my first time in therapy and I need help with my anxiety soon",
		Answers: map[string]any{
			dialog.SlotGender:     "female",
			dialog.SlotAgeBracket: "26-35",
			dialog.SlotUrgency:    "soon",
			"communication_style": "gentle",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(dialog.StageReadyToSearch), res.Stage)
	assert.True(t, res.SearchPerformed)
	require.NotEmpty(t, res.Matches)
	assert.Equal(t, "Dr. Anna", res.Matches[0].Name)
	assert.GreaterOrEqual(t, len(res.Matches[0].MatchReasons), 2)
	assert.False(t, res.Degraded)
}

func TestConverseUnknownSession(t *testing.T) {
	svc, _, _ := matchingFixture(t)
	_, err := svc.Converse(context.Background(), &dto.ConverseRequest{
		SessionId: uuid.New(),
		Message:   "hello",
	})
	assert.Error(t, err)
}

func TestDeleteSessionForgetsState(t *testing.T) {
	svc, _, _ := matchingFixture(t)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateMatchSessionRequest{UserId: "user-1"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(ctx, created.SessionId))

	_, err = svc.Converse(ctx, &dto.ConverseRequest{SessionId: created.SessionId, Message: "hi"})
	assert.Error(t, err)
}
