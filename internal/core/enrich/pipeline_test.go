package enrich

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"kitchen-companion/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type stubChat struct {
	reply string
	err   error
	got   []common.Message
}

func (s *stubChat) Complete(ctx context.Context, messages []common.Message) (string, error) {
	s.got = messages
	return s.reply, s.err
}

type stubMetadata struct {
	meta  common.RecipeMetadata
	query string
}

func (s *stubMetadata) Lookup(ctx context.Context, query string) common.RecipeMetadata {
	s.query = query
	return s.meta
}

type stubPantry struct {
	items []string
	err   error
}

func (s *stubPantry) Pantry(ctx context.Context, userID string) ([]string, error) {
	return s.items, s.err
}

func newTestPipeline(chat ChatService, meta MetadataService, pantry PantryStore) *Pipeline {
	matcher := NewMatcher(testCatalog(), 4, 3, rand.NewSource(1))
	return NewPipeline(chat, meta, pantry, NewExtractor(), matcher)
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestEnrichFullFlow(t *testing.T) {
	chat := &stubChat{reply: "Classic cookies coming right up!\n" +
		"\n" +
		"Ingredients:\n" +
		"- 2 cups flour\n" +
		"- 1 cup sugar\n" +
		"- mixer required\n" +
		"\n" +
		"Cream the butter with your mixer, fold in the flour, and bake."}
	meta := &stubMetadata{meta: common.RecipeMetadata{
		ImageURL: strPtr("https://img.example.com/cookies.jpg"),
		Nutrients: []common.Nutrient{
			{Name: "Calories", Amount: 420, Unit: "kcal"},
			{Name: "Fat", Amount: 18, Unit: "g"},
		},
		Servings:       intPtr(12),
		ReadyInMinutes: intPtr(45),
	}}
	pantry := &stubPantry{items: []string{"butter", "sugar"}}

	p := newTestPipeline(chat, meta, pantry)
	resp, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "can you give me a cookie recipe"},
	})
	require.NoError(t, err)

	// Metadata lookup keys off the last user message.
	assert.Equal(t, "can you give me a cookie recipe", meta.query)

	// Title decoration wraps the linked reply.
	assert.True(t, strings.HasPrefix(resp.Reply, "**🍽️ Recipe: Can You Give Me A Cookie Recipe**\n\n"))
	assert.Contains(t, resp.Reply, "](https://amzn.to/m1)")

	// Extraction runs on the raw reply, untouched by link injection.
	assert.Equal(t, []string{"flour", "sugar", "mixer required"}, resp.Ingredients)

	// Pantry reconciliation: sugar is stocked, the rest is missing.
	assert.Equal(t, []string{"flour", "mixer required"}, resp.MissingIngredients)
	assert.Equal(t, "https://www.instacart.com/store/s?k=flour,mixer required", resp.InstacartLink)
	assert.Equal(t, "https://www.amazon.com/s?k=flour,mixer required", resp.AmazonLink)

	// Metadata is passed through as-is.
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "https://img.example.com/cookies.jpg", *resp.ImageURL)
	assert.Len(t, resp.Nutrition, 2)
	assert.Equal(t, 12, *resp.Servings)
	assert.Equal(t, 45, *resp.Time)
}

func TestEnrichMetadataUnavailable(t *testing.T) {
	chat := &stubChat{reply: "Try this:\n- 2 cups flour\n- salt"}
	meta := &stubMetadata{} // lookup degraded, all fields empty
	pantry := &stubPantry{}

	p := newTestPipeline(chat, meta, pantry)
	resp, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "bread recipe"},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.Servings)
	assert.Nil(t, resp.Time)
	assert.Empty(t, resp.Nutrition)
	// The rest of the pipeline still completes.
	assert.Equal(t, []string{"flour", "salt"}, resp.Ingredients)
}

type slowMetadata struct {
	delay time.Duration
}

func (s slowMetadata) Lookup(ctx context.Context, query string) common.RecipeMetadata {
	time.Sleep(s.delay)
	return common.RecipeMetadata{}
}

func TestEnrichSlowMetadataLookup(t *testing.T) {
	chat := &stubChat{reply: "- 2 cups flour\n- 1 cup sugar"}
	matcher := NewMatcher(testCatalog(), 4, 3, rand.NewSource(1))
	p := NewPipeline(chat, slowMetadata{delay: 50 * time.Millisecond}, &stubPantry{}, NewExtractor(), matcher)

	resp, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "cake recipe"},
	})
	require.NoError(t, err)

	// A lookup that only beats its deadline with empty hands never blocks the
	// reply: metadata fields are null, everything else is fully populated.
	assert.Nil(t, resp.ImageURL)
	assert.Nil(t, resp.Servings)
	assert.Nil(t, resp.Time)
	assert.Empty(t, resp.Nutrition)
	assert.Equal(t, []string{"flour", "sugar"}, resp.Ingredients)
	assert.Equal(t, []string{"flour", "sugar"}, resp.MissingIngredients)
	assert.NotEmpty(t, resp.InstacartLink)
}

func TestEnrichPantryFailureDegrades(t *testing.T) {
	chat := &stubChat{reply: "- 2 cups flour\n- 1 cup sugar"}
	pantry := &stubPantry{err: errors.New("redis: connection refused")}

	p := newTestPipeline(chat, &stubMetadata{}, pantry)
	resp, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "cake recipe"},
	})
	require.NoError(t, err)

	// Pantry failure means everything counts as missing.
	assert.Equal(t, []string{"flour", "sugar"}, resp.MissingIngredients)
}

func TestEnrichNoIngredientsUsesDefaults(t *testing.T) {
	chat := &stubChat{reply: "Just preheat the oven and follow your instincts."}
	pantry := &stubPantry{items: []string{"flour", "eggs"}}

	p := newTestPipeline(chat, &stubMetadata{}, pantry)
	resp, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "what should I bake"},
	})
	require.NoError(t, err)

	// Nothing extracted: the response reports no ingredients, but the
	// shopping list falls back to the stand-in list for reconciliation.
	assert.Empty(t, resp.Ingredients)
	assert.Equal(t, []string{"sugar", "butter"}, resp.MissingIngredients)
}

func TestEnrichChatFailure(t *testing.T) {
	chat := &stubChat{err: errors.New("upstream 500")}

	p := newTestPipeline(chat, &stubMetadata{}, &stubPantry{})
	_, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "cookie recipe"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestEnrichRejectsMissingUserID(t *testing.T) {
	p := newTestPipeline(&stubChat{}, &stubMetadata{}, &stubPantry{})

	_, err := p.Enrich(context.Background(), "", []common.Message{
		{Role: common.RoleUser, Content: "cookie recipe"},
	})
	assert.ErrorIs(t, err, common.ErrMissingUserID)
}

func TestEnrichRejectsEmptyConversation(t *testing.T) {
	p := newTestPipeline(&stubChat{}, &stubMetadata{}, &stubPantry{})

	_, err := p.Enrich(context.Background(), "user-1", nil)
	require.Error(t, err)
}

func TestEnrichRejectsConversationWithoutUserMessage(t *testing.T) {
	p := newTestPipeline(&stubChat{}, &stubMetadata{}, &stubPantry{})

	_, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleSystem, Content: "You are a helpful assistant."},
	})
	require.Error(t, err)
}

func TestEnrichUsesLastUserMessage(t *testing.T) {
	chat := &stubChat{reply: "- salt"}
	meta := &stubMetadata{}

	p := newTestPipeline(chat, meta, &stubPantry{})
	_, err := p.Enrich(context.Background(), "user-1", []common.Message{
		{Role: common.RoleUser, Content: "a pasta recipe"},
		{Role: common.RoleAssistant, Content: "Here is a pasta recipe..."},
		{Role: common.RoleUser, Content: "make it vegetarian"},
	})
	require.NoError(t, err)
	assert.Equal(t, "make it vegetarian", meta.query)
}
