package handlers

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"kitchen-companion/internal/core/enrich"
	"kitchen-companion/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeChat struct {
	reply string
	err   error
	got   []common.Message
}

func (f *fakeChat) Complete(ctx context.Context, messages []common.Message) (string, error) {
	f.got = messages
	return f.reply, f.err
}

type fakeMetadata struct{}

func (fakeMetadata) Lookup(ctx context.Context, query string) common.RecipeMetadata {
	return common.RecipeMetadata{}
}

type fakeProfile struct {
	preferences []string
	pantry      []string
	err         error
}

func (f *fakeProfile) Preferences(ctx context.Context, userID string) ([]string, error) {
	return f.preferences, f.err
}

func (f *fakeProfile) Pantry(ctx context.Context, userID string) ([]string, error) {
	return f.pantry, f.err
}

func newTestRouter(chat *fakeChat, profile *fakeProfile) *gin.Engine {
	matcher := enrich.NewMatcher(enrich.DefaultCatalog(), 4, 3, rand.NewSource(1))
	pipeline := enrich.NewPipeline(chat, fakeMetadata{}, profile, enrich.NewExtractor(), matcher)

	router := gin.New()
	router.POST("/api/v1/chat/ask", NewChatHandler(pipeline, profile).Ask)
	return router
}

func doAsk(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAsk(t *testing.T) {
	chat := &fakeChat{reply: "Sure!\n\nIngredients:\n- 2 cups flour\n- 1 cup sugar"}
	profile := &fakeProfile{preferences: []string{"vegetarian"}, pantry: []string{"sugar"}}
	router := newTestRouter(chat, profile)

	w := doAsk(router, `{"user_id":"u1","messages":[{"role":"user","content":"cookie recipe"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp enrich.EnrichedResponse
	require.NoError(t, common.ParseJSON(w.Body.String(), &resp))

	assert.True(t, strings.HasPrefix(resp.Reply, "**🍽️ Recipe: Cookie Recipe**"))
	assert.Equal(t, []string{"flour", "sugar"}, resp.Ingredients)
	assert.Equal(t, []string{"flour"}, resp.MissingIngredients)

	// The system prompt carries the stored profile.
	require.NotEmpty(t, chat.got)
	assert.Equal(t, common.RoleSystem, chat.got[0].Role)
	assert.Contains(t, chat.got[0].Content, "vegetarian")
	assert.Contains(t, chat.got[0].Content, "sugar")
}

func TestAskResponseShape(t *testing.T) {
	chat := &fakeChat{reply: "Just wing it."}
	router := newTestRouter(chat, &fakeProfile{})

	w := doAsk(router, `{"user_id":"u1","messages":[{"role":"user","content":"dinner ideas"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Optional fields serialize as null, never disappear.
	body := w.Body.String()
	assert.Contains(t, body, `"image_url":null`)
	assert.Contains(t, body, `"servings":null`)
	assert.Contains(t, body, `"time":null`)
}

func TestAskMissingUserID(t *testing.T) {
	router := newTestRouter(&fakeChat{reply: "ok"}, &fakeProfile{})

	w := doAsk(router, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskEmptyMessages(t *testing.T) {
	router := newTestRouter(&fakeChat{reply: "ok"}, &fakeProfile{})

	w := doAsk(router, `{"user_id":"u1","messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskNoUserMessage(t *testing.T) {
	router := newTestRouter(&fakeChat{reply: "ok"}, &fakeProfile{})

	w := doAsk(router, `{"user_id":"u1","messages":[{"role":"assistant","content":"hello"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskMalformedJSON(t *testing.T) {
	router := newTestRouter(&fakeChat{reply: "ok"}, &fakeProfile{})

	w := doAsk(router, `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskGenerationFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("upstream 500")}
	router := newTestRouter(chat, &fakeProfile{})

	w := doAsk(router, `{"user_id":"u1","messages":[{"role":"user","content":"cookie recipe"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "GENERATION_FAILED")
}

func TestAskProfileFailureDegrades(t *testing.T) {
	chat := &fakeChat{reply: "- salt"}
	profile := &fakeProfile{err: errors.New("redis down")}
	router := newTestRouter(chat, profile)

	w := doAsk(router, `{"user_id":"u1","messages":[{"role":"user","content":"soup"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	// With no profile, the system prompt carries neither preferences nor pantry.
	require.NotEmpty(t, chat.got)
	assert.NotContains(t, chat.got[0].Content, "dietary preferences")
}
