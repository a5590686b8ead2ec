package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastUserMessage(t *testing.T) {
	messages := []Message{
		{Role: RoleSystem, Content: "You are a culinary assistant."},
		{Role: RoleUser, Content: "a pasta recipe"},
		{Role: RoleAssistant, Content: "Here you go..."},
		{Role: RoleUser, Content: "make it vegetarian"},
	}

	got, err := LastUserMessage(messages)
	require.NoError(t, err)
	assert.Equal(t, "make it vegetarian", got)
}

func TestLastUserMessageMissing(t *testing.T) {
	_, err := LastUserMessage([]Message{
		{Role: RoleSystem, Content: "You are a culinary assistant."},
		{Role: RoleAssistant, Content: "Hello!"},
	})
	assert.ErrorIs(t, err, ErrNoUserMessage)
}

func TestValidateConversation(t *testing.T) {
	err := ValidateConversation([]Message{{Role: RoleUser, Content: "hi"}})
	assert.NoError(t, err)

	assert.Error(t, ValidateConversation(nil))
	assert.Error(t, ValidateConversation([]Message{{Role: RoleAssistant, Content: "hi"}}))
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt([]string{"vegan", "gluten-free"}, []string{"flour", "sugar"})

	assert.Contains(t, prompt, "Kitchen Companion")
	assert.Contains(t, prompt, "vegan, gluten-free")
	assert.Contains(t, prompt, "flour, sugar")
	assert.Contains(t, prompt, "markdown bullet lines")
}

func TestBuildSystemPromptEmptyProfile(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	assert.Contains(t, prompt, "Kitchen Companion")
	assert.NotContains(t, prompt, "dietary preferences")
	assert.NotContains(t, prompt, "pantry items")
}
