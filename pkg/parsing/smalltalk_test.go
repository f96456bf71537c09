package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("hi"))
	assert.True(t, IsGreeting("Hello!"))
	assert.True(t, IsGreeting("  good morning  "))
	assert.True(t, IsGreeting("Namaste"))

	// A greeting followed by an order is an order, not smalltalk.
	assert.False(t, IsGreeting("hello, send 2 kg sugar"))
	assert.False(t, IsGreeting("2 cases maggi noodles"))
}

func TestIsHelpRequest(t *testing.T) {
	assert.True(t, IsHelpRequest("help"))
	assert.True(t, IsHelpRequest("How do I order?"))
	assert.True(t, IsHelpRequest("madad chahiye"))
	assert.True(t, IsHelpRequest("what can you do"))

	assert.False(t, IsHelpRequest("help me find 2 packs parle g"))
}

func TestIsRepeatRequest(t *testing.T) {
	assert.True(t, IsRepeatRequest("repeat"))
	assert.True(t, IsRepeatRequest("Repeat my last order"))
	assert.True(t, IsRepeatRequest("same as last time"))
	assert.True(t, IsRepeatRequest("wahi order"))
	assert.True(t, IsRepeatRequest("wahi order dobara"))
	assert.True(t, IsRepeatRequest("phir se bhejo"))

	assert.False(t, IsRepeatRequest("repeat 2 kg sugar"))
}
