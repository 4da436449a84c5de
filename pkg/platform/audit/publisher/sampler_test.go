package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampler_Rates(t *testing.T) {
	s := NewSampler(1)
	assert.True(t, s.ShouldSample("chat_message"))

	s.SetRate("chat_message", 0)
	assert.False(t, s.ShouldSample("chat_message"))
	assert.True(t, s.ShouldSample("document_uploaded"))

	clamped := NewSampler(-3)
	assert.False(t, clamped.ShouldSample("anything"))
	clamped.SetRate("anything", 7)
	assert.True(t, clamped.ShouldSample("anything"))
}
