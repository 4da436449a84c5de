package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finai/internal/risk"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"Am I eligible for a home loan?", IntentEligibility},
		{"Will the bank APPROVE me", IntentEligibility},
		{"what is my risk", IntentRisk},
		{"is my risk eligible", IntentEligibility},
		{"How much EMI can I afford", IntentEMI},
		{"which documents do I need", IntentDocuments},
		{"send the doc list", IntentDocuments},
		{"hello", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntent(tt.text))
		})
	}
}

func TestResponder_Reply(t *testing.T) {
	r := NewResponder(risk.NewEngine())

	t.Run("eligibility uses the assistant applicant", func(t *testing.T) {
		reply, err := r.Reply("Am I eligible?")
		require.NoError(t, err)
		assert.Equal(t, "Approval probability is 46.8% with Medium risk. Recommendation: Reject.", reply)
	})

	t.Run("canned answers", func(t *testing.T) {
		for msg, want := range map[string]string{
			"risk factors?":  replyRisk,
			"emi limit":      replyEMI,
			"documents list": replyDocuments,
			"hi there":       replyGeneral,
		} {
			reply, err := r.Reply(msg)
			require.NoError(t, err)
			assert.Equal(t, want, reply, msg)
		}
	})
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "46.8", formatPercent(46.8))
	assert.Equal(t, "50.0", formatPercent(50))
	assert.Equal(t, "100.0", formatPercent(100))
	assert.Equal(t, "48.75", formatPercent(48.75))
	assert.Equal(t, "0.0", formatPercent(0))
}

func TestSession_Title(t *testing.T) {
	assert.Equal(t, "New Chat", Session{ChatID: "a"}.Title())
	assert.Equal(t, "short", Session{FirstMessage: "short"}.Title())

	long := strings.Repeat("ऋण", 30)
	title := Session{FirstMessage: long}.Title()
	assert.Equal(t, 40, len([]rune(title)))
	assert.True(t, strings.HasPrefix(long, title))
}
