package assistant

import "strings"

// Intent is the topic a chat message is about.
type Intent string

const (
	IntentEligibility Intent = "eligibility"
	IntentRisk        Intent = "risk"
	IntentEMI         Intent = "emi"
	IntentDocuments   Intent = "documents"
	IntentGeneral     Intent = "general"
)

// DetectIntent classifies text by keyword. Checks run in a fixed order, so
// "is my risk eligible" is an eligibility question.
func DetectIntent(text string) Intent {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "eligib") || strings.Contains(t, "approve"):
		return IntentEligibility
	case strings.Contains(t, "risk"):
		return IntentRisk
	case strings.Contains(t, "emi"):
		return IntentEMI
	case strings.Contains(t, "document") || strings.Contains(t, "doc"):
		return IntentDocuments
	}
	return IntentGeneral
}
