package risk

// DemoProfile is the fixed applicant evaluated by the risk demo endpoint.
func DemoProfile() Profile {
	return Profile{
		income:       85000,
		loanAmount:   2500000,
		age:          35,
		creditScore:  720,
		existingEMIs: 12000,
	}
}

// AssistantProfile is the fixed applicant the assistant uses to answer
// eligibility questions. It intentionally differs from DemoProfile.
func AssistantProfile() Profile {
	return Profile{
		income:       90000,
		loanAmount:   2500000,
		age:          34,
		creditScore:  720,
		existingEMIs: 12000,
	}
}
