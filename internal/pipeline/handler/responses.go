package handler

import (
	"time"

	"finai/internal/pipeline"
	"finai/internal/pipeline/service"
	"finai/internal/risk"
)

type ApplicationResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	PAN                 string    `json:"pan"`
	Credit              int       `json:"credit"`
	Salary              string    `json:"salary"`
	LoanAmount          string    `json:"loan_amount"`
	FOIR                string    `json:"foir"`
	Risk                float64   `json:"risk"`
	Category            string    `json:"category"`
	ApprovalProbability float64   `json:"approval_probability"`
	Decision            string    `json:"decision"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
}

type PipelineResponse struct {
	Stages        map[string]int        `json:"stages"`
	Applications  []ApplicationResponse `json:"applications"`
	AverageRisk   float64               `json:"average_risk"`
	ApprovalRate  float64               `json:"approval_rate"`
	PipelineValue string                `json:"pipeline_value"`
	TotalAmount   string                `json:"total_amount"`
}

type DistributionResponse struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type RiskApplicantResponse struct {
	Name     string  `json:"name"`
	PAN      string  `json:"pan"`
	Credit   int     `json:"credit"`
	FOIR     string  `json:"foir"`
	Risk     float64 `json:"risk"`
	Category string  `json:"category"`
	Decision string  `json:"decision"`
}

type RiskOverviewResponse struct {
	AverageRisk  float64                 `json:"average_risk"`
	Distribution DistributionResponse    `json:"distribution"`
	Applicants   []RiskApplicantResponse `json:"applicants"`
}

type DashboardStats struct {
	TotalLeads   int     `json:"total_leads"`
	Applications int     `json:"applications"`
	ApprovalRate float64 `json:"approval_rate"`
	AvgRiskScore float64 `json:"avg_risk_score"`
}

type RecentLeadResponse struct {
	Name   string  `json:"name"`
	Amount string  `json:"amount"`
	Score  float64 `json:"score"`
	Status string  `json:"status"`
}

type DashboardResponse struct {
	Stats            DashboardStats       `json:"stats"`
	RiskDistribution DistributionResponse `json:"risk_distribution"`
	PipelineValue    string               `json:"pipeline_value"`
	Approved         int                  `json:"approved"`
	Rejected         int                  `json:"rejected"`
	PipelineSummary  map[string]int       `json:"pipeline_summary"`
	RecentLeads      []RecentLeadResponse `json:"recent_leads"`
}

const recentLeadCount = 5

func toApplicationResponse(r service.Row) ApplicationResponse {
	return ApplicationResponse{
		ID:                  r.ID.String(),
		Name:                r.Name,
		PAN:                 r.PAN,
		Credit:              r.Credit,
		Salary:              pipeline.FormatRupees(r.Income),
		LoanAmount:          pipeline.FormatRupees(r.LoanAmount),
		FOIR:                r.FOIR,
		Risk:                r.Risk,
		Category:            r.Category.String(),
		ApprovalProbability: r.ApprovalProbability,
		Decision:            r.Decision.String(),
		Status:              r.Status.String(),
		CreatedAt:           r.CreatedAt,
	}
}

func toStages(s *service.Summary) map[string]int {
	out := make(map[string]int, len(s.Stages))
	for st, n := range s.Stages {
		out[st.String()] = n
	}
	return out
}

func toDistribution(s *service.Summary) DistributionResponse {
	return DistributionResponse{
		Low:    s.Distribution[risk.TierLow],
		Medium: s.Distribution[risk.TierMedium],
		High:   s.Distribution[risk.TierHigh],
	}
}

func toPipelineResponse(s *service.Summary) PipelineResponse {
	apps := make([]ApplicationResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		apps = append(apps, toApplicationResponse(r))
	}
	return PipelineResponse{
		Stages:        toStages(s),
		Applications:  apps,
		AverageRisk:   s.AverageRisk,
		ApprovalRate:  s.ApprovalRate,
		PipelineValue: pipeline.FormatCompactRupees(s.PipelineValue),
		TotalAmount:   s.PipelineValue.StringFixed(2),
	}
}

func toRiskOverview(s *service.Summary) RiskOverviewResponse {
	applicants := make([]RiskApplicantResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		applicants = append(applicants, RiskApplicantResponse{
			Name:     r.Name,
			PAN:      r.PAN,
			Credit:   r.Credit,
			FOIR:     r.FOIR,
			Risk:     r.Risk,
			Category: r.Category.String(),
			Decision: r.Decision.String(),
		})
	}
	return RiskOverviewResponse{
		AverageRisk:  s.AverageRisk,
		Distribution: toDistribution(s),
		Applicants:   applicants,
	}
}

func toDashboard(s *service.Summary) DashboardResponse {
	recent := s.Recent(recentLeadCount)
	leads := make([]RecentLeadResponse, 0, len(recent))
	for _, r := range recent {
		leads = append(leads, RecentLeadResponse{
			Name:   r.Name,
			Amount: pipeline.FormatRupees(r.LoanAmount),
			Score:  r.Risk,
			Status: r.Status.String(),
		})
	}
	return DashboardResponse{
		Stats: DashboardStats{
			TotalLeads:   len(s.Rows),
			Applications: len(s.Rows) - s.CountStatus(pipeline.StatusLeadIntake),
			ApprovalRate: s.ApprovalRate,
			AvgRiskScore: s.AverageRisk,
		},
		RiskDistribution: toDistribution(s),
		PipelineValue:    pipeline.FormatCompactRupees(s.PipelineValue),
		Approved:         s.CountStatus(pipeline.StatusApproved),
		Rejected:         s.CountStatus(pipeline.StatusRejected),
		PipelineSummary:  toStages(s),
		RecentLeads:      leads,
	}
}
