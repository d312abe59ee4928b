package service

import (
	"fmt"
	"math"
	"strings"

	"legiscope-backend/models"
)

// AssessmentMetrics aggregates per-section verdicts into the numbers and
// derived text persisted on the evaluation record
type AssessmentMetrics struct {
	TotalSections   int
	Compliant       int
	NonCompliant    int
	NeedsReview     int
	NotApplicable   int
	OverallScore    int
	RiskFactors     []string
	PriorityActions []string
}

// priorityWeights make critical issues dominate the overall score
var priorityWeights = map[int]float64{
	models.PriorityCritical:      5.0,
	models.PriorityHigh:          3.0,
	models.PriorityMedium:        2.0,
	models.PriorityLow:           1.0,
	models.PriorityInformational: 0.5,
}

var statusScores = map[models.ComplianceStatus]float64{
	models.StatusCompliant:     1.0,
	models.StatusNeedsReview:   0.5,
	models.StatusNotApplicable: 0.8,
	models.StatusNonCompliant:  0.0,
}

// ComplianceAssessor turns a set of per-section evaluations into a
// weighted overall score, risk factors, priority actions, and the
// human-readable summary and recommendation text
type ComplianceAssessor struct{}

// NewComplianceAssessor creates a new compliance assessor
func NewComplianceAssessor() *ComplianceAssessor {
	return &ComplianceAssessor{}
}

// Assess computes the full aggregate metrics for a completed run
func (a *ComplianceAssessor) Assess(evaluations []models.ComplianceEvaluation) AssessmentMetrics {
	metrics := AssessmentMetrics{
		TotalSections: len(evaluations),
		OverallScore:  a.Score(evaluations),
	}

	for _, ev := range evaluations {
		switch ev.ComplianceStatus {
		case models.StatusCompliant:
			metrics.Compliant++
		case models.StatusNonCompliant:
			metrics.NonCompliant++
		case models.StatusNeedsReview:
			metrics.NeedsReview++
		case models.StatusNotApplicable:
			metrics.NotApplicable++
		}
	}

	metrics.RiskFactors = a.RiskFactors(evaluations)
	metrics.PriorityActions = a.PriorityActions(evaluations)

	return metrics
}

// Score computes the priority-weighted compliance score in [0,100].
// Each evaluation contributes weight(priority) * statusScore(status);
// zero evaluations score 0.
func (a *ComplianceAssessor) Score(evaluations []models.ComplianceEvaluation) int {
	if len(evaluations) == 0 {
		return 0
	}

	var numerator, denominator float64
	for _, ev := range evaluations {
		weight, ok := priorityWeights[ev.PriorityLevel]
		if !ok {
			weight = 1.0
		}
		numerator += weight * statusScores[ev.ComplianceStatus]
		denominator += weight
	}

	if denominator == 0 {
		return 0
	}

	score := int(math.Round(100 * numerator / denominator))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RiskFactors derives standalone risk statements from the verdict set
func (a *ComplianceAssessor) RiskFactors(evaluations []models.ComplianceEvaluation) []string {
	risks := make([]string, 0)
	total := len(evaluations)
	if total == 0 {
		return risks
	}

	criticalGaps := 0
	nonCompliant := 0
	lowConfidence := 0
	needsReview := 0

	for _, ev := range evaluations {
		if ev.ComplianceStatus == models.StatusNonCompliant {
			nonCompliant++
			if ev.PriorityLevel <= models.PriorityHigh {
				criticalGaps++
			}
		}
		if ev.ComplianceStatus == models.StatusNeedsReview {
			needsReview++
		}
		if ev.ConfidenceScore < 0.6 {
			lowConfidence++
		}
	}

	if criticalGaps > 0 {
		risks = append(risks, fmt.Sprintf("Critical compliance gaps identified in %d high-priority section(s).", criticalGaps))
	}
	if float64(nonCompliant) > 0.3*float64(total) {
		risks = append(risks, fmt.Sprintf("Non-compliant sections exceed 30%% of the document (%d of %d).", nonCompliant, total))
	}
	if float64(lowConfidence) > 0.2*float64(total) {
		risks = append(risks, "A significant share of verdicts have low confidence; the document requires manual expert review.")
	}
	if needsReview > 5 {
		risks = append(risks, fmt.Sprintf("%d sections could not be conclusively evaluated, indicating significant documentation gaps.", needsReview))
	}

	return risks
}

// PriorityActions returns up to five ordered remediation actions
func (a *ComplianceAssessor) PriorityActions(evaluations []models.ComplianceEvaluation) []string {
	actions := make([]string, 0, 5)

	critical := 0
	needsReview := 0
	for _, ev := range evaluations {
		if ev.ComplianceStatus == models.StatusNonCompliant && ev.PriorityLevel <= models.PriorityHigh {
			critical++
		}
		if ev.ComplianceStatus == models.StatusNeedsReview {
			needsReview++
		}
	}

	if critical > 0 {
		actions = append(actions, fmt.Sprintf("Address %d critical compliance issue(s) immediately.", critical))
	}

	fixes := 0
	for _, ev := range evaluations {
		if fixes >= 3 {
			break
		}
		if ev.PriorityLevel <= models.PriorityHigh && len(strings.TrimSpace(ev.SuggestedFixes)) > 10 {
			actions = append(actions, truncate(ev.SuggestedFixes, 100))
			fixes++
		}
	}

	if needsReview > 0 {
		actions = append(actions, fmt.Sprintf("Schedule manual review for %d flagged section(s).", needsReview))
	}

	if len(actions) > 5 {
		actions = actions[:5]
	}
	return actions
}

// Summary renders the single-paragraph report stored on the evaluation
func (a *ComplianceAssessor) Summary(metrics AssessmentMetrics) string {
	var band string
	switch {
	case metrics.OverallScore >= 80:
		band = "strong compliance"
	case metrics.OverallScore >= 60:
		band = "moderate compliance"
	default:
		band = "significant gaps"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d document section(s) with an overall compliance score of %d/100, indicating %s. ",
		metrics.TotalSections, metrics.OverallScore, band)
	fmt.Fprintf(&b, "Breakdown: %d compliant, %d non-compliant, %d needing review, %d not applicable.",
		metrics.Compliant, metrics.NonCompliant, metrics.NeedsReview, metrics.NotApplicable)

	if len(metrics.RiskFactors) > 0 {
		top := metrics.RiskFactors
		if len(top) > 2 {
			top = top[:2]
		}
		fmt.Fprintf(&b, " Key risks: %s", strings.Join(top, " "))
	}

	return b.String()
}

// Recommendations renders the structured multi-line remediation text
func (a *ComplianceAssessor) Recommendations(evaluations []models.ComplianceEvaluation) string {
	var immediate, moderate []string
	needsReview := 0

	for _, ev := range evaluations {
		if ev.ComplianceStatus == models.StatusNeedsReview {
			needsReview++
		}
		if ev.ComplianceStatus != models.StatusNonCompliant || strings.TrimSpace(ev.SuggestedFixes) == "" {
			continue
		}
		if ev.PriorityLevel <= models.PriorityHigh {
			immediate = append(immediate, ev.SuggestedFixes)
		} else {
			moderate = append(moderate, ev.SuggestedFixes)
		}
	}

	var b strings.Builder

	b.WriteString("IMMEDIATE ACTIONS REQUIRED:\n")
	if len(immediate) == 0 {
		b.WriteString("- None identified.\n")
	}
	for i, fix := range immediate {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", truncate(fix, 200))
	}

	b.WriteString("\nMODERATE PRIORITY IMPROVEMENTS:\n")
	if len(moderate) == 0 {
		b.WriteString("- None identified.\n")
	}
	for i, fix := range moderate {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", truncate(fix, 200))
	}

	fmt.Fprintf(&b, "\nITEMS FOR MANUAL REVIEW:\n- %d section(s) flagged for manual review.\n", needsReview)

	b.WriteString("\nNEXT STEPS:\n")
	b.WriteString("1. Remediate all critical non-compliant sections.\n")
	b.WriteString("2. Re-run the compliance evaluation after updating the document.\n")
	b.WriteString("3. Have flagged sections reviewed by a compliance officer.\n")
	b.WriteString("4. Schedule a periodic re-assessment for this regulation.\n")

	return b.String()
}

// truncate limits text to max characters, appending an ellipsis when cut
func truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
