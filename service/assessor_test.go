package service

import (
	"strings"
	"testing"

	"legiscope-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(status models.ComplianceStatus, priority int, confidence float64) models.ComplianceEvaluation {
	return models.ComplianceEvaluation{
		ComplianceStatus:  status,
		ConfidenceScore:   confidence,
		ArticleReferences: []string{},
		PriorityLevel:     priority,
	}
}

func TestScoreAllCompliant(t *testing.T) {
	a := NewComplianceAssessor()

	evaluations := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityCritical, 0.9),
		eval(models.StatusCompliant, models.PriorityMedium, 0.8),
		eval(models.StatusCompliant, models.PriorityInformational, 0.95),
	}

	assert.Equal(t, 100, a.Score(evaluations))
}

func TestScoreEmpty(t *testing.T) {
	a := NewComplianceAssessor()
	assert.Equal(t, 0, a.Score(nil))
	assert.Equal(t, 0, a.Score([]models.ComplianceEvaluation{}))
}

func TestScoreAllNonCompliant(t *testing.T) {
	a := NewComplianceAssessor()

	evaluations := []models.ComplianceEvaluation{
		eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
		eval(models.StatusNonCompliant, models.PriorityLow, 0.9),
	}

	assert.Equal(t, 0, a.Score(evaluations))
}

func TestScoreCriticalFailureDominates(t *testing.T) {
	a := NewComplianceAssessor()

	// One critical non-compliant section drags the score down much more
	// than an informational one does.
	withCritical := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
	}
	withInformational := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusNonCompliant, models.PriorityInformational, 0.9),
	}

	assert.Less(t, a.Score(withCritical), a.Score(withInformational))
}

func TestScoreImprovesWhenSectionFixed(t *testing.T) {
	a := NewComplianceAssessor()

	before := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
	}
	after := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusCompliant, models.PriorityCritical, 0.9),
	}

	assert.Greater(t, a.Score(after), a.Score(before))
}

func TestScoreMixedStatuses(t *testing.T) {
	a := NewComplianceAssessor()

	// Weights: medium=2.0 each. Status scores: 1.0, 0.5, 0.8, 0.0.
	evaluations := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		eval(models.StatusNeedsReview, models.PriorityMedium, 0.4),
		eval(models.StatusNotApplicable, models.PriorityMedium, 0.9),
		eval(models.StatusNonCompliant, models.PriorityMedium, 0.9),
	}

	// (1.0+0.5+0.8+0.0)/4 = 0.575 -> 58
	assert.Equal(t, 58, a.Score(evaluations))
}

func TestAssessCounts(t *testing.T) {
	a := NewComplianceAssessor()

	evaluations := []models.ComplianceEvaluation{
		eval(models.StatusCompliant, models.PriorityLow, 0.9),
		eval(models.StatusCompliant, models.PriorityLow, 0.9),
		eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
		eval(models.StatusNeedsReview, models.PriorityMedium, 0.3),
		eval(models.StatusNotApplicable, models.PriorityInformational, 0.9),
	}

	metrics := a.Assess(evaluations)
	assert.Equal(t, 5, metrics.TotalSections)
	assert.Equal(t, 2, metrics.Compliant)
	assert.Equal(t, 1, metrics.NonCompliant)
	assert.Equal(t, 1, metrics.NeedsReview)
	assert.Equal(t, 1, metrics.NotApplicable)
	assert.Equal(t, 2+1+1+1, metrics.Compliant+metrics.NonCompliant+metrics.NeedsReview+metrics.NotApplicable)
}

func TestRiskFactors(t *testing.T) {
	a := NewComplianceAssessor()

	t.Run("no risks for clean run", func(t *testing.T) {
		evaluations := []models.ComplianceEvaluation{
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		}
		assert.Empty(t, a.RiskFactors(evaluations))
	})

	t.Run("critical gaps flagged", func(t *testing.T) {
		evaluations := []models.ComplianceEvaluation{
			eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		}
		risks := a.RiskFactors(evaluations)
		require.NotEmpty(t, risks)
		assert.Contains(t, risks[0], "Critical compliance gaps")
	})

	t.Run("low confidence flagged", func(t *testing.T) {
		evaluations := []models.ComplianceEvaluation{
			eval(models.StatusCompliant, models.PriorityMedium, 0.3),
			eval(models.StatusCompliant, models.PriorityMedium, 0.4),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
			eval(models.StatusCompliant, models.PriorityMedium, 0.9),
		}
		risks := a.RiskFactors(evaluations)
		require.Len(t, risks, 1)
		assert.Contains(t, risks[0], "manual expert review")
	})

	t.Run("many needs review flagged", func(t *testing.T) {
		var evaluations []models.ComplianceEvaluation
		for i := 0; i < 6; i++ {
			evaluations = append(evaluations, eval(models.StatusNeedsReview, models.PriorityMedium, 0.9))
		}
		for i := 0; i < 20; i++ {
			evaluations = append(evaluations, eval(models.StatusCompliant, models.PriorityMedium, 0.9))
		}
		risks := a.RiskFactors(evaluations)
		require.Len(t, risks, 1)
		assert.Contains(t, risks[0], "documentation gaps")
	})

	t.Run("empty input yields no risks", func(t *testing.T) {
		assert.Empty(t, a.RiskFactors(nil))
	})
}

func TestPriorityActions(t *testing.T) {
	a := NewComplianceAssessor()

	t.Run("critical issues lead", func(t *testing.T) {
		evaluations := []models.ComplianceEvaluation{
			eval(models.StatusNonCompliant, models.PriorityCritical, 0.9),
			eval(models.StatusNonCompliant, models.PriorityHigh, 0.9),
		}
		actions := a.PriorityActions(evaluations)
		require.NotEmpty(t, actions)
		assert.Contains(t, actions[0], "2 critical compliance issue(s)")
	})

	t.Run("suggested fixes included and truncated", func(t *testing.T) {
		ev1 := eval(models.StatusNonCompliant, models.PriorityCritical, 0.9)
		ev1.SuggestedFixes = strings.Repeat("add an explicit retention clause ", 10)

		actions := a.PriorityActions([]models.ComplianceEvaluation{ev1})
		require.Len(t, actions, 2)
		assert.LessOrEqual(t, len(actions[1]), 103)
		assert.True(t, strings.HasSuffix(actions[1], "..."))
	})

	t.Run("capped at five", func(t *testing.T) {
		var evaluations []models.ComplianceEvaluation
		for i := 0; i < 6; i++ {
			ev := eval(models.StatusNonCompliant, models.PriorityCritical, 0.9)
			ev.SuggestedFixes = "rewrite this section to name the lawful basis for processing"
			evaluations = append(evaluations, ev)
		}
		evaluations = append(evaluations, eval(models.StatusNeedsReview, models.PriorityMedium, 0.4))

		actions := a.PriorityActions(evaluations)
		assert.LessOrEqual(t, len(actions), 5)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, a.PriorityActions(nil))
	})
}

func TestSummaryBands(t *testing.T) {
	a := NewComplianceAssessor()

	tests := []struct {
		score int
		want  string
	}{
		{95, "strong compliance"},
		{80, "strong compliance"},
		{79, "moderate compliance"},
		{60, "moderate compliance"},
		{59, "significant gaps"},
		{0, "significant gaps"},
	}

	for _, tt := range tests {
		metrics := AssessmentMetrics{TotalSections: 4, OverallScore: tt.score}
		summary := a.Summary(metrics)
		assert.Contains(t, summary, tt.want)
	}
}

func TestSummaryIncludesBreakdownAndRisks(t *testing.T) {
	a := NewComplianceAssessor()

	metrics := AssessmentMetrics{
		TotalSections: 10,
		Compliant:     6,
		NonCompliant:  2,
		NeedsReview:   1,
		NotApplicable: 1,
		OverallScore:  70,
		RiskFactors:   []string{"Risk one.", "Risk two.", "Risk three."},
	}

	summary := a.Summary(metrics)
	assert.Contains(t, summary, "6 compliant")
	assert.Contains(t, summary, "2 non-compliant")
	assert.Contains(t, summary, "Risk one.")
	assert.Contains(t, summary, "Risk two.")
	assert.NotContains(t, summary, "Risk three.", "only the top two risks appear")
}

func TestRecommendationsSections(t *testing.T) {
	a := NewComplianceAssessor()

	critical := eval(models.StatusNonCompliant, models.PriorityCritical, 0.9)
	critical.SuggestedFixes = "Name the data protection officer in the policy."
	moderate := eval(models.StatusNonCompliant, models.PriorityMedium, 0.9)
	moderate.SuggestedFixes = "Clarify the backup retention window."
	review := eval(models.StatusNeedsReview, models.PriorityMedium, 0.4)

	text := a.Recommendations([]models.ComplianceEvaluation{critical, moderate, review})

	assert.Contains(t, text, "IMMEDIATE ACTIONS REQUIRED:")
	assert.Contains(t, text, "Name the data protection officer in the policy.")
	assert.Contains(t, text, "MODERATE PRIORITY IMPROVEMENTS:")
	assert.Contains(t, text, "Clarify the backup retention window.")
	assert.Contains(t, text, "ITEMS FOR MANUAL REVIEW:")
	assert.Contains(t, text, "1 section(s) flagged for manual review")
	assert.Contains(t, text, "NEXT STEPS:")
}

func TestRecommendationsEmptyRun(t *testing.T) {
	a := NewComplianceAssessor()

	text := a.Recommendations(nil)
	assert.Contains(t, text, "IMMEDIATE ACTIONS REQUIRED:\n- None identified.")
	assert.Contains(t, text, "MODERATE PRIORITY IMPROVEMENTS:\n- None identified.")
	assert.Contains(t, text, "0 section(s) flagged for manual review")
	assert.Contains(t, text, "NEXT STEPS:")
}
