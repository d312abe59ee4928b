package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"legiscope-backend/models"
)

// EngineVersion is recorded in evaluation metadata so results can be
// traced back to the prompt/scoring revision that produced them.
const EngineVersion = "1.0"

// ComplianceEvaluationEngine builds the per-section classification prompt,
// validates classifier output against the response contract, and supplies
// a deterministic fallback when the classifier fails or returns garbage.
type ComplianceEvaluationEngine struct{}

// NewComplianceEvaluationEngine creates a new evaluation engine
func NewComplianceEvaluationEngine() *ComplianceEvaluationEngine {
	return &ComplianceEvaluationEngine{}
}

// BuildPrompt renders the classification request for one document section.
// The status, priority, and confidence definitions are the response
// contract the classifier is expected to honor.
func (e *ComplianceEvaluationEngine) BuildPrompt(regulation *models.Regulation, chunk DocumentChunk) string {
	return fmt.Sprintf(`You are a regulatory compliance analyst. Evaluate the policy document section below against the regulation and respond with a single JSON object. No prose, no markdown, JSON only.

REGULATION: %s
DESCRIPTION: %s
REQUIREMENTS:
%s
MOTIVATION:
%s

DOCUMENT SECTION (type: %s):
%s

Respond with exactly this JSON structure:
{
  "compliance_status": "compliant" | "non_compliant" | "needs_review" | "not_applicable",
  "confidence_score": <number between 0 and 1>,
  "article_references": [<strings citing the specific articles/sections of the regulation this section relates to>],
  "gap_analysis": "<what the section is missing relative to the regulation, or empty if nothing>",
  "suggested_fixes": "<concrete wording or process changes that would close the gaps, or empty>",
  "ai_reasoning": "<short explanation of how you reached the verdict>",
  "regulation_excerpt": "<the regulation text most relevant to this section>",
  "priority_level": <integer 1-5>
}

STATUS DEFINITIONS:
- "compliant": the section satisfies the cited regulation requirements as written.
- "non_compliant": the section contradicts or fails to satisfy a requirement that applies to it.
- "needs_review": applicability or sufficiency cannot be determined from the text alone; a human must review.
- "not_applicable": the regulation does not govern the subject matter of this section.

PRIORITY LEVELS:
1 = critical: legal exposure, must be fixed immediately.
2 = high: significant gap, fix in the current review cycle.
3 = medium: gap with moderate risk.
4 = low: minor wording or documentation issue.
5 = informational: no action required.

CONFIDENCE BANDS:
0.8-1.0 = the verdict follows directly from explicit text.
0.5-0.8 = the verdict required interpretation of ambiguous wording.
0.0-0.5 = the verdict is a judgment call; treat as provisional.`,
		regulation.Name,
		regulation.Description,
		regulation.Requirements,
		regulation.Motivation,
		chunk.SectionType,
		chunk.Text,
	)
}

// classifierResponse mirrors the JSON contract with pointer fields so
// missing keys are distinguishable from zero values
type classifierResponse struct {
	ComplianceStatus  *string   `json:"compliance_status"`
	ConfidenceScore   *float64  `json:"confidence_score"`
	ArticleReferences *[]string `json:"article_references"`
	GapAnalysis       *string   `json:"gap_analysis"`
	SuggestedFixes    *string   `json:"suggested_fixes"`
	AIReasoning       *string   `json:"ai_reasoning"`
	RegulationExcerpt *string   `json:"regulation_excerpt"`
	PriorityLevel     *float64  `json:"priority_level"`
}

var validStatuses = map[models.ComplianceStatus]bool{
	models.StatusCompliant:     true,
	models.StatusNonCompliant:  true,
	models.StatusNeedsReview:   true,
	models.StatusNotApplicable: true,
}

// ParseResponse validates a raw classifier response against the contract.
// A non-nil error is the invalid-response branch: the caller must route it
// to Fallback rather than use a partial result. ParseResponse never panics.
func (e *ComplianceEvaluationEngine) ParseResponse(raw string) (*models.ComplianceEvaluation, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var resp classifierResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if resp.ComplianceStatus == nil || resp.ConfidenceScore == nil ||
		resp.ArticleReferences == nil || resp.GapAnalysis == nil ||
		resp.SuggestedFixes == nil || resp.AIReasoning == nil ||
		resp.RegulationExcerpt == nil || resp.PriorityLevel == nil {
		return nil, fmt.Errorf("response is missing required fields")
	}

	status := models.ComplianceStatus(*resp.ComplianceStatus)
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid compliance_status %q", *resp.ComplianceStatus)
	}

	if *resp.ConfidenceScore < 0 || *resp.ConfidenceScore > 1 {
		return nil, fmt.Errorf("confidence_score %v out of range", *resp.ConfidenceScore)
	}

	priority := *resp.PriorityLevel
	if priority != math.Trunc(priority) || priority < 1 || priority > 5 {
		return nil, fmt.Errorf("priority_level %v out of range", priority)
	}

	refs := *resp.ArticleReferences
	if refs == nil {
		refs = []string{}
	}

	return &models.ComplianceEvaluation{
		ComplianceStatus:  status,
		ConfidenceScore:   *resp.ConfidenceScore,
		ArticleReferences: refs,
		GapAnalysis:       *resp.GapAnalysis,
		SuggestedFixes:    *resp.SuggestedFixes,
		AIReasoning:       *resp.AIReasoning,
		RegulationExcerpt: *resp.RegulationExcerpt,
		PriorityLevel:     int(priority),
	}, nil
}

// Fallback returns a well-formed needs_review evaluation naming the
// failure reason. Every chunk produces exactly one evaluation result;
// there is no "missing data" state, only "needs manual review".
func (e *ComplianceEvaluationEngine) Fallback(reason string) *models.ComplianceEvaluation {
	return &models.ComplianceEvaluation{
		ComplianceStatus:  models.StatusNeedsReview,
		ConfidenceScore:   0.1,
		ArticleReferences: []string{},
		GapAnalysis:       fmt.Sprintf("Automated evaluation was not possible: %s. This section requires manual review.", reason),
		SuggestedFixes:    "",
		AIReasoning:       fmt.Sprintf("Fallback result: %s.", reason),
		RegulationExcerpt: "",
		PriorityLevel:     models.PriorityMedium,
	}
}

// extractJSONObject pulls the outermost JSON object out of a response
// that may be wrapped in markdown fences or surrounding prose
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
