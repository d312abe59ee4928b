package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"legiscope-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store contracts the orchestrator depends on. The pgx repositories
// implement them; tests use in-memory fakes.

// EvaluationStore persists PolicyEvaluation lifecycle transitions
type EvaluationStore interface {
	Create(ctx context.Context, eval *models.PolicyEvaluation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PolicyEvaluation, error)
	ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*models.PolicyEvaluation, error)
	Complete(ctx context.Context, eval *models.PolicyEvaluation) error
	Fail(ctx context.Context, id uuid.UUID, summary string, metadata models.EvaluationMetadata) error
}

// HighlightStore persists per-section verdicts
type HighlightStore interface {
	CreateBatch(ctx context.Context, highlights []*models.PolicyHighlight) error
	ListByEvaluationID(ctx context.Context, evaluationID uuid.UUID) ([]*models.PolicyHighlight, error)
}

// RegulationStore reads regulations
type RegulationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Regulation, error)
}

// DocumentStore reads policy documents
type DocumentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PolicyDocument, error)
}

var (
	ErrMissingIdentifiers      = errors.New("document and regulation identifiers are required")
	ErrClassifierNotConfigured = errors.New("classifier is not configured")
	ErrRegulationNotFound      = errors.New("regulation not found")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrEvaluationNotFound      = errors.New("evaluation not found")
	ErrEvaluationCreateFailed  = errors.New("failed to create evaluation record")
)

const (
	defaultWorkerCount       = 4
	defaultClassifierTimeout = 45 * time.Second
	defaultHighlightBatch    = 5
)

// EvaluationService orchestrates a compliance evaluation run: validates
// input, creates the evaluation record, chunks the document, evaluates
// each chunk with failure isolation, persists highlights, and finalizes
// the record. The record always reaches a terminal status.
type EvaluationService struct {
	evalStore       EvaluationStore
	highlightStore  HighlightStore
	regulationStore RegulationStore
	documentStore   DocumentStore
	classifier      Classifier

	validator *ContentValidator
	chunker   *DocumentChunker
	engine    *ComplianceEvaluationEngine
	assessor  *ComplianceAssessor
	mapper    *ArticleReferenceMapper

	workers           int
	classifierTimeout time.Duration
	batchSize         int
}

// EvaluationServiceOption is a functional option for EvaluationService
type EvaluationServiceOption func(*EvaluationService)

// WithEvaluationStore sets the evaluation store
func WithEvaluationStore(store EvaluationStore) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.evalStore = store
	}
}

// WithHighlightStore sets the highlight store
func WithHighlightStore(store HighlightStore) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.highlightStore = store
	}
}

// WithRegulationStore sets the regulation store
func WithRegulationStore(store RegulationStore) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.regulationStore = store
	}
}

// WithDocumentStore sets the document store
func WithDocumentStore(store DocumentStore) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.documentStore = store
	}
}

// WithClassifier sets the text classification client
func WithClassifier(classifier Classifier) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.classifier = classifier
	}
}

// WithPatternConfig sets the citation pattern configuration
func WithPatternConfig(patterns PatternConfig) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.mapper = NewArticleReferenceMapper(patterns)
	}
}

// WithWorkerCount bounds concurrent classifier calls per run
func WithWorkerCount(n int) EvaluationServiceOption {
	return func(s *EvaluationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClassifierTimeout sets the per-chunk classifier call timeout
func WithClassifierTimeout(d time.Duration) EvaluationServiceOption {
	return func(s *EvaluationService) {
		if d > 0 {
			s.classifierTimeout = d
		}
	}
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(opts ...EvaluationServiceOption) *EvaluationService {
	s := &EvaluationService{
		validator:         NewContentValidator(),
		chunker:           NewDocumentChunker(),
		engine:            NewComplianceEvaluationEngine(),
		assessor:          NewComplianceAssessor(),
		mapper:            NewArticleReferenceMapper(nil),
		workers:           defaultWorkerCount,
		classifierTimeout: defaultClassifierTimeout,
		batchSize:         defaultHighlightBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartEvaluationRequest represents a request to evaluate a document
// against a regulation. Content, when set, takes precedence over the
// stored document text.
type StartEvaluationRequest struct {
	DocumentID   uuid.UUID
	RegulationID uuid.UUID
	Content      string
}

// StartEvaluationResult is returned as soon as the record exists
type StartEvaluationResult struct {
	EvaluationID uuid.UUID
	Status       models.EvaluationStatus
}

// StartEvaluation validates the request, resolves the regulation and
// document, and creates the evaluation record in processing status.
// It must stay fast; the actual run happens in ProcessEvaluation.
// Request-level failures here create no record at all.
func (s *EvaluationService) StartEvaluation(ctx context.Context, req StartEvaluationRequest) (*StartEvaluationResult, error) {
	if s.evalStore == nil {
		return nil, errors.New("evaluation store not set")
	}
	if s.regulationStore == nil {
		return nil, errors.New("regulation store not set")
	}
	if req.DocumentID == uuid.Nil || req.RegulationID == uuid.Nil {
		return nil, ErrMissingIdentifiers
	}
	if s.classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	if err := s.classifier.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierNotConfigured, err)
	}

	if _, err := s.regulationStore.GetByID(ctx, req.RegulationID); err != nil {
		return nil, ErrRegulationNotFound
	}

	// When no inline text is supplied the document record must exist,
	// even if its stored content later fails validation.
	if strings.TrimSpace(req.Content) == "" && s.documentStore != nil {
		if _, err := s.documentStore.GetByID(ctx, req.DocumentID); err != nil {
			return nil, ErrDocumentNotFound
		}
	}

	eval := &models.PolicyEvaluation{
		DocumentID:   req.DocumentID,
		RegulationID: req.RegulationID,
		Status:       models.EvaluationStatusProcessing,
	}
	if err := s.evalStore.Create(ctx, eval); err != nil {
		return nil, ErrEvaluationCreateFailed
	}

	return &StartEvaluationResult{
		EvaluationID: eval.ID,
		Status:       eval.Status,
	}, nil
}

// ProcessEvaluation runs the full pipeline for an evaluation created by
// StartEvaluation. Runs in the background and can take minutes; every
// exit path leaves the record in a terminal status.
func (s *EvaluationService) ProcessEvaluation(ctx context.Context, evaluationID uuid.UUID, req StartEvaluationRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation run panicked: %v", r)
			s.markFailed(ctx, evaluationID, fmt.Sprintf("Internal error during evaluation: %v", r))
		}
	}()

	regulation, err := s.regulationStore.GetByID(ctx, req.RegulationID)
	if err != nil {
		s.markFailed(ctx, evaluationID, "Regulation could not be loaded for evaluation.")
		return fmt.Errorf("failed to load regulation: %w", err)
	}

	content := req.Content
	if strings.TrimSpace(content) == "" && s.documentStore != nil {
		if doc, docErr := s.documentStore.GetByID(ctx, req.DocumentID); docErr == nil {
			content = doc.Text()
		}
	}

	// Content errors terminate the run with a diagnostic summary; they
	// are recorded on the evaluation, not propagated as run errors.
	if verr := s.validator.Validate(content); verr != nil {
		s.markFailed(ctx, evaluationID, contentFailureSummary(verr))
		return nil
	}

	chunks := s.chunker.Chunk(content)
	if len(chunks) == 0 {
		s.markFailed(ctx, evaluationID, "No analyzable sections found in document content.")
		return nil
	}

	// Bounded worker pool over chunks. Workers never return an error:
	// every chunk ends in a real evaluation or a fallback, so one bad
	// chunk cannot abort the run.
	evaluations := make([]models.ComplianceEvaluation, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			evaluations[i] = *s.evaluateChunk(gctx, regulation, chunk)
			return nil
		})
	}
	_ = g.Wait()

	if err := s.persistHighlights(ctx, evaluationID, chunks, evaluations); err != nil {
		s.markFailed(ctx, evaluationID, fmt.Sprintf("Failed to store section results: %v", err))
		return err
	}

	metrics := s.assessor.Assess(evaluations)
	summary := s.assessor.Summary(metrics)
	recommendations := s.assessor.Recommendations(evaluations)

	// The record may have been deleted mid-run; do not resurrect it.
	if _, err := s.evalStore.GetByID(ctx, evaluationID); err != nil {
		log.Printf("Warning: evaluation %s disappeared mid-run, skipping final update", evaluationID)
		return nil
	}

	eval := &models.PolicyEvaluation{
		ID:                     evaluationID,
		Status:                 models.EvaluationStatusCompleted,
		OverallComplianceScore: metrics.OverallScore,
		TotalSectionsAnalyzed:  metrics.TotalSections,
		CompliantSections:      metrics.Compliant,
		NonCompliantSections:   metrics.NonCompliant,
		NeedsReviewSections:    metrics.NeedsReview,
		Summary:                &summary,
		Recommendations:        &recommendations,
		Metadata: models.EvaluationMetadata{
			RiskFactors:     metrics.RiskFactors,
			PriorityActions: metrics.PriorityActions,
			EngineVersion:   EngineVersion,
		},
	}
	if err := s.evalStore.Complete(ctx, eval); err != nil {
		s.markFailed(ctx, evaluationID, fmt.Sprintf("Failed to finalize evaluation: %v", err))
		return fmt.Errorf("failed to complete evaluation: %w", err)
	}

	return nil
}

// evaluateChunk classifies one chunk. Every path returns a usable
// evaluation; classifier failures and panics become fallback results.
func (s *EvaluationService) evaluateChunk(ctx context.Context, regulation *models.Regulation, chunk DocumentChunk) (result *models.ComplianceEvaluation) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: chunk evaluation panicked: %v", r)
			result = s.engine.Fallback(fmt.Sprintf("internal error (%v)", r))
		}
	}()

	prompt := s.engine.BuildPrompt(regulation, chunk)

	cctx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
	defer cancel()

	raw, err := s.classifier.Classify(cctx, prompt)
	if err != nil {
		log.Printf("Warning: classifier call failed for chunk at %d: %v", chunk.StartPosition, err)
		return s.engine.Fallback("the classification service did not respond")
	}

	parsed, err := s.engine.ParseResponse(raw)
	if err != nil {
		log.Printf("Warning: invalid classifier response for chunk at %d: %v", chunk.StartPosition, err)
		return s.engine.Fallback("the classification service returned an invalid response")
	}

	// Reconcile claimed citations against text actually present in the
	// regulation; unmatched claims survive as low-confidence placeholders.
	if len(parsed.ArticleReferences) > 0 {
		enhanced := s.mapper.EnhanceReferences(parsed.ArticleReferences, regulation.Requirements)
		refs := make([]string, 0, len(enhanced))
		for _, ref := range enhanced {
			refs = append(refs, ref.FullReference)
		}
		parsed.ArticleReferences = refs
	}

	return parsed
}

// persistHighlights writes section verdicts in small batches so partial
// progress survives a store failure mid-run
func (s *EvaluationService) persistHighlights(ctx context.Context, evaluationID uuid.UUID, chunks []DocumentChunk, evaluations []models.ComplianceEvaluation) error {
	if s.highlightStore == nil {
		return errors.New("highlight store not set")
	}

	highlights := make([]*models.PolicyHighlight, len(chunks))
	for i, chunk := range chunks {
		ev := evaluations[i]
		highlights[i] = &models.PolicyHighlight{
			EvaluationID:      evaluationID,
			SectionText:       chunk.Text,
			SectionType:       chunk.SectionType,
			StartPosition:     chunk.StartPosition,
			EndPosition:       chunk.EndPosition,
			ComplianceStatus:  ev.ComplianceStatus,
			ConfidenceScore:   ev.ConfidenceScore,
			ArticleReferences: ev.ArticleReferences,
			GapAnalysis:       ev.GapAnalysis,
			SuggestedFixes:    ev.SuggestedFixes,
			AIReasoning:       ev.AIReasoning,
			RegulationExcerpt: ev.RegulationExcerpt,
			PriorityLevel:     ev.PriorityLevel,
		}
	}

	for start := 0; start < len(highlights); start += s.batchSize {
		end := start + s.batchSize
		if end > len(highlights) {
			end = len(highlights)
		}
		if err := s.highlightStore.CreateBatch(ctx, highlights[start:end]); err != nil {
			return err
		}
	}

	return nil
}

// markFailed transitions the record to failed with a diagnostic summary
func (s *EvaluationService) markFailed(ctx context.Context, evaluationID uuid.UUID, summary string) {
	metadata := models.EvaluationMetadata{
		EngineVersion: EngineVersion,
		Error:         summary,
	}
	if err := s.evalStore.Fail(ctx, evaluationID, summary, metadata); err != nil {
		log.Printf("Warning: failed to mark evaluation %s as failed: %v", evaluationID, err)
	}
}

// contentFailureSummary maps a validation error to the user-facing
// summary stored on the failed record
func contentFailureSummary(err error) string {
	switch {
	case errors.Is(err, ErrNoContent):
		return "No document content available."
	case errors.Is(err, ErrContentTooShort):
		return "Document content is too short to analyze (minimum 50 characters)."
	case errors.Is(err, ErrBinaryContent):
		return "Document content appears to be binary or corrupted and cannot be analyzed."
	default:
		return fmt.Sprintf("Document content failed validation: %v", err)
	}
}

// ListEvaluations returns every evaluation recorded for a document
func (s *EvaluationService) ListEvaluations(ctx context.Context, documentID uuid.UUID) ([]*models.PolicyEvaluation, error) {
	if s.evalStore == nil {
		return nil, errors.New("evaluation store not set")
	}
	return s.evalStore.ListByDocumentID(ctx, documentID)
}

// GetEvaluationRequest represents a request to read evaluation results
type GetEvaluationRequest struct {
	EvaluationID uuid.UUID
}

// GetEvaluationResult bundles the record with its section highlights
type GetEvaluationResult struct {
	Evaluation *models.PolicyEvaluation
	Highlights []*models.PolicyHighlight
}

// GetEvaluation is the poll path: the record plus its highlights
func (s *EvaluationService) GetEvaluation(ctx context.Context, req GetEvaluationRequest) (*GetEvaluationResult, error) {
	if s.evalStore == nil {
		return nil, errors.New("evaluation store not set")
	}

	eval, err := s.evalStore.GetByID(ctx, req.EvaluationID)
	if err != nil {
		return nil, ErrEvaluationNotFound
	}

	var highlights []*models.PolicyHighlight
	if s.highlightStore != nil {
		highlights, err = s.highlightStore.ListByEvaluationID(ctx, req.EvaluationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load highlights: %w", err)
		}
	}

	return &GetEvaluationResult{
		Evaluation: eval,
		Highlights: highlights,
	}, nil
}
