package analysisService

import (
	"EstimAgent/internal/api/analysis"
	"EstimAgent/internal/api/project"
	contextPkg "EstimAgent/pkg/context"
	"EstimAgent/pkg/detector"
	"EstimAgent/pkg/geometry"
	"EstimAgent/pkg/measure"
	"EstimAgent/pkg/reconcile"
	"io"
	"net/http"
	"sync"
	"time"

	"EstimAgent/internal/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// Analyze runs the configured detectors over the drawing image, reconciles
// their outputs into one canonical detection list, attaches real-world
// metrics, and persists the result as a new analysis run. Runs carry a
// per-drawing sequence number; a run that finishes after a later-started one
// is discarded rather than applied.
func (s *analysisService) Analyze(ctx context.Context, drawingID string, owner string, req analysis.AnalyzeRequest) (*analysis.RunResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	drawing, err := s.authorizeDrawing(ctx, drawingID, owner)
	if err != nil {
		return nil, err
	}

	sequence, err := s.redis.NextRunSequence(ctx, drawingID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Error("Failed to acquire run sequence")
		return nil, err
	}

	image, err := s.fetchDrawingImage(ctx, drawing.ImageURL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Error("Failed to fetch drawing image")
		return nil, analysis.ErrImageUnavailable
	}

	opts := detector.Options{
		Types:      toDetectionTypes(req.Types),
		Confidence: req.Confidence,
		Overlap:    req.Overlap,
	}

	primaryDetections, secondaryDetections, anySucceeded := s.runDetectors(ctx, requestID, image, opts)
	if !anySucceeded {
		return nil, analysis.ErrAllDetectorsDown
	}

	merged, stats := reconcile.Merge(primaryDetections, secondaryDetections, req.IoUThreshold)

	for i := range merged {
		merged[i].Display = measure.Recalc(
			merged[i].Region(),
			drawing.ScaleFactor,
			merged[i].Category,
			merged[i].Display,
		)
	}

	runID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return nil, err
	}

	run := entity.AnalysisRun{
		ID:         runID,
		DrawingID:  drawingID,
		Sequence:   sequence,
		Detections: merged,
		Skipped:    stats.SkippedPrimary + stats.SkippedSecondary,
		CreatedAt:  time.Now(),
	}

	if err := s.persistRun(ctx, run); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"drawing_id":   drawingID,
		"run_id":       runID,
		"sequence":     sequence,
		"detections":   len(merged),
		"merged_pairs": stats.MergedPairs,
		"skipped":      run.Skipped,
	}).Info("Analysis run applied")

	return s.makeRunResponse(run), nil
}

// runDetectors invokes both detectors concurrently. Each failure is logged
// and tolerated; the run only aborts when neither detector answered.
func (s *analysisService) runDetectors(ctx context.Context, requestID string, image []byte, opts detector.Options) ([]entity.Detection, []entity.Detection, bool) {
	var wg sync.WaitGroup
	var primaryDetections, secondaryDetections []entity.Detection
	var primaryOK, secondaryOK bool

	wg.Add(2)

	go func() {
		defer wg.Done()
		detections, err := s.primary.Detect(ctx, image, opts)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"source":     string(s.primary.Source()),
				"error":      err.Error(),
			}).Warn("Primary detector failed")
			return
		}
		primaryDetections = detections
		primaryOK = true
	}()

	go func() {
		defer wg.Done()
		detections, err := s.local.Detect(ctx, image, opts)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"source":     string(s.local.Source()),
				"error":      err.Error(),
			}).Warn("Secondary detector failed")
			return
		}
		secondaryDetections = detections
		secondaryOK = true
	}()

	wg.Wait()

	return primaryDetections, secondaryDetections, primaryOK || secondaryOK
}

// persistRun writes the run and its detections inside one transaction,
// re-checking the stored sequence so a superseded run never overwrites a
// newer one.
func (s *analysisService) persistRun(ctx context.Context, run entity.AnalysisRun) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.analysisRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	latest, err := repo.Runs.GetLatestSequence(ctx, run.DrawingID)
	if err != nil {
		return err
	}
	if latest >= run.Sequence {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": run.DrawingID,
			"sequence":   run.Sequence,
			"latest":     latest,
		}).Warn("Discarding superseded analysis run")
		return analysis.ErrRunSuperseded
	}

	if err := repo.Runs.CreateRun(ctx, run); err != nil {
		return err
	}

	if err := repo.Detections.CreateDetections(ctx, run.ID, run.DrawingID, run.Detections); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit analysis run")
		return err
	}

	return nil
}

func (s *analysisService) GetRun(ctx context.Context, runID string, owner string) (*analysis.RunResponse, error) {
	repo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	run, err := repo.Runs.GetRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizeDrawing(ctx, run.DrawingID, owner); err != nil {
		return nil, err
	}

	run.Detections, err = repo.Detections.GetDetectionsByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	return s.makeRunResponse(run), nil
}

func (s *analysisService) GetLatestRun(ctx context.Context, drawingID string, owner string) (*analysis.RunResponse, error) {
	if _, err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	repo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	run, err := repo.Runs.GetLatestRunByDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	run.Detections, err = repo.Detections.GetDetectionsByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return s.makeRunResponse(run), nil
}

// UpdateVertices replaces a detection's polygon after a manual edit and
// recomputes its metrics from the new vertex data and the drawing's current
// scale factor.
func (s *analysisService) UpdateVertices(ctx context.Context, detectionID string, owner string, req analysis.UpdateVerticesRequest) (*analysis.DetectionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.analysisRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	det, runID, drawingID, err := repo.Detections.GetDetectionByID(ctx, detectionID)
	if err != nil {
		return nil, err
	}

	if len(req.Vertices) < minVertices(det.Category) {
		return nil, analysis.ErrInvalidVertices
	}

	drawing, err := s.authorizeDrawing(ctx, drawingID, owner)
	if err != nil {
		return nil, err
	}

	mask := make([]geometry.Point, len(req.Vertices))
	copy(mask, req.Vertices)

	display := measure.Recalc(mask, drawing.ScaleFactor, det.Category, det.Display)

	if err := repo.Detections.UpdateDetectionGeometry(ctx, detectionID, mask, display); err != nil {
		return nil, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit vertex update")
		return nil, err
	}

	det.Mask = mask
	det.Display = display

	return &analysis.DetectionResponse{
		Detection: det,
		RunID:     runID,
		DrawingID: drawingID,
	}, nil
}

// PreviewFrame feeds one image frame straight to the local detector for the
// live preview socket. Nothing is persisted and no reconciliation happens.
func (s *analysisService) PreviewFrame(frame []byte) ([]entity.Detection, error) {
	return s.local.AnalyzeFrame(frame)
}

func (s *analysisService) authorizeDrawing(ctx context.Context, drawingID string, owner string) (entity.Drawing, error) {
	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		return entity.Drawing{}, err
	}

	d, err := repo.Drawings.GetDrawingByID(ctx, drawingID)
	if err != nil {
		return entity.Drawing{}, err
	}

	p, err := repo.Projects.GetProjectByID(ctx, d.ProjectID)
	if err != nil {
		return entity.Drawing{}, err
	}
	if p.Owner != owner {
		return entity.Drawing{}, project.ErrProjectNotOwned
	}

	return d, nil
}

func (s *analysisService) fetchDrawingImage(ctx context.Context, imageURL string) ([]byte, error) {
	url, err := s.s3Client.PresignUrl(imageURL)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, analysis.ErrImageUnavailable
	}

	return io.ReadAll(resp.Body)
}

func (s *analysisService) makeRunResponse(run entity.AnalysisRun) *analysis.RunResponse {
	detections := run.Detections
	if detections == nil {
		detections = []entity.ReconciledDetection{}
	}

	return &analysis.RunResponse{
		ID:         run.ID,
		DrawingID:  run.DrawingID,
		Sequence:   run.Sequence,
		Detections: detections,
		Skipped:    run.Skipped,
		CreatedAt:  run.CreatedAt,
	}
}

// minVertices is the smallest vertex list that still describes the
// category's geometry: walls are open polylines so two endpoints suffice,
// everything else is a closed polygon.
func minVertices(category entity.Category) int {
	if category == entity.CategoryWall {
		return 2
	}
	return 3
}

func toDetectionTypes(types []string) []detector.DetectionType {
	if len(types) == 0 {
		return nil
	}

	out := make([]detector.DetectionType, 0, len(types))
	for _, t := range types {
		out = append(out, detector.DetectionType(t))
	}
	return out
}
