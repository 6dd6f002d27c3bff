package calibrationService

import (
	calibrationDto "EstimAgent/internal/api/calibration"
	"EstimAgent/internal/api/project"
	calibrationPkg "EstimAgent/pkg/calibration"
	contextPkg "EstimAgent/pkg/context"
	"EstimAgent/pkg/geometry"
	redisPkg "EstimAgent/pkg/redis"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// BeginSession starts a fresh calibration for the drawing, discarding any
// incomplete prior session. The drawing is looked up first so calibrating a
// missing or foreign drawing fails before anything is written.
func (s *calibrationService) BeginSession(ctx context.Context, drawingID string, owner string) (*calibrationDto.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	session := calibrationPkg.NewSession()
	if err := s.saveSession(ctx, drawingID, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Error("Failed to store calibration session")
		return nil, err
	}

	return s.makeResponse(drawingID, session), nil
}

func (s *calibrationService) AddPoint(ctx context.Context, drawingID string, owner string, req calibrationDto.AddPointRequest) (*calibrationDto.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	if err := session.AddPoint(geometry.Point{X: req.X, Y: req.Y}); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"state":      string(session.State),
		}).Warn("Rejected calibration point")
		return nil, err
	}

	if err := s.saveSession(ctx, drawingID, session); err != nil {
		return nil, err
	}

	return s.makeResponse(drawingID, session), nil
}

// ApplyDistance finishes the flow: the parsed reference distance produces a
// scale factor that is persisted on the drawing row, then the cached session
// is dropped. A parse or state failure leaves the stored session untouched so
// the user can correct the input.
func (s *calibrationService) ApplyDistance(ctx context.Context, drawingID string, owner string, req calibrationDto.ApplyDistanceRequest) (*calibrationDto.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	unit := calibrationPkg.Unit(req.Unit)
	scale, err := session.ApplyDistance(req.Distance, unit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"distance":   req.Distance,
			"error":      err.Error(),
		}).Warn("Failed to apply calibration distance")
		return nil, err
	}

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	if err := repo.Drawings.UpdateScaleFactor(ctx, drawingID, scale); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Error("Failed to persist scale factor")
		return nil, err
	}

	if err := s.redis.DeleteCalibrationSession(ctx, drawingID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Warn("Failed to drop completed calibration session")
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"drawing_id": drawingID,
		"scale":      scale,
	}).Info("Calibration applied")

	return s.makeResponse(drawingID, session), nil
}

func (s *calibrationService) ResetSession(ctx context.Context, drawingID string, owner string) (*calibrationDto.SessionResponse, error) {
	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, drawingID)
	if err != nil {
		if errors.Is(err, calibrationDto.ErrSessionNotFound) {
			session = calibrationPkg.NewSession()
		} else {
			return nil, err
		}
	}

	session.Reset()
	if err := s.saveSession(ctx, drawingID, session); err != nil {
		return nil, err
	}

	return s.makeResponse(drawingID, session), nil
}

func (s *calibrationService) GetSession(ctx context.Context, drawingID string, owner string) (*calibrationDto.SessionResponse, error) {
	if err := s.authorizeDrawing(ctx, drawingID, owner); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	return s.makeResponse(drawingID, session), nil
}

func (s *calibrationService) authorizeDrawing(ctx context.Context, drawingID string, owner string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	d, err := repo.Drawings.GetDrawingByID(ctx, drawingID)
	if err != nil {
		return err
	}

	p, err := repo.Projects.GetProjectByID(ctx, d.ProjectID)
	if err != nil {
		return err
	}
	if p.Owner != owner {
		return project.ErrProjectNotOwned
	}

	return nil
}

func (s *calibrationService) loadSession(ctx context.Context, drawingID string) (*calibrationPkg.Session, error) {
	requestID := contextPkg.GetRequestID(ctx)

	payload, err := s.redis.GetCalibrationSession(ctx, drawingID)
	if err != nil {
		if errors.Is(err, redisPkg.ErrNotFound) {
			return nil, calibrationDto.ErrSessionNotFound
		}
		return nil, err
	}

	var session calibrationPkg.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"drawing_id": drawingID,
			"error":      err.Error(),
		}).Error("Failed to decode stored calibration session")
		return nil, calibrationDto.ErrSessionCorrupt
	}

	return &session, nil
}

func (s *calibrationService) saveSession(ctx context.Context, drawingID string, session *calibrationPkg.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.redis.SetCalibrationSession(ctx, drawingID, payload, sessionTTL)
}

func (s *calibrationService) makeResponse(drawingID string, session *calibrationPkg.Session) *calibrationDto.SessionResponse {
	return &calibrationDto.SessionResponse{
		DrawingID: drawingID,
		State:     string(session.State),
		Points:    session.Points,
		Scale:     session.Scale,
	}
}
