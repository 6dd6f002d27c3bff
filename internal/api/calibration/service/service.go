package calibrationService

import (
	"EstimAgent/internal/api/calibration"
	projectRepository "EstimAgent/internal/api/project/repository"
	redisPkg "EstimAgent/pkg/redis"
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// sessionTTL bounds how long an abandoned calibration flow stays parked in
// the cache before it is discarded.
const sessionTTL = 30 * time.Minute

type ICalibrationService interface {
	BeginSession(ctx context.Context, drawingID string, owner string) (*calibration.SessionResponse, error)
	AddPoint(ctx context.Context, drawingID string, owner string, req calibration.AddPointRequest) (*calibration.SessionResponse, error)
	ApplyDistance(ctx context.Context, drawingID string, owner string, req calibration.ApplyDistanceRequest) (*calibration.SessionResponse, error)
	ResetSession(ctx context.Context, drawingID string, owner string) (*calibration.SessionResponse, error)
	GetSession(ctx context.Context, drawingID string, owner string) (*calibration.SessionResponse, error)
}

type calibrationService struct {
	log         *logrus.Logger
	projectRepo projectRepository.Repository
	redis       redisPkg.IRedis
}

func NewCalibrationService(
	log *logrus.Logger,
	projectRepo projectRepository.Repository,
	redis redisPkg.IRedis,
) ICalibrationService {
	return &calibrationService{
		log:         log,
		projectRepo: projectRepo,
		redis:       redis,
	}
}
