package analysisService

import (
	"EstimAgent/internal/api/analysis"
	analysisRepository "EstimAgent/internal/api/analysis/repository"
	projectRepository "EstimAgent/internal/api/project/repository"
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/detector"
	redisPkg "EstimAgent/pkg/redis"
	"EstimAgent/pkg/s3"
	"EstimAgent/pkg/utils"
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type IAnalysisService interface {
	Analyze(ctx context.Context, drawingID string, owner string, req analysis.AnalyzeRequest) (*analysis.RunResponse, error)
	GetRun(ctx context.Context, runID string, owner string) (*analysis.RunResponse, error)
	GetLatestRun(ctx context.Context, drawingID string, owner string) (*analysis.RunResponse, error)
	UpdateVertices(ctx context.Context, detectionID string, owner string, req analysis.UpdateVerticesRequest) (*analysis.DetectionResponse, error)
	PreviewFrame(frame []byte) ([]entity.Detection, error)
}

type analysisService struct {
	log          *logrus.Logger
	analysisRepo analysisRepository.Repository
	projectRepo  projectRepository.Repository
	redis        redisPkg.IRedis
	primary      detector.Detector
	local        detector.ILocalDetector
	s3Client     s3.ItfS3
	utils        utils.IUtils
	httpClient   *http.Client
}

func NewAnalysisService(
	log *logrus.Logger,
	analysisRepo analysisRepository.Repository,
	projectRepo projectRepository.Repository,
	redis redisPkg.IRedis,
	primary detector.Detector,
	local detector.ILocalDetector,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IAnalysisService {
	return &analysisService{
		log:          log,
		analysisRepo: analysisRepo,
		projectRepo:  projectRepo,
		redis:        redis,
		primary:      primary,
		local:        local,
		s3Client:     s3Client,
		utils:        utils,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}
