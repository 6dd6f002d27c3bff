package takeoffService

import (
	"EstimAgent/internal/api/takeoff"
	analysisRepository "EstimAgent/internal/api/analysis/repository"
	projectRepository "EstimAgent/internal/api/project/repository"
	takeoffRepository "EstimAgent/internal/api/takeoff/repository"
	"EstimAgent/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type ITakeoffService interface {
	GenerateTakeoff(ctx context.Context, drawingID string, owner string) (*takeoff.TakeoffResponse, error)
	GetTakeoffByID(ctx context.Context, id string, owner string) (*takeoff.TakeoffResponse, error)
	GetLatestTakeoff(ctx context.Context, drawingID string, owner string) (*takeoff.TakeoffResponse, error)
}

type takeoffService struct {
	log          *logrus.Logger
	takeoffRepo  takeoffRepository.Repository
	analysisRepo analysisRepository.Repository
	projectRepo  projectRepository.Repository
	utils        utils.IUtils
}

func NewTakeoffService(
	log *logrus.Logger,
	takeoffRepo takeoffRepository.Repository,
	analysisRepo analysisRepository.Repository,
	projectRepo projectRepository.Repository,
	utils utils.IUtils,
) ITakeoffService {
	return &takeoffService{
		log:          log,
		takeoffRepo:  takeoffRepo,
		analysisRepo: analysisRepo,
		projectRepo:  projectRepo,
		utils:        utils,
	}
}
