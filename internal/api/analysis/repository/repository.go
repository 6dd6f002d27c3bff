package analysisRepository

import (
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Runs:       &runsRepository{q: sqlExecutor, log: r.log},
		Detections: &detectionsRepository{q: sqlExecutor, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

type Client struct {
	Runs interface {
		CreateRun(ctx context.Context, run entity.AnalysisRun) error
		GetRunByID(ctx context.Context, id string) (entity.AnalysisRun, error)
		GetLatestRunByDrawing(ctx context.Context, drawingID string) (entity.AnalysisRun, error)
		GetLatestSequence(ctx context.Context, drawingID string) (int64, error)
	}

	Detections interface {
		CreateDetections(ctx context.Context, runID, drawingID string, detections []entity.ReconciledDetection) error
		GetDetectionsByRun(ctx context.Context, runID string) ([]entity.ReconciledDetection, error)
		GetDetectionByID(ctx context.Context, id string) (entity.ReconciledDetection, string, string, error)
		UpdateDetectionGeometry(ctx context.Context, id string, mask []geometry.Point, display entity.DisplayMetrics) error
	}

	Commit   func() error
	Rollback func() error
}

type runsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type detectionsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
