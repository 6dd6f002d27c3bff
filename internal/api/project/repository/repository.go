package projectRepository

import (
	"EstimAgent/internal/entity"
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
		Projects: &projectsRepository{q: sqlExecutor, log: r.log},
		Drawings: &drawingsRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Projects interface {
		CreateProject(ctx context.Context, project entity.Project) error
		GetProjectByID(ctx context.Context, id string) (entity.Project, error)
		GetProjectsByOwner(ctx context.Context, owner string, limit, offset int) ([]entity.Project, int, error)
		UpdateProject(ctx context.Context, project entity.Project) error
		DeleteProject(ctx context.Context, id string) error
	}

	Drawings interface {
		CreateDrawing(ctx context.Context, drawing entity.Drawing) error
		GetDrawingByID(ctx context.Context, id string) (entity.Drawing, error)
		GetDrawingsByProject(ctx context.Context, projectID string) ([]entity.Drawing, error)
		UpdateScaleFactor(ctx context.Context, id string, scaleFactor float64) error
		DeleteDrawing(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type projectsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type drawingsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
