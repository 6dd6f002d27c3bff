package analysisRepository

import (
	"EstimAgent/internal/api/analysis"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type RunDB struct {
	ID        sql.NullString `db:"id"`
	DrawingID sql.NullString `db:"drawing_id"`
	Sequence  sql.NullInt64  `db:"sequence"`
	Skipped   sql.NullInt64  `db:"skipped"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *runsRepository) CreateRun(ctx context.Context, run entity.AnalysisRun) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         run.ID,
		"drawing_id": run.DrawingID,
		"sequence":   run.Sequence,
		"skipped":    run.Skipped,
		"created_at": run.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRun, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateRun named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating analysis run")
		return err
	}

	return nil
}

func (r *runsRepository) GetRunByID(ctx context.Context, id string) (entity.AnalysisRun, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var run RunDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetRunByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRunByID named query preparation err")
		return entity.AnalysisRun{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&run); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetRunByID no rows found")
			return entity.AnalysisRun{}, analysis.ErrRunNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRunByID execution err")
		return entity.AnalysisRun{}, err
	}

	return r.makeRun(run), nil
}

func (r *runsRepository) GetLatestRunByDrawing(ctx context.Context, drawingID string) (entity.AnalysisRun, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var run RunDB

	argsKV := map[string]interface{}{
		"drawing_id": drawingID,
	}

	query, args, err := sqlx.Named(queryGetLatestRunByDrawing, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestRunByDrawing named query preparation err")
		return entity.AnalysisRun{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&run); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.AnalysisRun{}, analysis.ErrRunNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestRunByDrawing execution err")
		return entity.AnalysisRun{}, err
	}

	return r.makeRun(run), nil
}

func (r *runsRepository) GetLatestSequence(ctx context.Context, drawingID string) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var seq int64

	argsKV := map[string]interface{}{
		"drawing_id": drawingID,
	}

	query, args, err := sqlx.Named(queryGetLatestSequence, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestSequence named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&seq); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestSequence execution err")
		return 0, err
	}

	return seq, nil
}

func (r *runsRepository) makeRun(run RunDB) entity.AnalysisRun {
	return entity.AnalysisRun{
		ID:        run.ID.String,
		DrawingID: run.DrawingID.String,
		Sequence:  run.Sequence.Int64,
		Skipped:   int(run.Skipped.Int64),
		CreatedAt: run.CreatedAt,
	}
}
