package projectRepository

import (
	"EstimAgent/internal/api/project"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DrawingDB struct {
	ID          sql.NullString  `db:"id"`
	ProjectID   sql.NullString  `db:"project_id"`
	Name        sql.NullString  `db:"name"`
	ImageURL    sql.NullString  `db:"image_url"`
	ImageWidth  sql.NullInt64   `db:"image_width"`
	ImageHeight sql.NullInt64   `db:"image_height"`
	ScaleFactor sql.NullFloat64 `db:"scale_factor"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *drawingsRepository) CreateDrawing(ctx context.Context, d entity.Drawing) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":           d.ID,
		"project_id":   d.ProjectID,
		"name":         d.Name,
		"image_url":    d.ImageURL,
		"image_width":  d.ImageWidth,
		"image_height": d.ImageHeight,
		"scale_factor": d.ScaleFactor,
		"created_at":   d.CreatedAt,
		"updated_at":   d.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateDrawing, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateDrawing named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating drawing")
		return err
	}

	return nil
}

func (r *drawingsRepository) GetDrawingByID(ctx context.Context, id string) (entity.Drawing, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var d DrawingDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetDrawingByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDrawingByID named query preparation err")
		return entity.Drawing{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetDrawingByID no rows found")
			return entity.Drawing{}, project.ErrDrawingNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDrawingByID execution err")
		return entity.Drawing{}, err
	}

	return r.makeDrawing(d), nil
}

func (r *drawingsRepository) GetDrawingsByProject(ctx context.Context, projectID string) ([]entity.Drawing, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var drawingsList []DrawingDB

	argsKV := map[string]interface{}{
		"project_id": projectID,
	}

	query, args, err := sqlx.Named(queryGetDrawingsByProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDrawingsByProject named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &drawingsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDrawingsByProject execution err")
		return nil, err
	}

	result := make([]entity.Drawing, 0, len(drawingsList))
	for _, d := range drawingsList {
		result = append(result, r.makeDrawing(d))
	}

	return result, nil
}

func (r *drawingsRepository) UpdateScaleFactor(ctx context.Context, id string, scaleFactor float64) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":           id,
		"scale_factor": scaleFactor,
		"updated_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateScaleFactor, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateScaleFactor named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating scale factor")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return project.ErrDrawingNotFound
	}

	return nil
}

func (r *drawingsRepository) DeleteDrawing(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteDrawing, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteDrawing named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting drawing")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return project.ErrDrawingNotFound
	}

	return nil
}

func (r *drawingsRepository) makeDrawing(d DrawingDB) entity.Drawing {
	return entity.Drawing{
		ID:          d.ID.String,
		ProjectID:   d.ProjectID.String,
		Name:        d.Name.String,
		ImageURL:    d.ImageURL.String,
		ImageWidth:  int(d.ImageWidth.Int64),
		ImageHeight: int(d.ImageHeight.Int64),
		ScaleFactor: d.ScaleFactor.Float64,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
