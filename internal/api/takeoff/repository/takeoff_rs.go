package takeoffRepository

import (
	"EstimAgent/internal/api/takeoff"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type TakeoffDB struct {
	ID        sql.NullString `db:"id"`
	DrawingID sql.NullString `db:"drawing_id"`
	RunID     sql.NullString `db:"run_id"`
	CreatedAt time.Time      `db:"created_at"`
}

type TakeoffItemDB struct {
	ID          sql.NullString  `db:"id"`
	TakeoffID   sql.NullString  `db:"takeoff_id"`
	DetectionID sql.NullString  `db:"detection_id"`
	RoomID      sql.NullString  `db:"room_id"`
	Class       sql.NullString  `db:"class"`
	Category    sql.NullString  `db:"category"`
	AreaSqft    sql.NullFloat64 `db:"area_sqft"`
	PerimeterFt sql.NullFloat64 `db:"perimeter_ft"`
	Count       sql.NullInt64   `db:"count"`
}

func (r *takeoffsRepository) CreateTakeoff(ctx context.Context, t entity.Takeoff) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         t.ID,
		"drawing_id": t.DrawingID,
		"run_id":     t.RunID,
		"created_at": t.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateTakeoff, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateTakeoff named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating takeoff")
		return err
	}

	for _, item := range t.Items {
		itemKV := map[string]interface{}{
			"id":           item.ID,
			"takeoff_id":   t.ID,
			"detection_id": item.DetectionID,
			"room_id":      item.RoomID,
			"class":        item.Class,
			"category":     string(item.Category),
			"area_sqft":    item.AreaSqft,
			"perimeter_ft": item.PerimeterFt,
			"count":        item.Count,
		}

		itemQuery, itemArgs, err := sqlx.Named(queryCreateTakeoffItem, itemKV)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("CreateTakeoffItem named query preparation err")
			return err
		}
		itemQuery = r.q.Rebind(itemQuery)

		if _, err := r.q.ExecContext(ctx, itemQuery, itemArgs...); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Database error when creating takeoff item")
			return err
		}
	}

	return nil
}

func (r *takeoffsRepository) GetTakeoffByID(ctx context.Context, id string) (entity.Takeoff, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row TakeoffDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetTakeoffByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTakeoffByID named query preparation err")
		return entity.Takeoff{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Takeoff{}, takeoff.ErrTakeoffNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTakeoffByID execution err")
		return entity.Takeoff{}, err
	}

	return r.loadItems(ctx, r.makeTakeoff(row))
}

func (r *takeoffsRepository) GetLatestTakeoffByDrawing(ctx context.Context, drawingID string) (entity.Takeoff, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row TakeoffDB

	argsKV := map[string]interface{}{
		"drawing_id": drawingID,
	}

	query, args, err := sqlx.Named(queryGetLatestTakeoffByDrawing, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestTakeoffByDrawing named query preparation err")
		return entity.Takeoff{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Takeoff{}, takeoff.ErrTakeoffNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestTakeoffByDrawing execution err")
		return entity.Takeoff{}, err
	}

	return r.loadItems(ctx, r.makeTakeoff(row))
}

func (r *takeoffsRepository) loadItems(ctx context.Context, t entity.Takeoff) (entity.Takeoff, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []TakeoffItemDB

	argsKV := map[string]interface{}{
		"takeoff_id": t.ID,
	}

	query, args, err := sqlx.Named(queryGetTakeoffItems, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTakeoffItems named query preparation err")
		return entity.Takeoff{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTakeoffItems execution err")
		return entity.Takeoff{}, err
	}

	t.Items = make([]entity.TakeoffItem, 0, len(rows))
	for _, row := range rows {
		t.Items = append(t.Items, entity.TakeoffItem{
			ID:          row.ID.String,
			TakeoffID:   row.TakeoffID.String,
			DetectionID: row.DetectionID.String,
			RoomID:      row.RoomID.String,
			Class:       row.Class.String,
			Category:    entity.Category(row.Category.String),
			AreaSqft:    row.AreaSqft.Float64,
			PerimeterFt: row.PerimeterFt.Float64,
			Count:       int(row.Count.Int64),
		})
	}

	return t, nil
}

func (r *takeoffsRepository) makeTakeoff(row TakeoffDB) entity.Takeoff {
	return entity.Takeoff{
		ID:        row.ID.String,
		DrawingID: row.DrawingID.String,
		RunID:     row.RunID.String,
		CreatedAt: row.CreatedAt,
	}
}
