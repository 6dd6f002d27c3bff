package analysisRepository

import (
	"EstimAgent/internal/api/analysis"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"EstimAgent/pkg/geometry"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DetectionDB flattens a reconciled detection for storage. The mask, bounding
// box, and source list are kept as JSON text so the vertex data round-trips
// without a separate vertices table. Ordinal is the detection's position in
// the reconciler's output; read-back orders by it so a stored run lists its
// detections exactly as they were emitted.
type DetectionDB struct {
	ID          sql.NullString  `db:"id"`
	RunID       sql.NullString  `db:"run_id"`
	DrawingID   sql.NullString  `db:"drawing_id"`
	Ordinal     sql.NullInt64   `db:"ordinal"`
	Class       sql.NullString  `db:"class"`
	Category    sql.NullString  `db:"category"`
	Confidence  sql.NullFloat64 `db:"confidence"`
	Provenance  sql.NullString  `db:"provenance"`
	Sources     sql.NullString  `db:"sources"`
	Mask        sql.NullString  `db:"mask"`
	BBox        sql.NullString  `db:"bbox"`
	AreaSqft    sql.NullFloat64 `db:"area_sqft"`
	PerimeterFt sql.NullFloat64 `db:"perimeter_ft"`
	WidthFt     sql.NullFloat64 `db:"width_ft"`
	HeightFt    sql.NullFloat64 `db:"height_ft"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *detectionsRepository) CreateDetections(ctx context.Context, runID, drawingID string, detections []entity.ReconciledDetection) error {
	requestID := contextPkg.GetRequestID(ctx)
	now := time.Now()

	for i, d := range detections {
		argsKV, err := makeDetectionArgs(d, runID, drawingID, i, now)
		if err != nil {
			return err
		}

		query, args, err := sqlx.Named(queryCreateDetection, argsKV)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("CreateDetections named query preparation err")
			return err
		}
		query = r.q.Rebind(query)

		if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Database error when creating detection")
			return err
		}
	}

	return nil
}

func (r *detectionsRepository) GetDetectionsByRun(ctx context.Context, runID string) ([]entity.ReconciledDetection, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []DetectionDB

	argsKV := map[string]interface{}{
		"run_id": runID,
	}

	query, args, err := sqlx.Named(queryGetDetectionsByRun, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsByRun named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionsByRun execution err")
		return nil, err
	}

	result := make([]entity.ReconciledDetection, 0, len(rows))
	for _, row := range rows {
		d, err := makeDetection(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id":   requestID,
				"detection_id": row.ID.String,
				"error":        err.Error(),
			}).Error("Failed to decode stored detection")
			return nil, err
		}
		result = append(result, d)
	}

	return result, nil
}

func (r *detectionsRepository) GetDetectionByID(ctx context.Context, id string) (entity.ReconciledDetection, string, string, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row DetectionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetDetectionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID named query preparation err")
		return entity.ReconciledDetection{}, "", "", err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ReconciledDetection{}, "", "", analysis.ErrDetectionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID execution err")
		return entity.ReconciledDetection{}, "", "", err
	}

	d, err := makeDetection(row)
	if err != nil {
		return entity.ReconciledDetection{}, "", "", err
	}

	return d, row.RunID.String, row.DrawingID.String, nil
}

func (r *detectionsRepository) UpdateDetectionGeometry(ctx context.Context, id string, mask []geometry.Point, display entity.DisplayMetrics) error {
	requestID := contextPkg.GetRequestID(ctx)

	maskJSON, err := json.Marshal(mask)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"id":           id,
		"mask":         string(maskJSON),
		"area_sqft":    display.AreaSqft,
		"perimeter_ft": display.PerimeterFt,
		"width_ft":     display.WidthFt,
		"height_ft":    display.HeightFt,
		"updated_at":   time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateDetectionGeometry, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateDetectionGeometry named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating detection geometry")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return analysis.ErrDetectionNotFound
	}

	return nil
}

// makeDetectionArgs flattens one reconciled detection into named-query
// arguments. The ordinal is the detection's index in the reconciler's output
// list.
func makeDetectionArgs(d entity.ReconciledDetection, runID, drawingID string, ordinal int, now time.Time) (map[string]interface{}, error) {
	maskJSON, err := json.Marshal(d.Mask)
	if err != nil {
		return nil, err
	}
	sourcesJSON, err := json.Marshal(d.Sources)
	if err != nil {
		return nil, err
	}

	var bboxJSON []byte
	if d.BBox != nil {
		bboxJSON, err = json.Marshal(d.BBox)
		if err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"id":           d.ID,
		"run_id":       runID,
		"drawing_id":   drawingID,
		"ordinal":      ordinal,
		"class":        d.Class,
		"category":     string(d.Category),
		"confidence":   d.Confidence,
		"provenance":   string(d.Provenance),
		"sources":      string(sourcesJSON),
		"mask":         string(maskJSON),
		"bbox":         string(bboxJSON),
		"area_sqft":    d.Display.AreaSqft,
		"perimeter_ft": d.Display.PerimeterFt,
		"width_ft":     d.Display.WidthFt,
		"height_ft":    d.Display.HeightFt,
		"created_at":   now,
		"updated_at":   now,
	}, nil
}

func makeDetection(row DetectionDB) (entity.ReconciledDetection, error) {
	var mask []geometry.Point
	if row.Mask.Valid && row.Mask.String != "" {
		if err := json.Unmarshal([]byte(row.Mask.String), &mask); err != nil {
			return entity.ReconciledDetection{}, err
		}
	}

	var sources []entity.Source
	if row.Sources.Valid && row.Sources.String != "" {
		if err := json.Unmarshal([]byte(row.Sources.String), &sources); err != nil {
			return entity.ReconciledDetection{}, err
		}
	}

	var bbox *entity.BBox
	if row.BBox.Valid && row.BBox.String != "" {
		bbox = &entity.BBox{}
		if err := json.Unmarshal([]byte(row.BBox.String), bbox); err != nil {
			return entity.ReconciledDetection{}, err
		}
	}

	return entity.ReconciledDetection{
		Detection: entity.Detection{
			ID:         row.ID.String,
			Class:      row.Class.String,
			Category:   entity.Category(row.Category.String),
			Confidence: row.Confidence.Float64,
			Mask:       mask,
			BBox:       bbox,
			Display: entity.DisplayMetrics{
				AreaSqft:    row.AreaSqft.Float64,
				PerimeterFt: row.PerimeterFt.Float64,
				WidthFt:     row.WidthFt.Float64,
				HeightFt:    row.HeightFt.Float64,
			},
		},
		Provenance: entity.Provenance(row.Provenance.String),
		Sources:    sources,
	}, nil
}
