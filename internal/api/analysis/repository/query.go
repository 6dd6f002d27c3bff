package analysisRepository

const (
	queryCreateRun = `
		INSERT INTO analysis_runs (
			id,
			drawing_id,
			sequence,
			skipped,
			created_at
		) VALUES (
			:id,
			:drawing_id,
			:sequence,
			:skipped,
			:created_at
		)
	`

	queryGetRunByID = `
		SELECT
			id,
			drawing_id,
			sequence,
			skipped,
			created_at
		FROM analysis_runs
		WHERE id = :id
	`

	queryGetLatestRunByDrawing = `
		SELECT
			id,
			drawing_id,
			sequence,
			skipped,
			created_at
		FROM analysis_runs
		WHERE drawing_id = :drawing_id
		ORDER BY sequence DESC
		LIMIT 1
	`

	queryGetLatestSequence = `
		SELECT COALESCE(MAX(sequence), 0)
		FROM analysis_runs
		WHERE drawing_id = :drawing_id
	`

	queryCreateDetection = `
		INSERT INTO detections (
			id,
			run_id,
			drawing_id,
			ordinal,
			class,
			category,
			confidence,
			provenance,
			sources,
			mask,
			bbox,
			area_sqft,
			perimeter_ft,
			width_ft,
			height_ft,
			created_at,
			updated_at
		) VALUES (
			:id,
			:run_id,
			:drawing_id,
			:ordinal,
			:class,
			:category,
			:confidence,
			:provenance,
			:sources,
			:mask,
			:bbox,
			:area_sqft,
			:perimeter_ft,
			:width_ft,
			:height_ft,
			:created_at,
			:updated_at
		)
	`

	queryGetDetectionsByRun = `
		SELECT
			id,
			run_id,
			drawing_id,
			ordinal,
			class,
			category,
			confidence,
			provenance,
			sources,
			mask,
			bbox,
			area_sqft,
			perimeter_ft,
			width_ft,
			height_ft,
			created_at,
			updated_at
		FROM detections
		WHERE run_id = :run_id
		ORDER BY ordinal ASC
	`

	queryGetDetectionByID = `
		SELECT
			id,
			run_id,
			drawing_id,
			ordinal,
			class,
			category,
			confidence,
			provenance,
			sources,
			mask,
			bbox,
			area_sqft,
			perimeter_ft,
			width_ft,
			height_ft,
			created_at,
			updated_at
		FROM detections
		WHERE id = :id
	`

	queryUpdateDetectionGeometry = `
		UPDATE detections
		SET
			mask = :mask,
			area_sqft = :area_sqft,
			perimeter_ft = :perimeter_ft,
			width_ft = :width_ft,
			height_ft = :height_ft,
			updated_at = :updated_at
		WHERE id = :id
	`
)
