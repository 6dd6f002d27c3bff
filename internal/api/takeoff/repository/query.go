package takeoffRepository

const (
	queryCreateTakeoff = `
		INSERT INTO takeoffs (
			id,
			drawing_id,
			run_id,
			created_at
		) VALUES (
			:id,
			:drawing_id,
			:run_id,
			:created_at
		)
	`

	queryCreateTakeoffItem = `
		INSERT INTO takeoff_items (
			id,
			takeoff_id,
			detection_id,
			room_id,
			class,
			category,
			area_sqft,
			perimeter_ft,
			count
		) VALUES (
			:id,
			:takeoff_id,
			:detection_id,
			:room_id,
			:class,
			:category,
			:area_sqft,
			:perimeter_ft,
			:count
		)
	`

	queryGetTakeoffByID = `
		SELECT
			id,
			drawing_id,
			run_id,
			created_at
		FROM takeoffs
		WHERE id = :id
	`

	queryGetLatestTakeoffByDrawing = `
		SELECT
			id,
			drawing_id,
			run_id,
			created_at
		FROM takeoffs
		WHERE drawing_id = :drawing_id
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryGetTakeoffItems = `
		SELECT
			id,
			takeoff_id,
			detection_id,
			room_id,
			class,
			category,
			area_sqft,
			perimeter_ft,
			count
		FROM takeoff_items
		WHERE takeoff_id = :takeoff_id
		ORDER BY category ASC, class ASC, id ASC
	`
)
