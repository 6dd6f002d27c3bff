package projectRepository

const (
	queryCreateProject = `
		INSERT INTO projects (
			id,
			owner,
			name,
			description,
			created_at,
			updated_at
		) VALUES (
			:id,
			:owner,
			:name,
			:description,
			:created_at,
			:updated_at
		)
	`

	queryGetProjectByID = `
		SELECT
			id,
			owner,
			name,
			description,
			created_at,
			updated_at
		FROM projects
		WHERE id = :id
	`

	queryGetProjectsByOwner = `
		SELECT
			id,
			owner,
			name,
			description,
			created_at,
			updated_at
		FROM projects
		WHERE owner = :owner
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountProjectsByOwner = `
		SELECT COUNT(*)
		FROM projects
		WHERE owner = :owner
	`

	queryUpdateProject = `
		UPDATE projects
		SET
			name = :name,
			description = :description,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteProject = `
		DELETE FROM projects
		WHERE id = :id
	`

	queryCreateDrawing = `
		INSERT INTO drawings (
			id,
			project_id,
			name,
			image_url,
			image_width,
			image_height,
			scale_factor,
			created_at,
			updated_at
		) VALUES (
			:id,
			:project_id,
			:name,
			:image_url,
			:image_width,
			:image_height,
			:scale_factor,
			:created_at,
			:updated_at
		)
	`

	queryGetDrawingByID = `
		SELECT
			id,
			project_id,
			name,
			image_url,
			image_width,
			image_height,
			scale_factor,
			created_at,
			updated_at
		FROM drawings
		WHERE id = :id
	`

	queryGetDrawingsByProject = `
		SELECT
			id,
			project_id,
			name,
			image_url,
			image_width,
			image_height,
			scale_factor,
			created_at,
			updated_at
		FROM drawings
		WHERE project_id = :project_id
		ORDER BY created_at DESC
	`

	queryUpdateScaleFactor = `
		UPDATE drawings
		SET
			scale_factor = :scale_factor,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteDrawing = `
		DELETE FROM drawings
		WHERE id = :id
	`
)
