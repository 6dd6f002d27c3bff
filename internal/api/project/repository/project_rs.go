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

type ProjectDB struct {
	ID          sql.NullString `db:"id"`
	Owner       sql.NullString `db:"owner"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *projectsRepository) CreateProject(ctx context.Context, p entity.Project) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          p.ID,
		"owner":       p.Owner,
		"name":        p.Name,
		"description": p.Description,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateProject named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating project")
		return err
	}

	return nil
}

func (r *projectsRepository) GetProjectByID(ctx context.Context, id string) (entity.Project, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var p ProjectDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetProjectByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByID named query preparation err")
		return entity.Project{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetProjectByID no rows found")
			return entity.Project{}, project.ErrProjectNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectByID execution err")
		return entity.Project{}, err
	}

	return r.makeProject(p), nil
}

func (r *projectsRepository) GetProjectsByOwner(ctx context.Context, owner string, limit, offset int) ([]entity.Project, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var projectsList []ProjectDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountProjectsByOwner, map[string]interface{}{
		"owner": owner,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountProjectsByOwner named query preparation err")
		return nil, 0, err
	}

	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountProjectsByOwner execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"owner":  owner,
		"limit":  limit,
		"offset": offset,
	}

	query, args, err := sqlx.Named(queryGetProjectsByOwner, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectsByOwner named query preparation err")
		return nil, 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &projectsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectsByOwner execution err")
		return nil, 0, err
	}

	result := make([]entity.Project, 0, len(projectsList))
	for _, p := range projectsList {
		result = append(result, r.makeProject(p))
	}

	return result, total, nil
}

func (r *projectsRepository) UpdateProject(ctx context.Context, p entity.Project) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  p.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryUpdateProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateProject named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating project")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectsRepository) DeleteProject(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteProject, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteProject named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting project")
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectsRepository) makeProject(p ProjectDB) entity.Project {
	return entity.Project{
		ID:          p.ID.String,
		Owner:       p.Owner.String,
		Name:        p.Name.String,
		Description: p.Description.String,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
