package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
)

const projectsTable = "projects"

var projectColumns = []string{
	"id", "business_id", "name", "remote_business_id", "ad_account_id", "page_id", "instagram_actor_id", "pixel_id",
	"business_label", "location_labels", "promotion_labels", "created_at", "updated_at",
}

//go:generate mockgen -source=project.go -destination=mocks/project.go -package=mocks
type ProjectRepository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	SaveLabels(ctx context.Context, project *domain.Project) error
}

type projectRepository struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewProjectRepository(conn postgres.Queryer) ProjectRepository {
	return &projectRepository{
		conn: conn,
		now:  time.Now,
	}
}

func (r *projectRepository) GetByBusinessID(ctx context.Context, businessID string) (*domain.Project, error) {
	sqlQuery, args, err := squirrel.
		Select(projectColumns...).
		From(projectsTable).
		Where(squirrel.Eq{"business_id": businessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	project, err := scanProject(r.conn.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError(err, "failed to get project")
	}

	return project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	sqlQuery, args, err := squirrel.
		Select(projectColumns...).
		From(projectsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, wrapDBError(err, "failed to list projects")
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// SaveLabels grava os rótulos de escopo do projeto
func (r *projectRepository) SaveLabels(ctx context.Context, project *domain.Project) error {
	businessLabel, err := json.Marshal(project.BusinessLabel)
	if err != nil {
		return errors.Wrap(err, "failed to encode business label")
	}
	locationLabels, err := json.Marshal(project.LocationLabels)
	if err != nil {
		return errors.Wrap(err, "failed to encode location labels")
	}
	promotionLabels, err := json.Marshal(project.PromotionLabels)
	if err != nil {
		return errors.Wrap(err, "failed to encode promotion labels")
	}

	project.UpdatedAt = r.now()

	sqlQuery, args, err := squirrel.
		Update(projectsTable).
		Set("business_label", businessLabel).
		Set("location_labels", locationLabels).
		Set("promotion_labels", promotionLabels).
		Set("updated_at", project.UpdatedAt).
		Where(squirrel.Eq{"business_id": project.BusinessID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	result, err := r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return wrapDBError(err, "failed to save project labels")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return errors.Errorf("project not found for business %s", project.BusinessID)
	}

	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	project := &domain.Project{}
	var businessLabel, locationLabels, promotionLabels []byte
	var instagramActorID, pixelID sql.NullString

	if err := row.Scan(
		&project.ID,
		&project.BusinessID,
		&project.Name,
		&project.RemoteBusinessID,
		&project.AdAccountID,
		&project.PageID,
		&instagramActorID,
		&pixelID,
		&businessLabel,
		&locationLabels,
		&promotionLabels,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}

	project.InstagramActorID = instagramActorID.String
	project.PixelID = pixelID.String

	if len(businessLabel) > 0 && string(businessLabel) != "null" {
		if err := json.Unmarshal(businessLabel, &project.BusinessLabel); err != nil {
			return nil, errors.Wrap(err, "failed to decode business label")
		}
	}
	if len(locationLabels) > 0 {
		if err := json.Unmarshal(locationLabels, &project.LocationLabels); err != nil {
			return nil, errors.Wrap(err, "failed to decode location labels")
		}
	}
	if len(promotionLabels) > 0 {
		if err := json.Unmarshal(promotionLabels, &project.PromotionLabels); err != nil {
			return nil, errors.Wrap(err, "failed to decode promotion labels")
		}
	}

	return project, nil
}
