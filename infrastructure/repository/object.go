package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const objectsTable = "ad_objects"

var objectColumns = []string{
	"id", "kind", "remote_id", "account_id", "business_id", "location_id", "promotion_id",
	"campaign_remote_id", "adset_remote_id", "label_id", "name", "status", "effective_status",
	"fields", "created_at", "updated_at",
}

// Os campos de escopo só são sobrescritos quando o novo valor não é vazio:
// a sincronização nem sempre conhece location/promotion. fields é mesclado
// chave a chave, mantendo as chaves gravadas só localmente.
const objectUpsertSuffix = `
	ON CONFLICT (kind, remote_id) DO UPDATE SET
		account_id = EXCLUDED.account_id,
		business_id = COALESCE(NULLIF(EXCLUDED.business_id, ''), ad_objects.business_id),
		location_id = COALESCE(NULLIF(EXCLUDED.location_id, ''), ad_objects.location_id),
		promotion_id = COALESCE(NULLIF(EXCLUDED.promotion_id, ''), ad_objects.promotion_id),
		campaign_remote_id = COALESCE(NULLIF(EXCLUDED.campaign_remote_id, ''), ad_objects.campaign_remote_id),
		adset_remote_id = COALESCE(NULLIF(EXCLUDED.adset_remote_id, ''), ad_objects.adset_remote_id),
		label_id = COALESCE(NULLIF(EXCLUDED.label_id, ''), ad_objects.label_id),
		name = EXCLUDED.name,
		status = EXCLUDED.status,
		effective_status = EXCLUDED.effective_status,
		fields = COALESCE(ad_objects.fields, '{}'::jsonb) || EXCLUDED.fields,
		updated_at = EXCLUDED.updated_at
	RETURNING id`

//go:generate mockgen -source=object.go -destination=mocks/object.go -package=mocks
type ObjectRepository interface {
	Upsert(ctx context.Context, obj *domain.AdObject) error
	BulkUpsert(ctx context.Context, objs []*domain.AdObject) error
	FindOne(ctx context.Context, kind domain.ObjectKind, remoteID string) (*domain.AdObject, error)
	Find(ctx context.Context, filter domain.ObjectFilter) ([]*domain.AdObject, error)
	UpdateStatus(ctx context.Context, kind domain.ObjectKind, remoteIDs []string, status domain.ObjectStatus) (int64, error)
}

type objectRepository struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewObjectRepository(conn postgres.Queryer) ObjectRepository {
	return &objectRepository{
		conn: conn,
		now:  time.Now,
	}
}

// Upsert grava o objeto pela chave (kind, remote_id) e preenche o id local
func (r *objectRepository) Upsert(ctx context.Context, obj *domain.AdObject) error {
	query, err := r.insertQuery([]*domain.AdObject{obj})
	if err != nil {
		return err
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if err := r.conn.QueryRowContext(ctx, sqlQuery, args...).Scan(&obj.ID); err != nil {
		return wrapDBError(err, "failed to upsert ad object")
	}

	return nil
}

// BulkUpsert grava vários objetos em um único INSERT ... ON CONFLICT. Chaves
// repetidas na entrada mantêm a última ocorrência.
func (r *objectRepository) BulkUpsert(ctx context.Context, objs []*domain.AdObject) error {
	objs = dedupeByKey(objs)
	if len(objs) == 0 {
		return nil
	}

	query, err := r.insertQuery(objs)
	if err != nil {
		return err
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return wrapDBError(err, "failed to bulk upsert ad objects")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, "failed to scan upserted id")
		}
	}

	return rows.Err()
}

func (r *objectRepository) FindOne(ctx context.Context, kind domain.ObjectKind, remoteID string) (*domain.AdObject, error) {
	sqlQuery, args, err := squirrel.
		Select(objectColumns...).
		From(objectsTable).
		Where(squirrel.Eq{"kind": kind, "remote_id": remoteID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	obj, err := scanObject(r.conn.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError(err, "failed to find ad object")
	}

	return obj, nil
}

func (r *objectRepository) Find(ctx context.Context, filter domain.ObjectFilter) ([]*domain.AdObject, error) {
	sqlQuery, args, err := buildFindQuery(filter).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, wrapDBError(err, "failed to find ad objects")
	}
	defer rows.Close()

	objects := make([]*domain.AdObject, 0)
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan ad object")
		}
		objects = append(objects, obj)
	}

	return objects, rows.Err()
}

// UpdateStatus aplica a transição de status (exclusão lógica) em lote
func (r *objectRepository) UpdateStatus(ctx context.Context, kind domain.ObjectKind, remoteIDs []string, status domain.ObjectStatus) (int64, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}

	sqlQuery, args, err := squirrel.
		Update(objectsTable).
		Set("status", status).
		Set("effective_status", string(status)).
		Set("updated_at", r.now()).
		Where(squirrel.Eq{"kind": kind, "remote_id": remoteIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build query")
	}

	result, err := r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, wrapDBError(err, "failed to update ad object status")
	}

	return result.RowsAffected()
}

func (r *objectRepository) insertQuery(objs []*domain.AdObject) (squirrel.InsertBuilder, error) {
	now := r.now()

	query := squirrel.StatementBuilder.
		Insert(objectsTable).
		Columns(objectColumns...).
		PlaceholderFormat(squirrel.Dollar)

	for _, obj := range objs {
		if obj.ID == "" {
			id, err := utils.GenerateID()
			if err != nil {
				return query, errors.Wrap(err, "failed to generate id")
			}
			obj.ID = id
		}
		if obj.CreatedAt.IsZero() {
			obj.CreatedAt = now
		}
		obj.UpdatedAt = now

		if obj.Fields == nil {
			obj.Fields = map[string]any{}
		}
		fields, err := json.Marshal(obj.Fields)
		if err != nil {
			return query, errors.Wrap(err, "failed to encode fields")
		}

		query = query.Values(
			obj.ID,
			obj.Kind,
			obj.RemoteID,
			obj.AccountID,
			obj.BusinessID,
			obj.LocationID,
			obj.PromotionID,
			obj.CampaignRemoteID,
			obj.AdSetRemoteID,
			obj.LabelID,
			obj.Name,
			obj.Status,
			obj.EffectiveStatus,
			fields,
			obj.CreatedAt,
			obj.UpdatedAt,
		)
	}

	return query.Suffix(objectUpsertSuffix), nil
}

func buildFindQuery(filter domain.ObjectFilter) squirrel.SelectBuilder {
	query := squirrel.
		Select(objectColumns...).
		From(objectsTable).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.BusinessID != "" {
		query = query.Where(squirrel.Eq{"business_id": filter.BusinessID})
	}
	if filter.LocationID != "" {
		query = query.Where(squirrel.Eq{"location_id": filter.LocationID})
	}
	if filter.PromotionID != "" {
		query = query.Where(squirrel.Eq{"promotion_id": filter.PromotionID})
	}
	if len(filter.RemoteIDs) > 0 {
		query = query.Where(squirrel.Eq{"remote_id": filter.RemoteIDs})
	}
	if len(filter.CampaignRemoteIDs) > 0 {
		query = query.Where(squirrel.Eq{"campaign_remote_id": filter.CampaignRemoteIDs})
	}
	if len(filter.AdSetRemoteIDs) > 0 {
		query = query.Where(squirrel.Eq{"adset_remote_id": filter.AdSetRemoteIDs})
	}
	if filter.ExcludeRemoved {
		query = query.Where(squirrel.NotEq{"status": []domain.ObjectStatus{
			domain.ObjectStatusDeleted,
			domain.ObjectStatusArchived,
		}})
	}

	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (*domain.AdObject, error) {
	obj := &domain.AdObject{}
	var fields []byte

	if err := row.Scan(
		&obj.ID,
		&obj.Kind,
		&obj.RemoteID,
		&obj.AccountID,
		&obj.BusinessID,
		&obj.LocationID,
		&obj.PromotionID,
		&obj.CampaignRemoteID,
		&obj.AdSetRemoteID,
		&obj.LabelID,
		&obj.Name,
		&obj.Status,
		&obj.EffectiveStatus,
		&fields,
		&obj.CreatedAt,
		&obj.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &obj.Fields); err != nil {
			return nil, errors.Wrap(err, "failed to decode fields")
		}
	}

	return obj, nil
}

func dedupeByKey(objs []*domain.AdObject) []*domain.AdObject {
	type key struct {
		kind     domain.ObjectKind
		remoteID string
	}

	index := make(map[key]int, len(objs))
	out := make([]*domain.AdObject, 0, len(objs))
	for _, obj := range objs {
		if obj == nil || obj.RemoteID == "" {
			continue
		}
		k := key{obj.Kind, obj.RemoteID}
		if i, ok := index[k]; ok {
			out[i] = obj
			continue
		}
		index[k] = len(out)
		out = append(out, obj)
	}
	return out
}

func wrapDBError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(err, "%s: database error (code: %s)", message, pqErr.Code)
	}
	return errors.Wrap(err, message)
}
