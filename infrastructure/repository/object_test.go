package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
)

func TestBuildFindQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.ObjectFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "sem filtros",
			filter:    domain.ObjectFilter{},
			wantWhere: "FROM ad_objects ORDER BY created_at ASC",
		},
		{
			name: "ativos da promoção",
			filter: domain.ObjectFilter{
				Kind:           domain.KindCampaign,
				BusinessID:     "b1",
				PromotionID:    "p1",
				ExcludeRemoved: true,
			},
			wantWhere: "WHERE kind = $1 AND business_id = $2 AND promotion_id = $3 AND status NOT IN ($4,$5)",
			wantArgs: []any{
				domain.KindCampaign, "b1", "p1",
				domain.ObjectStatusDeleted, domain.ObjectStatusArchived,
			},
		},
		{
			name: "filhos das campanhas",
			filter: domain.ObjectFilter{
				Kind:              domain.KindAdSet,
				CampaignRemoteIDs: []string{"c1", "c2"},
			},
			wantWhere: "WHERE kind = $1 AND campaign_remote_id IN ($2,$3)",
			wantArgs:  []any{domain.KindAdSet, "c1", "c2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlQuery, args, err := buildFindQuery(tt.filter).ToSql()
			require.NoError(t, err)

			assert.Contains(t, sqlQuery, tt.wantWhere)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestObjectRepository_InsertQuery(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &objectRepository{now: func() time.Time { return fixed }}

	obj := &domain.AdObject{
		Kind:     domain.KindCampaign,
		RemoteID: "120",
		Name:     "Promo",
		Status:   domain.ObjectStatusPaused,
		Fields:   map[string]any{"objective": "OUTCOME_TRAFFIC"},
	}

	query, err := repo.insertQuery([]*domain.AdObject{obj})
	require.NoError(t, err)

	sqlQuery, args, err := query.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, "INSERT INTO ad_objects")
	assert.Contains(t, sqlQuery, "ON CONFLICT (kind, remote_id) DO UPDATE SET")
	assert.Contains(t, sqlQuery, "RETURNING id")
	assert.Len(t, args, len(objectColumns))

	assert.Len(t, obj.ID, 6)
	assert.Equal(t, fixed, obj.CreatedAt)
	assert.Equal(t, fixed, obj.UpdatedAt)
	assert.Equal(t, []byte(`{"objective":"OUTCOME_TRAFFIC"}`), args[13])
}

func TestObjectRepository_InsertQueryMergesFields(t *testing.T) {
	repo := &objectRepository{now: time.Now}

	query, err := repo.insertQuery([]*domain.AdObject{{Kind: domain.KindCreative, RemoteID: "cr1"}})
	require.NoError(t, err)

	sqlQuery, args, err := query.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, "fields = COALESCE(ad_objects.fields, '{}'::jsonb) || EXCLUDED.fields")
	assert.NotContains(t, sqlQuery, "fields = EXCLUDED.fields")
	assert.Equal(t, []byte(`{}`), args[13])
}

func TestDedupeByKey(t *testing.T) {
	first := &domain.AdObject{Kind: domain.KindAd, RemoteID: "1", Name: "old"}
	last := &domain.AdObject{Kind: domain.KindAd, RemoteID: "1", Name: "new"}
	other := &domain.AdObject{Kind: domain.KindAdSet, RemoteID: "1"}
	noRemote := &domain.AdObject{Kind: domain.KindAd}

	out := dedupeByKey([]*domain.AdObject{first, other, nil, last, noRemote})

	require.Len(t, out, 2)
	assert.Equal(t, "new", out[0].Name)
	assert.Equal(t, domain.KindAdSet, out[1].Kind)
}
