package insighting

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	batchmocks "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch/mocks"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
	repomocks "github.com/vfg2006/traffic-manager-ads/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

const insightBody = `{"data":[{
	"campaign_id":"c1","campaign_name":"Promo","objective":"OUTCOME_TRAFFIC","spend":"100.50",
	"actions":[{"action_type":"link_click","value":"50"}],
	"cost_per_action_type":[{"action_type":"link_click","value":"2.011"}]
}]}`

func TestGetPromotionInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	projects := repomocks.NewMockProjectRepository(ctrl)
	objects := repomocks.NewMockObjectRepository(ctrl)
	batch := batchmocks.NewMockRunner(ctrl)

	projects.EXPECT().GetByBusinessID(gomock.Any(), "b1").Return(&domain.Project{BusinessID: "b1", AdAccountID: "123"}, nil)
	objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindCampaign, BusinessID: "b1", PromotionID: "p1"}).
		Return([]*domain.AdObject{{RemoteID: "c1"}, {RemoteID: "c2"}}, nil)

	batch.EXPECT().
		Get(gomock.Any(), gomock.Any(), "act_123").
		DoAndReturn(func(_ context.Context, urls []string, _ string) *metabatch.Outcome {
			require.Len(t, urls, 2)
			assert.True(t, strings.HasPrefix(urls[0], "c1/insights?"))

			query, err := url.ParseQuery(strings.SplitN(urls[0], "?", 2)[1])
			require.NoError(t, err)
			assert.Equal(t, `{"since":"2025-03-01","until":"2025-03-31"}`, query.Get("time_range"))

			return &metabatch.Outcome{
				Success:  false,
				Attempts: 3,
				Responses: []metaclient.BatchResult{
					{Code: 200, Body: insightBody},
					{Code: 500},
				},
			}
		})

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	svc := NewService(projects, objects, batch)
	insight, err := svc.GetPromotionInsights(context.Background(),
		domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"},
		&domain.InsightFilters{StartDate: &start, EndDate: &end})

	require.NoError(t, err)
	require.Len(t, insight.Campaigns, 1)
	assert.Equal(t, 50, insight.Campaigns[0].Result)
	assert.Equal(t, 2.01, insight.Campaigns[0].CostPerResult)
	assert.Equal(t, 100.5, insight.Spend)
	assert.Equal(t, 50, insight.Result)
	assert.Equal(t, 2.01, insight.CostPerResult)
	assert.Equal(t, []string{"c2"}, insight.Failed)
	assert.Equal(t, "2025-03-01", insight.StartDate)
}

func TestGetPromotionInsights_NoCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	projects := repomocks.NewMockProjectRepository(ctrl)
	objects := repomocks.NewMockObjectRepository(ctrl)

	projects.EXPECT().GetByBusinessID(gomock.Any(), "b1").Return(&domain.Project{BusinessID: "b1", AdAccountID: "123"}, nil)
	objects.EXPECT().Find(gomock.Any(), gomock.Any()).Return([]*domain.AdObject{}, nil)

	svc := NewService(projects, objects, batchmocks.NewMockRunner(ctrl))
	insight, err := svc.GetPromotionInsights(context.Background(), domain.ObjectScope{BusinessID: "b1"}, nil)

	require.NoError(t, err)
	assert.Empty(t, insight.Campaigns)
	assert.Zero(t, insight.CostPerResult)
}

func TestGetPromotionInsights_InvalidRange(t *testing.T) {
	svc := NewService(nil, nil, nil)

	start := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.GetPromotionInsights(context.Background(), domain.ObjectScope{BusinessID: "b1"},
		&domain.InsightFilters{StartDate: &start, EndDate: &end})

	assert.ErrorIs(t, err, ErrInvalidPeriod)

	var insightErr *InsightError
	require.ErrorAs(t, err, &insightErr)
	assert.Equal(t, apiErrors.ErrInvalidRequest, insightErr.ErrorCode())
}

func TestGetPromotionInsights_ProjectNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	projects := repomocks.NewMockProjectRepository(ctrl)
	projects.EXPECT().GetByBusinessID(gomock.Any(), "b404").Return(nil, nil)

	svc := NewService(projects, nil, nil)

	_, err := svc.GetPromotionInsights(context.Background(), domain.ObjectScope{BusinessID: "b404"}, nil)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Equal(t, apiErrors.ErrResourceNotFound, apiErrors.FromError(err, apiErrors.ErrInternalServer).Code)
}

func TestInsightURL_DefaultPreset(t *testing.T) {
	u := insightURL("c9", nil)
	assert.True(t, strings.HasPrefix(u, "c9/insights?"))
	assert.Contains(t, u, "date_preset=maximum")
}
