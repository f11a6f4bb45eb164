package insighting

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/repository"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

const insightFields = "account_id,campaign_name,campaign_id,spend,impressions,frequency,reach,objective,clicks,actions,cost_per_action_type"

type Insighter interface {
	// GetPromotionInsights obtém as métricas das campanhas de um escopo
	GetPromotionInsights(ctx context.Context, scope domain.ObjectScope, filters *domain.InsightFilters) (*domain.PromotionInsight, error)
}

type Service struct {
	projects repository.ProjectRepository
	objects  repository.ObjectRepository
	batch    metabatch.Runner
}

func NewService(projects repository.ProjectRepository, objects repository.ObjectRepository, batch metabatch.Runner) *Service {
	return &Service{
		projects: projects,
		objects:  objects,
		batch:    batch,
	}
}

// GetPromotionInsights busca em batch os insights de cada campanha local do
// escopo (incluindo as removidas, que ainda têm gasto no período) e agrega
// gasto, resultados e custo por resultado
func (s *Service) GetPromotionInsights(ctx context.Context, scope domain.ObjectScope, filters *domain.InsightFilters) (*domain.PromotionInsight, error) {
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, newInsightError(ErrInvalidPeriod, apiErrors.ErrInvalidRequest, scope.BusinessID)
	}

	project, err := s.projects.GetByBusinessID(ctx, scope.BusinessID)
	if err != nil {
		return nil, newInsightError(errors.Wrap(err, ErrDatabaseOperation.Error()), apiErrors.ErrDatabaseOperation, scope.BusinessID)
	}
	if project == nil {
		return nil, newInsightError(ErrProjectNotFound, apiErrors.ErrResourceNotFound, scope.BusinessID)
	}

	campaigns, err := s.objects.Find(ctx, domain.ObjectFilter{
		Kind:        domain.KindCampaign,
		BusinessID:  project.BusinessID,
		LocationID:  scope.LocationID,
		PromotionID: scope.PromotionID,
	})
	if err != nil {
		logrus.WithField("business_id", project.BusinessID).WithError(err).Error("insights: failed to load campaigns")
		return nil, newInsightError(errors.Wrap(err, ErrDatabaseOperation.Error()), apiErrors.ErrDatabaseOperation, project.BusinessID)
	}

	insight := &domain.PromotionInsight{
		BusinessID:  project.BusinessID,
		PromotionID: scope.PromotionID,
		Campaigns:   []*domain.CampaignInsight{},
	}
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil {
		insight.StartDate = filters.StartDate.Format(time.DateOnly)
		insight.EndDate = filters.EndDate.Format(time.DateOnly)
	}

	if len(campaigns) == 0 {
		return insight, nil
	}

	relativeURLs := make([]string, 0, len(campaigns))
	for _, campaign := range campaigns {
		relativeURLs = append(relativeURLs, insightURL(campaign.RemoteID, filters))
	}

	outcome := s.batch.Get(ctx, relativeURLs, meta.AccountNode(project.AdAccountID))

	for i, campaign := range campaigns {
		if i >= len(outcome.Responses) || !outcome.Responses[i].OK() {
			insight.Failed = append(insight.Failed, campaign.RemoteID)
			continue
		}

		var page metadomain.ListResponse[metadomain.CampaignInsight]
		if err := outcome.Responses[i].Decode(&page); err != nil {
			logrus.WithField("campaign_id", campaign.RemoteID).WithError(err).Warn("insights: failed to decode campaign insights")
			insight.Failed = append(insight.Failed, campaign.RemoteID)
			continue
		}

		for j := range page.Data {
			insight.Campaigns = append(insight.Campaigns, toCampaignInsight(&page.Data[j]))
		}
	}

	for _, campaign := range insight.Campaigns {
		insight.Spend += campaign.Spend
		insight.Result += campaign.Result
	}
	insight.Spend = utils.RoundWithTwoDecimalPlace(insight.Spend)
	if insight.Result > 0 {
		insight.CostPerResult = utils.RoundWithTwoDecimalPlace(insight.Spend / float64(insight.Result))
	}

	return insight, nil
}

func insightURL(campaignID string, filters *domain.InsightFilters) string {
	params := url.Values{}
	params.Add("fields", insightFields)
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil {
		params.Add("time_range", fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
			filters.StartDate.Format(time.DateOnly), filters.EndDate.Format(time.DateOnly)))
	} else {
		params.Add("date_preset", "maximum")
	}

	return fmt.Sprintf("%s/insights?%s", campaignID, params.Encode())
}

func toCampaignInsight(raw *metadomain.CampaignInsight) *domain.CampaignInsight {
	spend, err := strconv.ParseFloat(raw.Spend, 64)
	if err != nil && raw.Spend != "" {
		logrus.WithField("campaign_id", raw.CampaignID).WithError(err).Warn("insights: invalid spend")
	}

	return &domain.CampaignInsight{
		CampaignID:    raw.CampaignID,
		CampaignName:  raw.CampaignName,
		Clicks:        raw.Clicks,
		CostPerResult: raw.GetCostPerResult(),
		Frequency:     raw.Frequency,
		Impressions:   raw.Impressions,
		Objective:     raw.Objective,
		Reach:         raw.Reach,
		Result:        raw.GetResult(),
		Spend:         utils.RoundWithTwoDecimalPlace(spend),
	}
}
