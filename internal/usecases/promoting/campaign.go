package promoting

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

func (s *Service) CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest) domain.Result[*domain.AdObject] {
	status, err := validateCampaign(req)
	if err != nil {
		return fail[*domain.AdObject](err)
	}

	project, err := s.project(ctx, req.BusinessID)
	if err != nil {
		return fail[*domain.AdObject](err)
	}

	labelIDs, err := s.scopeLabels(ctx, project, req.ObjectScope)
	if err != nil {
		return fail[*domain.AdObject](err)
	}

	categories := req.SpecialAdCategories
	if categories == nil {
		categories = []string{}
	}

	params := metadomain.Params{
		"name":                  req.Name,
		"objective":             req.Objective,
		"status":                status,
		"special_ad_categories": categories,
		"adlabels":              labelParams(labelIDs),
	}
	if req.BuyingType != "" {
		params["buying_type"] = req.BuyingType
	}
	if req.BidStrategy != "" {
		params["bid_strategy"] = req.BidStrategy
	}
	setPositive(params, "daily_budget", req.DailyBudget)
	setPositive(params, "lifetime_budget", req.LifetimeBudget)
	setTime(params, "start_time", req.StartTime)
	setTime(params, "stop_time", req.StopTime)

	id, err := s.commit(ctx, meta.AccountNode(project.AdAccountID), "campaigns", params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id":  project.BusinessID,
			"promotion_id": req.PromotionID,
		}).WithError(err).Warn("promoting: campaign not created")
		return fail[*domain.AdObject](err)
	}

	campaign := newObject(project, domain.KindCampaign, id, req.ObjectScope, req.Name, status)
	campaign.Fields = storedFields(params, labelIDs)

	if err := s.persist(ctx, campaign); err != nil {
		return domain.Fail(err.Error(), campaign)
	}

	return domain.Ok(campaign)
}

func (s *Service) ListCampaigns(ctx context.Context, scope domain.ObjectScope) ([]metadomain.Campaign, error) {
	project, labelIDs, err := s.readScope(ctx, scope)
	if err != nil || len(labelIDs) == 0 {
		return []metadomain.Campaign{}, err
	}

	campaigns, err := s.integrator.ListCampaigns(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindCampaign, campaignObjects(project, campaigns))

	return campaigns, nil
}

func (s *Service) DeleteCampaigns(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary] {
	return s.deleteObjects(ctx, domain.KindCampaign, req)
}

func validateCampaign(req *domain.CreateCampaignRequest) (domain.ObjectStatus, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "name é obrigatório")
	}
	if !metadomain.Objective(req.Objective).Valid() {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "objective inválido: "+req.Objective)
	}
	if req.BidStrategy != "" && !metadomain.BidStrategy(req.BidStrategy).Valid() {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "bid_strategy inválido: "+req.BidStrategy)
	}
	if req.StartTime != nil && req.StopTime != nil && !req.StopTime.After(*req.StartTime) {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "stop_time deve ser posterior a start_time")
	}
	return creationStatus(req.Status)
}
