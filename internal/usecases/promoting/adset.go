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

func (s *Service) CreateAdSet(ctx context.Context, req *domain.CreateAdSetRequest) domain.Result[*domain.AdObject] {
	status, err := validateAdSet(req)
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

	params := metadomain.Params{
		"campaign_id":       req.CampaignID,
		"name":              req.Name,
		"status":            status,
		"billing_event":     req.BillingEvent,
		"optimization_goal": req.OptimizationGoal,
		"targeting":         req.Targeting,
		"adlabels":          labelParams(labelIDs),
	}
	if req.BidStrategy != "" {
		params["bid_strategy"] = req.BidStrategy
	}
	if len(req.PromotedObject) > 0 {
		params["promoted_object"] = req.PromotedObject
	} else if project.PixelID != "" && req.OptimizationGoal == string(metadomain.OptimizationGoalOffsiteConv) {
		params["promoted_object"] = map[string]any{"pixel_id": project.PixelID, "custom_event_type": "PURCHASE"}
	}
	setPositive(params, "daily_budget", req.DailyBudget)
	setPositive(params, "lifetime_budget", req.LifetimeBudget)
	setPositive(params, "bid_amount", req.BidAmount)
	setTime(params, "start_time", req.StartTime)
	setTime(params, "end_time", req.EndTime)

	id, err := s.commit(ctx, meta.AccountNode(project.AdAccountID), "adsets", params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": project.BusinessID,
			"campaign_id": req.CampaignID,
		}).WithError(err).Warn("promoting: ad set not created")
		return fail[*domain.AdObject](err)
	}

	adSet := newObject(project, domain.KindAdSet, id, req.ObjectScope, req.Name, status)
	adSet.CampaignRemoteID = req.CampaignID
	adSet.Fields = storedFields(params, labelIDs)

	if err := s.persist(ctx, adSet); err != nil {
		return domain.Fail(err.Error(), adSet)
	}

	return domain.Ok(adSet)
}

func (s *Service) ListAdSets(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdSet, error) {
	project, labelIDs, err := s.readScope(ctx, scope)
	if err != nil || len(labelIDs) == 0 {
		return []metadomain.AdSet{}, err
	}

	adSets, err := s.integrator.ListAdSets(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindAdSet, adSetObjects(project, adSets))

	return adSets, nil
}

func (s *Service) DeleteAdSets(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary] {
	return s.deleteObjects(ctx, domain.KindAdSet, req)
}

func validateAdSet(req *domain.CreateAdSetRequest) (domain.ObjectStatus, error) {
	if strings.TrimSpace(req.Name) == "" || req.CampaignID == "" {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "name e campaign_id são obrigatórios")
	}
	if !metadomain.BillingEvent(req.BillingEvent).Valid() {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "billing_event inválido: "+req.BillingEvent)
	}
	if !metadomain.OptimizationGoal(req.OptimizationGoal).Valid() {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "optimization_goal inválido: "+req.OptimizationGoal)
	}
	if req.BidStrategy != "" && !metadomain.BidStrategy(req.BidStrategy).Valid() {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "bid_strategy inválido: "+req.BidStrategy)
	}
	if len(req.Targeting) == 0 {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "targeting é obrigatório")
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "end_time deve ser posterior a start_time")
	}
	return creationStatus(req.Status)
}
