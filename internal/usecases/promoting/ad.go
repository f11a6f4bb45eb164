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

func (s *Service) CreateAd(ctx context.Context, req *domain.CreateAdRequest) domain.Result[*domain.AdObject] {
	if strings.TrimSpace(req.Name) == "" || req.AdSetID == "" || req.CreativeID == "" {
		return fail[*domain.AdObject](NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "name, adset_id e creative_id são obrigatórios"))
	}
	status, err := creationStatus(req.Status)
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
		"name":     req.Name,
		"adset_id": req.AdSetID,
		"creative": map[string]string{"creative_id": req.CreativeID},
		"status":   status,
		"adlabels": labelParams(labelIDs),
	}

	id, err := s.commit(ctx, meta.AccountNode(project.AdAccountID), "ads", params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": project.BusinessID,
			"adset_id":    req.AdSetID,
		}).WithError(err).Warn("promoting: ad not created")
		return fail[*domain.AdObject](err)
	}

	ad := newObject(project, domain.KindAd, id, req.ObjectScope, req.Name, status)
	ad.AdSetRemoteID = req.AdSetID
	ad.Fields = storedFields(params, labelIDs)

	// a campanha é herdada do ad set local, quando conhecido
	adSet, err := s.objects.FindOne(ctx, domain.KindAdSet, req.AdSetID)
	if err != nil {
		logrus.WithField("adset_id", req.AdSetID).WithError(err).Warn("promoting: failed to load parent ad set")
	} else if adSet != nil {
		ad.CampaignRemoteID = adSet.CampaignRemoteID
	}

	if err := s.persist(ctx, ad); err != nil {
		return domain.Fail(err.Error(), ad)
	}

	return domain.Ok(ad)
}

func (s *Service) ListAds(ctx context.Context, scope domain.ObjectScope) ([]metadomain.Ad, error) {
	project, labelIDs, err := s.readScope(ctx, scope)
	if err != nil || len(labelIDs) == 0 {
		return []metadomain.Ad{}, err
	}

	ads, err := s.integrator.ListAds(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindAd, adObjects(project, ads))

	return ads, nil
}

func (s *Service) DeleteAds(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary] {
	return s.deleteObjects(ctx, domain.KindAd, req)
}
