package promoting

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"golang.org/x/sync/errgroup"
)

// ListLocal retorna os registros locais ativos do escopo
func (s *Service) ListLocal(ctx context.Context, kind domain.ObjectKind, scope domain.ObjectScope) ([]*domain.AdObject, error) {
	if scope.BusinessID == "" {
		return nil, NewWorkflowError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	objects, err := s.objects.Find(ctx, domain.ObjectFilter{
		Kind:           kind,
		BusinessID:     scope.BusinessID,
		LocationID:     scope.LocationID,
		PromotionID:    scope.PromotionID,
		ExcludeRemoved: true,
	})
	if err != nil {
		logrus.WithField("kind", kind).WithError(err).Error("promoting: failed to list local objects")
		return nil, NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, scope.BusinessID, "")
	}

	return objects, nil
}

// SyncProject reconcilia campanhas, ad sets e anúncios do business e aguarda
// a gravação. Retorna quantos objetos foram gravados.
func (s *Service) SyncProject(ctx context.Context, businessID string) (int, error) {
	project, labelIDs, err := s.readScope(ctx, domain.ObjectScope{BusinessID: businessID})
	if err != nil || len(labelIDs) == 0 {
		return 0, err
	}

	campaigns, err := s.integrator.ListCampaigns(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return 0, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, businessID, remoteMessage(err))
	}
	synced := s.syncObjects(ctx, domain.KindCampaign, campaignObjects(project, campaigns))

	adSets, err := s.integrator.ListAdSets(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return synced, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, businessID, remoteMessage(err))
	}
	synced += s.syncObjects(ctx, domain.KindAdSet, adSetObjects(project, adSets))

	ads, err := s.integrator.ListAds(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return synced, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, businessID, remoteMessage(err))
	}
	synced += s.syncObjects(ctx, domain.KindAd, adObjects(project, ads))

	return synced, nil
}

func (s *Service) readScope(ctx context.Context, scope domain.ObjectScope) (*domain.Project, []string, error) {
	project, err := s.project(ctx, scope.BusinessID)
	if err != nil {
		return nil, nil, err
	}
	return project, project.ScopeLabelIDs(scope), nil
}

// syncInBackground grava o resultado de uma leitura sem bloquear a resposta;
// o contexto da requisição não cancela a gravação
func (s *Service) syncInBackground(ctx context.Context, kind domain.ObjectKind, objects []*domain.AdObject) {
	if len(objects) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.syncObjects(ctx, kind, objects)
	}()
}

// syncObjects faz o upsert concorrente dos objetos; falhas são apenas logadas
func (s *Service) syncObjects(ctx context.Context, kind domain.ObjectKind, objects []*domain.AdObject) int {
	var synced atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(max(1, s.syncConcurrency))
	for _, obj := range objects {
		g.Go(func() error {
			if err := s.objects.Upsert(ctx, obj); err != nil {
				logrus.WithFields(logrus.Fields{
					"kind":      kind,
					"remote_id": obj.RemoteID,
				}).WithError(err).Warn("promoting: failed to sync object")
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	logrus.WithFields(logrus.Fields{
		"kind":   kind,
		"total":  len(objects),
		"synced": synced.Load(),
	}).Debug("promoting: objects synced")

	return int(synced.Load())
}

func remoteObject(project *domain.Project, kind domain.ObjectKind, id, accountID, name, status, effectiveStatus string, labels []metadomain.AdLabel) *domain.AdObject {
	labelIDs := make([]string, 0, len(labels))
	for _, label := range labels {
		labelIDs = append(labelIDs, label.ID)
	}

	if accountID == "" {
		accountID = project.AdAccountID
	}

	obj := newObject(project, kind, id, project.ScopeFromLabels(labelIDs), name, remoteStatus(status))
	obj.AccountID = strings.TrimPrefix(accountID, "act_")
	if effectiveStatus != "" {
		obj.EffectiveStatus = effectiveStatus
	}
	obj.Fields = map[string]any{}
	if len(labelIDs) > 0 {
		obj.Fields["label_ids"] = labelIDs
	}
	return obj
}

func remoteStatus(status string) domain.ObjectStatus {
	if status == "" {
		return domain.ObjectStatusActive
	}
	return domain.ObjectStatus(strings.ToUpper(status))
}

func setNonEmpty(fields map[string]any, key string, value string) {
	if value != "" {
		fields[key] = value
	}
}

func campaignObjects(project *domain.Project, campaigns []metadomain.Campaign) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(campaigns))
	for _, c := range campaigns {
		obj := remoteObject(project, domain.KindCampaign, c.ID, c.AccountID, c.Name, c.Status, c.EffectiveStatus, c.AdLabels)
		setNonEmpty(obj.Fields, "objective", c.Objective)
		setNonEmpty(obj.Fields, "buying_type", c.BuyingType)
		setNonEmpty(obj.Fields, "daily_budget", c.DailyBudget)
		setNonEmpty(obj.Fields, "lifetime_budget", c.LifetimeBudget)
		setNonEmpty(obj.Fields, "start_time", c.StartTime)
		setNonEmpty(obj.Fields, "stop_time", c.StopTime)
		if len(c.SpecialAdCategories) > 0 {
			obj.Fields["special_ad_categories"] = c.SpecialAdCategories
		}
		objects = append(objects, obj)
	}
	return objects
}

func adSetObjects(project *domain.Project, adSets []metadomain.AdSet) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(adSets))
	for _, a := range adSets {
		obj := remoteObject(project, domain.KindAdSet, a.ID, a.AccountID, a.Name, a.Status, a.EffectiveStatus, a.AdLabels)
		obj.CampaignRemoteID = a.CampaignID
		setNonEmpty(obj.Fields, "billing_event", a.BillingEvent)
		setNonEmpty(obj.Fields, "optimization_goal", a.OptimizationGoal)
		setNonEmpty(obj.Fields, "bid_strategy", a.BidStrategy)
		setNonEmpty(obj.Fields, "bid_amount", a.BidAmount)
		setNonEmpty(obj.Fields, "daily_budget", a.DailyBudget)
		setNonEmpty(obj.Fields, "lifetime_budget", a.LifetimeBudget)
		setNonEmpty(obj.Fields, "start_time", a.StartTime)
		setNonEmpty(obj.Fields, "end_time", a.EndTime)
		if len(a.Targeting) > 0 {
			obj.Fields["targeting"] = a.Targeting
		}
		objects = append(objects, obj)
	}
	return objects
}

func adObjects(project *domain.Project, ads []metadomain.Ad) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(ads))
	for _, a := range ads {
		obj := remoteObject(project, domain.KindAd, a.ID, a.AccountID, a.Name, a.Status, a.EffectiveStatus, a.AdLabels)
		obj.CampaignRemoteID = a.CampaignID
		obj.AdSetRemoteID = a.AdSetID
		setNonEmpty(obj.Fields, "creative_id", a.Creative.ID)
		objects = append(objects, obj)
	}
	return objects
}

func creativeObjects(project *domain.Project, creatives []metadomain.AdCreative) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(creatives))
	for _, c := range creatives {
		obj := remoteObject(project, domain.KindCreative, c.ID, c.AccountID, c.Name, c.Status, "", c.AdLabels)
		setNonEmpty(obj.Fields, "thumbnail_url", c.ThumbnailURL)
		if len(c.ObjectStorySpec) > 0 {
			obj.Fields["object_story_spec"] = c.ObjectStorySpec
		}
		objects = append(objects, obj)
	}
	return objects
}

func labelObjects(project *domain.Project, labels []metadomain.AdLabel) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(labels))
	for _, l := range labels {
		obj := remoteObject(project, domain.KindAdLabel, l.ID, "", l.Name, "", "", []metadomain.AdLabel{l})
		delete(obj.Fields, "label_ids")
		objects = append(objects, obj)
	}
	return objects
}

func adStudyObjects(project *domain.Project, studies []metadomain.AdStudy) []*domain.AdObject {
	objects := make([]*domain.AdObject, 0, len(studies))
	for _, st := range studies {
		obj := remoteObject(project, domain.KindAdStudy, st.ID, "", st.Name, "", "", nil)
		setNonEmpty(obj.Fields, "type", st.Type)
		setNonEmpty(obj.Fields, "description", st.Description)
		setNonEmpty(obj.Fields, "start_time", st.StartTime)
		setNonEmpty(obj.Fields, "end_time", st.EndTime)
		objects = append(objects, obj)
	}
	return objects
}
