package promoting

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/assetpipeline"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

// CreatePromotionCreatives monta as variantes da promoção e cria um
// adcreative por variante, cada um com um rótulo próprio para exclusão
// posterior. Variantes que falham são descartadas.
func (s *Service) CreatePromotionCreatives(ctx context.Context, req *domain.CreativeRequest) domain.Result[[]*domain.AdObject] {
	if req.PromotionID == "" {
		return fail[[]*domain.AdObject](NewWorkflowError(ErrPromotionIDRequired, apiErrors.ErrMissingRequiredData, ""))
	}
	if strings.TrimSpace(req.Name) == "" || req.LinkURL == "" {
		return fail[[]*domain.AdObject](NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "name e link_url são obrigatórios"))
	}

	project, err := s.project(ctx, req.BusinessID)
	if err != nil {
		return fail[[]*domain.AdObject](err)
	}

	labelIDs, err := s.scopeLabels(ctx, project, req.ObjectScope)
	if err != nil {
		return fail[[]*domain.AdObject](err)
	}

	variants := s.creatives.Build(ctx, assetpipeline.Target{
		AccountID:        project.AdAccountID,
		PageID:           project.PageID,
		InstagramActorID: project.InstagramActorID,
	}, req)
	if len(variants) == 0 {
		return fail[[]*domain.AdObject](NewWorkflowErrorWithBusiness(ErrNoCreativeVariant, apiErrors.ErrInvalidRequest, project.BusinessID, ""))
	}

	created := make([]*domain.AdObject, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		go func() {
			defer wg.Done()

			creative, err := s.createCreative(ctx, project, req, labelIDs, variant)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"business_id":  project.BusinessID,
					"promotion_id": req.PromotionID,
					"variant":      variant.Type,
				}).WithError(err).Warn("promoting: creative not created")
				return
			}
			created[i] = creative
		}()
	}
	wg.Wait()

	creatives := make([]*domain.AdObject, 0, len(created))
	for _, creative := range created {
		if creative != nil {
			creatives = append(creatives, creative)
		}
	}
	if len(creatives) == 0 {
		return domain.Fail(ErrNoCreativeVariant.Error(), creatives)
	}

	if err := s.objects.BulkUpsert(ctx, creatives); err != nil {
		logrus.WithField("business_id", project.BusinessID).WithError(err).Error("promoting: failed to persist creatives")
		return domain.Fail(ErrDatabaseOperation.Error(), creatives)
	}

	result := domain.Ok(creatives)
	if len(creatives) < len(variants) {
		result.Message = fmt.Sprintf("%d de %d criativos criados", len(creatives), len(variants))
	}
	return result
}

func (s *Service) createCreative(ctx context.Context, project *domain.Project, req *domain.CreativeRequest, scopeLabelIDs []string, variant *assetpipeline.Variant) (*domain.AdObject, error) {
	name, err := creativeLabelName(req.PromotionID, variant.Type)
	if err != nil {
		return nil, err
	}

	label, err := s.createLabel(ctx, project, name, req.ObjectScope)
	if err != nil {
		if label != nil {
			s.discardLabel(ctx, project, label)
		}
		return nil, err
	}

	labelIDs := append(append([]string{}, scopeLabelIDs...), label.RemoteID)
	params := metadomain.Params{
		"name":              fmt.Sprintf("%s - %s", req.Name, variant.Type),
		"object_story_spec": variant.ObjectStorySpec,
		"adlabels":          labelParams(labelIDs),
	}

	id, err := s.commit(ctx, meta.AccountNode(project.AdAccountID), "adcreatives", params)
	if err != nil {
		s.discardLabel(ctx, project, label)
		return nil, err
	}

	creative := newObject(project, domain.KindCreative, id, req.ObjectScope, params["name"].(string), domain.ObjectStatusActive)
	creative.LabelID = label.RemoteID
	creative.Fields = storedFields(params, labelIDs)
	creative.Fields["variant"] = variant.Type
	if variant.VideoID != "" {
		creative.Fields["video_id"] = variant.VideoID
	}

	return creative, nil
}

// discardLabel remove o rótulo de um criativo que não chegou a ser criado
func (s *Service) discardLabel(ctx context.Context, project *domain.Project, label *domain.AdObject) {
	fields := logrus.Fields{
		"business_id": project.BusinessID,
		"label_id":    label.RemoteID,
	}

	outcome := s.batch.Delete(ctx, []string{label.RemoteID}, meta.AccountNode(project.AdAccountID))
	if !outcome.Success {
		logrus.WithFields(fields).Error("promoting: orphan creative label not deleted")
		return
	}

	if _, err := s.objects.UpdateStatus(ctx, domain.KindAdLabel, []string{label.RemoteID}, domain.ObjectStatusDeleted); err != nil {
		logrus.WithFields(fields).WithError(err).Error("promoting: failed to soft delete orphan creative label")
	}
}

func (s *Service) ListCreatives(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdCreative, error) {
	project, labelIDs, err := s.readScope(ctx, scope)
	if err != nil || len(labelIDs) == 0 {
		return []metadomain.AdCreative{}, err
	}

	creatives, err := s.integrator.ListCreatives(ctx, project.AdAccountID, labelIDs)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindCreative, creativeObjects(project, creatives))

	return creatives, nil
}

func creativeLabelName(promotionID string, variant metadomain.CreativeVariant) (string, error) {
	suffix, err := utils.GenerateID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("creative:%s:%s:%s", promotionID, strings.ToLower(string(variant)), suffix), nil
}
