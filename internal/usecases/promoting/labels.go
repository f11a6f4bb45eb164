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

// CreateAdLabel cria um rótulo avulso na conta do projeto
func (s *Service) CreateAdLabel(ctx context.Context, req *domain.CreateAdLabelRequest) domain.Result[*domain.AdObject] {
	if strings.TrimSpace(req.Name) == "" {
		return fail[*domain.AdObject](NewWorkflowError(ErrInvalidRequest, apiErrors.ErrMissingRequiredData, "name é obrigatório"))
	}

	project, err := s.project(ctx, req.BusinessID)
	if err != nil {
		return fail[*domain.AdObject](err)
	}

	label, err := s.createLabel(ctx, project, req.Name, req.ObjectScope)
	if err != nil {
		return domain.Fail(err.Error(), label)
	}

	return domain.Ok(label)
}

func (s *Service) ListAdLabels(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdLabel, error) {
	project, err := s.project(ctx, scope.BusinessID)
	if err != nil {
		return nil, err
	}

	labels, err := s.integrator.ListAdLabels(ctx, project.AdAccountID)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindAdLabel, labelObjects(project, labels))

	return labels, nil
}

// createLabel cria o rótulo remoto (dry run + commit) e grava o espelho local.
// Em falha de gravação o objeto remoto é retornado junto com o erro.
func (s *Service) createLabel(ctx context.Context, project *domain.Project, name string, scope domain.ObjectScope) (*domain.AdObject, error) {
	params := metadomain.Params{"name": name}

	id, err := s.commit(ctx, meta.AccountNode(project.AdAccountID), "adlabels", params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": project.BusinessID,
			"label":       name,
		}).WithError(err).Error("promoting: failed to create ad label")
		return nil, err
	}

	label := newObject(project, domain.KindAdLabel, id, scope, name, domain.ObjectStatusActive)
	if err := s.persist(ctx, label); err != nil {
		return label, err
	}

	return label, nil
}

// scopeLabels garante os rótulos business, location e promoção do escopo,
// criando na conta os que ainda não existem, e retorna os ids do mais amplo
// para o mais específico. A criação acontece sob o lock do business e sobre o
// projeto relido do banco; os rótulos gravados são copiados para project.
func (s *Service) scopeLabels(ctx context.Context, project *domain.Project, scope domain.ObjectScope) ([]string, error) {
	if ids, ok := existingScopeLabels(project, scope); ok {
		return ids, nil
	}

	unlock := s.labelLocks.Lock(project.BusinessID)
	defer unlock()

	current, err := s.project(ctx, project.BusinessID)
	if err != nil {
		return nil, err
	}
	defer copyLabels(project, current)

	if ids, ok := existingScopeLabels(current, scope); ok {
		return ids, nil
	}

	changed := false

	if current.BusinessLabel == nil {
		label, err := s.createLabel(ctx, current, domain.BusinessLabelName(current.BusinessID), domain.ObjectScope{BusinessID: current.BusinessID})
		if err != nil {
			return nil, err
		}
		current.BusinessLabel = &domain.Label{ID: label.RemoteID, Name: label.Name}
		changed = true
	}

	if scope.LocationID != "" && current.LocationLabel(scope.LocationID) == nil {
		created, err := s.createLabel(ctx, current, domain.LocationLabelName(scope.LocationID), domain.ObjectScope{
			BusinessID: current.BusinessID,
			LocationID: scope.LocationID,
		})
		if err != nil {
			return nil, s.saveLabelsOnError(ctx, current, changed, err)
		}
		current.LocationLabels = append(current.LocationLabels, domain.Label{
			ID:         created.RemoteID,
			Name:       created.Name,
			LocationID: scope.LocationID,
		})
		changed = true
	}

	if scope.PromotionID != "" && current.PromotionLabel(scope.PromotionID) == nil {
		created, err := s.createLabel(ctx, current, domain.PromotionLabelName(scope.PromotionID), scope)
		if err != nil {
			return nil, s.saveLabelsOnError(ctx, current, changed, err)
		}
		current.PromotionLabels = append(current.PromotionLabels, domain.Label{
			ID:          created.RemoteID,
			Name:        created.Name,
			LocationID:  scope.LocationID,
			PromotionID: scope.PromotionID,
		})
		changed = true
	}

	if changed {
		if err := s.projects.SaveLabels(ctx, current); err != nil {
			logrus.WithField("business_id", current.BusinessID).WithError(err).Error("promoting: failed to save scope labels")
			return nil, NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, current.BusinessID, "Falha ao gravar rótulos do projeto")
		}
	}

	ids, _ := existingScopeLabels(current, scope)
	return ids, nil
}

// existingScopeLabels devolve os ids do escopo quando todos já existem no projeto
func existingScopeLabels(project *domain.Project, scope domain.ObjectScope) ([]string, bool) {
	if project.BusinessLabel == nil {
		return nil, false
	}
	ids := []string{project.BusinessLabel.ID}

	if scope.LocationID != "" {
		label := project.LocationLabel(scope.LocationID)
		if label == nil {
			return nil, false
		}
		ids = append(ids, label.ID)
	}

	if scope.PromotionID != "" {
		label := project.PromotionLabel(scope.PromotionID)
		if label == nil {
			return nil, false
		}
		ids = append(ids, label.ID)
	}

	return ids, true
}

func copyLabels(dst, src *domain.Project) {
	if dst == src {
		return
	}
	dst.BusinessLabel = src.BusinessLabel
	dst.LocationLabels = src.LocationLabels
	dst.PromotionLabels = src.PromotionLabels
}

// saveLabelsOnError mantém gravados os rótulos já criados antes da falha
func (s *Service) saveLabelsOnError(ctx context.Context, project *domain.Project, changed bool, cause error) error {
	if changed {
		if err := s.projects.SaveLabels(ctx, project); err != nil {
			logrus.WithField("business_id", project.BusinessID).WithError(err).Warn("promoting: failed to save partial scope labels")
		}
	}
	return cause
}
