package promoting

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

// deleteObjects remove campanhas, ad sets ou anúncios em lote e aplica a
// exclusão lógica localmente. Campanhas e ad sets propagam o status para os
// filhos locais, que a Meta já remove junto com o pai.
func (s *Service) deleteObjects(ctx context.Context, kind domain.ObjectKind, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary] {
	if req.Archive && kind != domain.KindCampaign {
		return fail[*domain.DeleteSummary](NewWorkflowError(ErrArchiveNotSupported, apiErrors.ErrInvalidRequest, ""))
	}

	project, targets, err := s.deleteTargets(ctx, kind, req)
	if err != nil {
		return fail[*domain.DeleteSummary](err)
	}

	status := domain.ObjectStatusDeleted
	if req.Archive {
		status = domain.ObjectStatusArchived
	}

	summary := &domain.DeleteSummary{IDs: []string{}, Status: status}
	if len(targets) == 0 {
		return domain.Ok(summary)
	}

	remote, skipped, err := s.partitionByParent(ctx, kind, targets)
	if err != nil {
		return domain.Fail(err.Error(), summary)
	}
	summary.Skipped = skipped

	if len(remote) > 0 {
		throttleKey := meta.AccountNode(project.AdAccountID)

		var outcome *metabatch.Outcome
		if req.Archive {
			outcome = s.batch.UpdateStatus(ctx, remote, metadomain.StatusArchived, throttleKey)
		} else {
			outcome = s.batch.Delete(ctx, remote, throttleKey)
		}

		summary.Attempts = outcome.Attempts
		if !outcome.Success {
			summary.Failed = failedIDs(remote, outcome)
			logrus.WithFields(logrus.Fields{
				"business_id": project.BusinessID,
				"kind":        kind,
				"failed":      len(summary.Failed),
				"attempts":    outcome.Attempts,
			}).Error("promoting: batch delete failed")
			return domain.Fail(ErrBatchFailed.Error(), summary)
		}
	}

	ids := remoteIDs(targets)
	summary.IDs = ids

	if _, err := s.objects.UpdateStatus(ctx, kind, ids, status); err != nil {
		logrus.WithField("kind", kind).WithError(err).Error("promoting: failed to soft delete objects")
		return domain.Fail(ErrDatabaseOperation.Error(), summary)
	}

	cascaded, err := s.cascadeStatus(ctx, kind, ids, status)
	if err != nil {
		logrus.WithField("kind", kind).WithError(err).Error("promoting: failed to cascade status")
		return domain.Fail(ErrDatabaseOperation.Error(), summary)
	}
	summary.Cascaded = cascaded

	return domain.Ok(summary)
}

// DeleteCreatives remove os criativos e, em um segundo batch, os rótulos
// próprios de cada criativo
func (s *Service) DeleteCreatives(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary] {
	if req.Archive {
		return fail[*domain.DeleteSummary](NewWorkflowError(ErrArchiveNotSupported, apiErrors.ErrInvalidRequest, ""))
	}

	project, targets, err := s.deleteTargets(ctx, domain.KindCreative, req)
	if err != nil {
		return fail[*domain.DeleteSummary](err)
	}

	summary := &domain.DeleteSummary{IDs: []string{}, Status: domain.ObjectStatusDeleted}
	if len(targets) == 0 {
		return domain.Ok(summary)
	}

	throttleKey := meta.AccountNode(project.AdAccountID)
	ids := remoteIDs(targets)

	outcome := s.batch.Delete(ctx, ids, throttleKey)
	summary.Attempts = outcome.Attempts
	if !outcome.Success {
		summary.Failed = failedIDs(ids, outcome)
		return domain.Fail(ErrBatchFailed.Error(), summary)
	}

	summary.IDs = ids
	if _, err := s.objects.UpdateStatus(ctx, domain.KindCreative, ids, domain.ObjectStatusDeleted); err != nil {
		logrus.WithError(err).Error("promoting: failed to soft delete creatives")
		return domain.Fail(ErrDatabaseOperation.Error(), summary)
	}

	labelIDs := make([]string, 0, len(targets))
	for _, creative := range targets {
		if creative.LabelID != "" {
			labelIDs = append(labelIDs, creative.LabelID)
		}
	}
	if len(labelIDs) == 0 {
		return domain.Ok(summary)
	}

	labels := s.batch.Delete(ctx, labelIDs, throttleKey)
	if !labels.Success {
		summary.Failed = failedIDs(labelIDs, labels)
		logrus.WithField("business_id", project.BusinessID).Error("promoting: creative labels not deleted")
		return domain.Fail(ErrLabelBatchFailed.Error(), summary)
	}

	removed, err := s.objects.UpdateStatus(ctx, domain.KindAdLabel, labelIDs, domain.ObjectStatusDeleted)
	if err != nil {
		logrus.WithError(err).Error("promoting: failed to soft delete creative labels")
		return domain.Fail(ErrDatabaseOperation.Error(), summary)
	}
	summary.Cascaded = removed

	return domain.Ok(summary)
}

// deleteTargets resolve os objetos a remover: os ids informados (mesmo os
// desconhecidos localmente) ou os registros ativos do escopo
func (s *Service) deleteTargets(ctx context.Context, kind domain.ObjectKind, req *domain.DeleteRequest) (*domain.Project, []*domain.AdObject, error) {
	if len(req.IDs) == 0 && req.LocationID == "" && req.PromotionID == "" {
		return nil, nil, NewWorkflowError(ErrDeleteScopeRequired, apiErrors.ErrMissingRequiredData, "")
	}

	project, err := s.project(ctx, req.BusinessID)
	if err != nil {
		return nil, nil, err
	}

	filter := domain.ObjectFilter{Kind: kind, BusinessID: project.BusinessID}
	if len(req.IDs) > 0 {
		filter.RemoteIDs = req.IDs
	} else {
		filter.LocationID = req.LocationID
		filter.PromotionID = req.PromotionID
		filter.ExcludeRemoved = true
	}

	found, err := s.objects.Find(ctx, filter)
	if err != nil {
		logrus.WithField("kind", kind).WithError(err).Error("promoting: failed to load objects to delete")
		return nil, nil, NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, project.BusinessID, "")
	}

	if len(req.IDs) == 0 {
		return project, found, nil
	}

	byID := make(map[string]*domain.AdObject, len(found))
	for _, obj := range found {
		byID[obj.RemoteID] = obj
	}

	targets := make([]*domain.AdObject, 0, len(req.IDs))
	seen := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		obj, ok := byID[id]
		if !ok {
			obj = &domain.AdObject{Kind: kind, RemoteID: id, BusinessID: project.BusinessID}
		}
		if obj.Status.IsRemoved() {
			continue
		}
		targets = append(targets, obj)
	}

	return project, targets, nil
}

// partitionByParent separa os objetos cujo pai já foi removido: a Meta já os
// removeu e a chamada remota falharia
func (s *Service) partitionByParent(ctx context.Context, kind domain.ObjectKind, targets []*domain.AdObject) ([]string, []string, error) {
	parentKind, parentOf := parentRef(kind)
	if parentOf == nil {
		return remoteIDs(targets), nil, nil
	}

	parentIDs := make([]string, 0, len(targets))
	for _, obj := range targets {
		if id := parentOf(obj); id != "" {
			parentIDs = append(parentIDs, id)
		}
	}

	removed := make(map[string]bool)
	if len(parentIDs) > 0 {
		parents, err := s.objects.Find(ctx, domain.ObjectFilter{Kind: parentKind, RemoteIDs: parentIDs})
		if err != nil {
			return nil, nil, NewWorkflowError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
		}
		for _, parent := range parents {
			if parent.Status.IsRemoved() {
				removed[parent.RemoteID] = true
			}
		}
	}

	remote := make([]string, 0, len(targets))
	skipped := make([]string, 0)
	for _, obj := range targets {
		if removed[parentOf(obj)] {
			skipped = append(skipped, obj.RemoteID)
			continue
		}
		remote = append(remote, obj.RemoteID)
	}

	return remote, skipped, nil
}

func parentRef(kind domain.ObjectKind) (domain.ObjectKind, func(*domain.AdObject) string) {
	switch kind {
	case domain.KindAdSet:
		return domain.KindCampaign, func(o *domain.AdObject) string { return o.CampaignRemoteID }
	case domain.KindAd:
		return domain.KindAdSet, func(o *domain.AdObject) string { return o.AdSetRemoteID }
	}
	return "", nil
}

// cascadeStatus aplica o status aos filhos locais ainda ativos
func (s *Service) cascadeStatus(ctx context.Context, kind domain.ObjectKind, ids []string, status domain.ObjectStatus) (int64, error) {
	var children []domain.ObjectFilter
	switch kind {
	case domain.KindCampaign:
		children = []domain.ObjectFilter{
			{Kind: domain.KindAdSet, CampaignRemoteIDs: ids, ExcludeRemoved: true},
			{Kind: domain.KindAd, CampaignRemoteIDs: ids, ExcludeRemoved: true},
		}
	case domain.KindAdSet:
		children = []domain.ObjectFilter{
			{Kind: domain.KindAd, AdSetRemoteIDs: ids, ExcludeRemoved: true},
		}
	}

	var total int64
	for _, filter := range children {
		found, err := s.objects.Find(ctx, filter)
		if err != nil {
			return total, err
		}
		if len(found) == 0 {
			continue
		}
		n, err := s.objects.UpdateStatus(ctx, filter.Kind, remoteIDs(found), status)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

func failedIDs(ids []string, outcome *metabatch.Outcome) []string {
	failed := make([]string, 0)
	for i, id := range ids {
		if i >= len(outcome.Responses) || !outcome.Responses[i].OK() {
			failed = append(failed, id)
		}
	}
	return failed
}

func remoteIDs(objs []*domain.AdObject) []string {
	ids := make([]string, 0, len(objs))
	for _, obj := range objs {
		ids = append(ids, obj.RemoteID)
	}
	return ids
}
