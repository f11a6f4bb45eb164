package promoting

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/repository"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/assetpipeline"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

const defaultSyncConcurrency = 10

type PromotingService interface {
	CreateCampaign(ctx context.Context, req *domain.CreateCampaignRequest) domain.Result[*domain.AdObject]
	CreateAdSet(ctx context.Context, req *domain.CreateAdSetRequest) domain.Result[*domain.AdObject]
	CreateAd(ctx context.Context, req *domain.CreateAdRequest) domain.Result[*domain.AdObject]
	CreateAdLabel(ctx context.Context, req *domain.CreateAdLabelRequest) domain.Result[*domain.AdObject]
	CreatePromotionCreatives(ctx context.Context, req *domain.CreativeRequest) domain.Result[[]*domain.AdObject]
	CreateSplitTests(ctx context.Context, req *domain.CreateSplitTestsRequest) domain.Result[[]*domain.AdObject]

	ListCampaigns(ctx context.Context, scope domain.ObjectScope) ([]metadomain.Campaign, error)
	ListAdSets(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdSet, error)
	ListAds(ctx context.Context, scope domain.ObjectScope) ([]metadomain.Ad, error)
	ListCreatives(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdCreative, error)
	ListAdLabels(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdLabel, error)
	ListAdStudies(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdStudy, error)
	ListLocal(ctx context.Context, kind domain.ObjectKind, scope domain.ObjectScope) ([]*domain.AdObject, error)

	DeleteCampaigns(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary]
	DeleteAdSets(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary]
	DeleteAds(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary]
	DeleteCreatives(ctx context.Context, req *domain.DeleteRequest) domain.Result[*domain.DeleteSummary]

	SyncProject(ctx context.Context, businessID string) (int, error)
}

// CreativeBuilder monta as variantes de criativo de uma promoção
type CreativeBuilder interface {
	Build(ctx context.Context, target assetpipeline.Target, req *domain.CreativeRequest) []*assetpipeline.Variant
}

type Service struct {
	integrator      meta.Integrator
	batch           metabatch.Runner
	projects        repository.ProjectRepository
	objects         repository.ObjectRepository
	creatives       CreativeBuilder
	clock           clock.Clock
	syncConcurrency int

	// labelLocks serializa a criação de rótulos de escopo por business
	labelLocks keyedLocks
	background sync.WaitGroup
}

func NewService(
	integrator meta.Integrator,
	batch metabatch.Runner,
	projects repository.ProjectRepository,
	objects repository.ObjectRepository,
	creatives CreativeBuilder,
	clk clock.Clock,
) *Service {
	return &Service{
		integrator:      integrator,
		batch:           batch,
		projects:        projects,
		objects:         objects,
		creatives:       creatives,
		clock:           clk,
		syncConcurrency: defaultSyncConcurrency,
	}
}

// Wait bloqueia até que as sincronizações em segundo plano terminem
func (s *Service) Wait() {
	s.background.Wait()
}

func (s *Service) project(ctx context.Context, businessID string) (*domain.Project, error) {
	if businessID == "" {
		return nil, NewWorkflowError(ErrBusinessIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	project, err := s.projects.GetByBusinessID(ctx, businessID)
	if err != nil {
		logrus.WithField("business_id", businessID).WithError(err).Error("promoting: failed to load project")
		return nil, NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, businessID, "Falha ao buscar o projeto")
	}
	if project == nil {
		return nil, NewWorkflowErrorWithBusiness(ErrProjectNotFound, apiErrors.ErrResourceNotFound, businessID, "")
	}

	return project, nil
}

// commit executa a criação em duas fases: dry run com validate_only e, só se
// a validação passar, a criação real
func (s *Service) commit(ctx context.Context, node, edge string, params metadomain.Params) (string, error) {
	validation, err := s.integrator.Create(ctx, node, edge, params, true)
	if err != nil {
		return "", NewWorkflowError(ErrValidationFailed, apiErrors.ErrInvalidRequest, remoteMessage(err))
	}
	if validation == nil || !validation.Success {
		return "", NewWorkflowError(ErrValidationFailed, apiErrors.ErrInvalidRequest, edge)
	}

	result, err := s.integrator.Create(ctx, node, edge, params, false)
	if err != nil {
		return "", NewWorkflowError(ErrCommitFailed, apiErrors.ErrExternalService, remoteMessage(err))
	}

	return result.ID, nil
}

func (s *Service) persist(ctx context.Context, obj *domain.AdObject) error {
	if err := s.objects.Upsert(ctx, obj); err != nil {
		logrus.WithFields(logrus.Fields{
			"kind":      obj.Kind,
			"remote_id": obj.RemoteID,
		}).WithError(err).Error("promoting: failed to persist object")
		return NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, obj.BusinessID, "Objeto criado na Meta mas não gravado localmente")
	}
	return nil
}

func newObject(project *domain.Project, kind domain.ObjectKind, remoteID string, scope domain.ObjectScope, name string, status domain.ObjectStatus) *domain.AdObject {
	return &domain.AdObject{
		Kind:            kind,
		RemoteID:        remoteID,
		AccountID:       strings.TrimPrefix(project.AdAccountID, "act_"),
		BusinessID:      project.BusinessID,
		LocationID:      scope.LocationID,
		PromotionID:     scope.PromotionID,
		Name:            name,
		Status:          status,
		EffectiveStatus: string(status),
	}
}

// creationStatus valida o status inicial; objetos são criados pausados por padrão
func creationStatus(status string) (domain.ObjectStatus, error) {
	switch metadomain.Status(strings.ToUpper(status)) {
	case "":
		return domain.ObjectStatusPaused, nil
	case metadomain.StatusActive:
		return domain.ObjectStatusActive, nil
	case metadomain.StatusPaused:
		return domain.ObjectStatusPaused, nil
	}
	return "", NewWorkflowError(ErrInvalidRequest, apiErrors.ErrInvalidFormat, "status deve ser ACTIVE ou PAUSED")
}

// storedFields copia os parâmetros enviados para o registro local, sem os
// rótulos, e guarda os ids de rótulo à parte
func storedFields(params metadomain.Params, labelIDs []string) map[string]any {
	fields := make(map[string]any, len(params)+1)
	for k, v := range params {
		if k == "adlabels" || k == "execution_options" {
			continue
		}
		fields[k] = v
	}
	if len(labelIDs) > 0 {
		fields["label_ids"] = labelIDs
	}
	return fields
}

func labelParams(labelIDs []string) []map[string]string {
	labels := make([]map[string]string, 0, len(labelIDs))
	for _, id := range labelIDs {
		labels = append(labels, map[string]string{"id": id})
	}
	return labels
}

func fail[T any](err error) domain.Result[T] {
	var zero T
	return domain.Fail(err.Error(), zero)
}

func setTime(params metadomain.Params, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		params[key] = t.UTC().Format(time.RFC3339)
	}
}

func setPositive(params metadomain.Params, key string, v int64) {
	if v > 0 {
		params[key] = v
	}
}
