package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/repository"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
)

// ProjectSyncer reconcilia os objetos remotos de um business com o banco
type ProjectSyncer interface {
	SyncProject(ctx context.Context, businessID string) (int, error)
}

// ObjectSyncConfig representa a configuração do agendador de sincronização
type ObjectSyncConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// ObjectSyncService gerencia o agendamento e execução da sincronização de
// campanhas, ad sets e anúncios de todos os projetos
type ObjectSyncService struct {
	scheduler           *gocron.Scheduler
	config              ObjectSyncConfig
	projectRepo         repository.ProjectRepository
	syncer              ProjectSyncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncObjects     int
	lastSyncFailures    int
}

func NewObjectSyncService(
	projectRepo repository.ProjectRepository,
	syncer ProjectSyncer,
	appConfig *config.Config,
) *ObjectSyncService {
	syncConfig := ObjectSyncConfig{
		CronSchedule:      appConfig.ObjectSync.CronSchedule,
		MaxConcurrentJobs: max(1, appConfig.ObjectSync.MaxConcurrentJobs),
		SyncEnabled:       appConfig.ObjectSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização de objetos carregada")

	return &ObjectSyncService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      syncConfig,
		projectRepo: projectRepo,
		syncer:      syncer,
	}
}

// Start inicia o agendador
func (s *ObjectSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de objetos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de objetos")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllProjects(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de objetos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de objetos")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllProjects sincroniza os objetos de todos os projetos; uma execução em
// andamento faz as demais serem ignoradas
func (s *ObjectSyncService) syncAllProjects(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de objetos já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	startTime := time.Now()

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar projetos para sincronização de objetos")
		return
	}

	if len(projects) == 0 {
		logrus.Info("Nenhum projeto encontrado para sincronização de objetos")
		return
	}

	objects, failures := s.processProjects(ctx, projects)

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"projects": len(projects),
		"objects":  objects,
		"failures": failures,
	}).Info("Sincronização de objetos concluída")

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncObjects = objects
	s.lastSyncFailures = failures
	s.syncMutex.Unlock()
}

// processProjects sincroniza os projetos com no máximo MaxConcurrentJobs em paralelo
func (s *ObjectSyncService) processProjects(ctx context.Context, projects []*domain.Project) (int, int) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex
	objects, failures := 0, 0

	for _, project := range projects {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(p *domain.Project) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			synced, err := s.syncer.SyncProject(ctx, p.BusinessID)

			mu.Lock()
			defer mu.Unlock()
			objects += synced
			if err != nil {
				failures++
				logrus.WithFields(logrus.Fields{
					"business_id": p.BusinessID,
					"project":     p.Name,
				}).WithError(err).Error("Erro ao sincronizar objetos do projeto")
				return
			}

			logrus.WithFields(logrus.Fields{
				"business_id": p.BusinessID,
				"objects":     synced,
			}).Debug("Objetos do projeto sincronizados")
		}(project)
	}

	wg.Wait()

	return objects, failures
}

// TriggerManualSync inicia manualmente uma sincronização; retorna false se já
// houver uma em andamento
func (s *ObjectSyncService) TriggerManualSync(ctx context.Context) bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Sincronização de objetos já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de objetos")
	go s.syncAllProjects(context.WithoutCancel(ctx))
	return true
}

// GetStatus retorna o status atual do agendador
func (s *ObjectSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_objects":      s.lastSyncObjects,
		"last_sync_failures":     s.lastSyncFailures,
	}
}
