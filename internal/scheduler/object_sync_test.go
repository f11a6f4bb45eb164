package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	repomocks "github.com/vfg2006/traffic-manager-ads/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"go.uber.org/mock/gomock"
)

type fakeSyncer struct {
	mu     sync.Mutex
	calls  []string
	synced map[string]int
	errs   map[string]error
}

func (f *fakeSyncer) SyncProject(_ context.Context, businessID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, businessID)
	return f.synced[businessID], f.errs[businessID]
}

func newTestSyncService(t *testing.T, syncer ProjectSyncer) (*ObjectSyncService, *repomocks.MockProjectRepository) {
	ctrl := gomock.NewController(t)
	projects := repomocks.NewMockProjectRepository(ctrl)

	cfg := &config.Config{ObjectSync: config.ObjectSync{
		CronSchedule:      "0 */6 * * *",
		MaxConcurrentJobs: 2,
		Enabled:           true,
	}}

	return NewObjectSyncService(projects, syncer, cfg), projects
}

func TestObjectSyncService_SyncAllProjects(t *testing.T) {
	syncer := &fakeSyncer{
		synced: map[string]int{"b1": 3, "b2": 1, "b3": 0},
		errs:   map[string]error{"b3": errors.New("meta down")},
	}
	svc, projects := newTestSyncService(t, syncer)

	projects.EXPECT().List(gomock.Any()).Return([]*domain.Project{
		{BusinessID: "b1"}, {BusinessID: "b2"}, {BusinessID: "b3"},
	}, nil)

	svc.syncAllProjects(context.Background())

	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, syncer.calls)

	status := svc.GetStatus()
	assert.Equal(t, 4, status["last_sync_objects"])
	assert.Equal(t, 1, status["last_sync_failures"])
	assert.Equal(t, false, status["sync_running"])
}

func TestObjectSyncService_SkipsWhenRunning(t *testing.T) {
	syncer := &fakeSyncer{}
	svc, _ := newTestSyncService(t, syncer)

	svc.syncRunning = true
	svc.syncAllProjects(context.Background())
	assert.False(t, svc.TriggerManualSync(context.Background()))

	assert.Empty(t, syncer.calls)
}

func TestObjectSyncService_ListError(t *testing.T) {
	syncer := &fakeSyncer{}
	svc, projects := newTestSyncService(t, syncer)

	projects.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	svc.syncAllProjects(context.Background())

	assert.Empty(t, syncer.calls)
	assert.True(t, svc.GetStatus()["last_sync_completed_at"].(time.Time).IsZero())
}

func TestObjectSyncService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewObjectSyncService(repomocks.NewMockProjectRepository(ctrl), &fakeSyncer{}, &config.Config{})

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, 1, svc.config.MaxConcurrentJobs)
}
