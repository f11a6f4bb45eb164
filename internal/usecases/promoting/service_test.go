package promoting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	batchmocks "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch/mocks"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
	metamocks "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/mocks"
	repomocks "github.com/vfg2006/traffic-manager-ads/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/assetpipeline"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeBuilder struct {
	variants []*assetpipeline.Variant
	target   assetpipeline.Target
}

func (f *fakeBuilder) Build(_ context.Context, target assetpipeline.Target, _ *domain.CreativeRequest) []*assetpipeline.Variant {
	f.target = target
	return f.variants
}

type fixture struct {
	svc        *Service
	integrator *metamocks.MockIntegrator
	batch      *batchmocks.MockRunner
	projects   *repomocks.MockProjectRepository
	objects    *repomocks.MockObjectRepository
	creatives  *fakeBuilder
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		integrator: metamocks.NewMockIntegrator(ctrl),
		batch:      batchmocks.NewMockRunner(ctrl),
		projects:   repomocks.NewMockProjectRepository(ctrl),
		objects:    repomocks.NewMockObjectRepository(ctrl),
		creatives:  &fakeBuilder{},
	}
	f.svc = NewService(f.integrator, f.batch, f.projects, f.objects, f.creatives, clock.NewFake(now))

	return f
}

func labelledProject() *domain.Project {
	return &domain.Project{
		ID:               "prj1",
		BusinessID:       "b1",
		RemoteBusinessID: "rb1",
		AdAccountID:      "123",
		PageID:           "page-1",
		BusinessLabel:    &domain.Label{ID: "lb", Name: "business:b1"},
		LocationLabels:   []domain.Label{{ID: "ll1", Name: "location:loc1", LocationID: "loc1"}},
		PromotionLabels:  []domain.Label{{ID: "lp1", Name: "promotion:p1", LocationID: "loc1", PromotionID: "p1"}},
	}
}

func (f *fixture) expectProject(project *domain.Project) {
	f.projects.EXPECT().GetByBusinessID(gomock.Any(), project.BusinessID).Return(project, nil)
}

func scope() domain.ObjectScope {
	return domain.ObjectScope{BusinessID: "b1", LocationID: "loc1", PromotionID: "p1"}
}

func campaignRequest() *domain.CreateCampaignRequest {
	return &domain.CreateCampaignRequest{
		ObjectScope: scope(),
		Name:        "Promo verão",
		Objective:   string(metadomain.ObjectiveTraffic),
		DailyBudget: 5000,
	}
}

func TestCreateCampaign_DryRunFailureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), true).
		Return(nil, &metaclient.APIError{StatusCode: 400, Code: 100, Message: "Invalid parameter"})

	result := f.svc.CreateCampaign(context.Background(), campaignRequest())

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Contains(t, result.Message, "remote validation failed")
	assert.Contains(t, result.Message, "Invalid parameter")
}

func TestCreateCampaign_Commit(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	gomock.InOrder(
		f.integrator.EXPECT().
			Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), true).
			Return(&metadomain.CreateResult{Success: true}, nil),
		f.integrator.EXPECT().
			Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), false).
			DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, _ bool) (*metadomain.CreateResult, error) {
				assert.Equal(t, []map[string]string{{"id": "lb"}, {"id": "ll1"}, {"id": "lp1"}}, params["adlabels"])
				assert.Equal(t, domain.ObjectStatusPaused, params["status"])
				assert.Equal(t, int64(5000), params["daily_budget"])
				assert.Equal(t, []string{}, params["special_ad_categories"])
				return &metadomain.CreateResult{ID: "c1"}, nil
			}),
	)

	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, obj *domain.AdObject) error {
		assert.Equal(t, domain.KindCampaign, obj.Kind)
		assert.Equal(t, "c1", obj.RemoteID)
		assert.Equal(t, "123", obj.AccountID)
		assert.Equal(t, "p1", obj.PromotionID)
		assert.Equal(t, []string{"lb", "ll1", "lp1"}, obj.Fields["label_ids"])
		assert.NotContains(t, obj.Fields, "adlabels")
		obj.ID = "local-1"
		return nil
	})

	result := f.svc.CreateCampaign(context.Background(), campaignRequest())

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "local-1", result.Data.ID)
	assert.Equal(t, domain.ObjectStatusPaused, result.Data.Status)
}

func TestCreateCampaign_InvalidObjective(t *testing.T) {
	f := newFixture(t)

	req := campaignRequest()
	req.Objective = "CONVERSIONS"

	result := f.svc.CreateCampaign(context.Background(), req)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "objective")
}

func TestCreateCampaign_PersistFailureReturnsRemoteObject(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), true).Return(&metadomain.CreateResult{Success: true}, nil)
	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), false).Return(&metadomain.CreateResult{ID: "c1"}, nil)
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	result := f.svc.CreateCampaign(context.Background(), campaignRequest())

	assert.False(t, result.Success)
	require.NotNil(t, result.Data)
	assert.Equal(t, "c1", result.Data.RemoteID)
}

func TestCreateCampaign_CreatesMissingScopeLabels(t *testing.T) {
	f := newFixture(t)
	project := &domain.Project{BusinessID: "b1", AdAccountID: "123"}
	f.projects.EXPECT().GetByBusinessID(gomock.Any(), "b1").Return(project, nil).Times(2)

	var mu sync.Mutex
	created := map[string]string{}

	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "adlabels", gomock.Any(), gomock.Any()).
		Times(4).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
			if validateOnly {
				return &metadomain.CreateResult{Success: true}, nil
			}
			mu.Lock()
			defer mu.Unlock()
			id := fmt.Sprintf("label-%d", len(created)+1)
			created[params["name"].(string)] = id
			return &metadomain.CreateResult{ID: id}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(2).Return(nil)
	f.projects.EXPECT().SaveLabels(gomock.Any(), project).Return(nil)

	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), true).Return(&metadomain.CreateResult{Success: true}, nil)
	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), false).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, _ bool) (*metadomain.CreateResult, error) {
			assert.Equal(t, []map[string]string{{"id": "label-1"}, {"id": "label-2"}}, params["adlabels"])
			return &metadomain.CreateResult{ID: "c1"}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	req := campaignRequest()
	req.LocationID = ""

	result := f.svc.CreateCampaign(context.Background(), req)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "label-1", created["business:b1"])
	assert.Equal(t, "label-2", created["promotion:p1"])
	require.NotNil(t, project.BusinessLabel)
	assert.Equal(t, "label-1", project.BusinessLabel.ID)
	require.Len(t, project.PromotionLabels, 1)
	assert.Equal(t, "p1", project.PromotionLabels[0].PromotionID)
}

func TestCreateAdSet_InheritsCampaign(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "adsets", gomock.Any(), true).Return(&metadomain.CreateResult{Success: true}, nil)
	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "adsets", gomock.Any(), false).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, _ bool) (*metadomain.CreateResult, error) {
			assert.Equal(t, "c1", params["campaign_id"])
			assert.Equal(t, "2025-03-11T00:00:00Z", params["start_time"])
			return &metadomain.CreateResult{ID: "as1"}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	start := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	result := f.svc.CreateAdSet(context.Background(), &domain.CreateAdSetRequest{
		ObjectScope:      scope(),
		CampaignID:       "c1",
		Name:             "Loja centro",
		BillingEvent:     string(metadomain.BillingEventImpressions),
		OptimizationGoal: string(metadomain.OptimizationGoalLinkClicks),
		Targeting:        map[string]any{"geo_locations": map[string]any{"countries": []string{"BR"}}},
		DailyBudget:      2000,
		StartTime:        &start,
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "c1", result.Data.CampaignRemoteID)
	assert.Equal(t, "2025-03-11T00:00:00Z", result.Data.Fields["start_time"])
}

func TestCreateAd_ResolvesCampaignFromAdSet(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "ads", gomock.Any(), true).Return(&metadomain.CreateResult{Success: true}, nil)
	f.integrator.EXPECT().Create(gomock.Any(), "act_123", "ads", gomock.Any(), false).Return(&metadomain.CreateResult{ID: "ad1"}, nil)
	f.objects.EXPECT().FindOne(gomock.Any(), domain.KindAdSet, "as1").Return(&domain.AdObject{RemoteID: "as1", CampaignRemoteID: "c1"}, nil)
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	result := f.svc.CreateAd(context.Background(), &domain.CreateAdRequest{
		ObjectScope: scope(),
		AdSetID:     "as1",
		CreativeID:  "cr1",
		Name:        "Anúncio",
		Status:      "active",
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "c1", result.Data.CampaignRemoteID)
	assert.Equal(t, "as1", result.Data.AdSetRemoteID)
	assert.Equal(t, domain.ObjectStatusActive, result.Data.Status)
}

func adSet(id, location, start, end string) *domain.AdObject {
	fields := map[string]any{}
	if start != "" {
		fields["start_time"] = start
	}
	if end != "" {
		fields["end_time"] = end
	}
	return &domain.AdObject{
		Kind:        domain.KindAdSet,
		RemoteID:    id,
		Name:        "Ad set " + id,
		LocationID:  location,
		PromotionID: "p1",
		Fields:      fields,
	}
}

func TestCreateSplitTests_SplitsTrafficPerLocation(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{
		Kind:           domain.KindAdSet,
		BusinessID:     "b1",
		PromotionID:    "p1",
		ExcludeRemoved: true,
	}).Return([]*domain.AdObject{
		adSet("as1", "loc1", "", ""),
		adSet("as2", "loc1", "", ""),
		adSet("as3", "loc1", "", ""),
		adSet("as4", "loc2", "", ""),
	}, nil)

	f.integrator.EXPECT().Create(gomock.Any(), "rb1", "ad_studies", gomock.Any(), true).Return(&metadomain.CreateResult{Success: true}, nil)
	f.integrator.EXPECT().
		Create(gomock.Any(), "rb1", "ad_studies", gomock.Any(), false).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, _ bool) (*metadomain.CreateResult, error) {
			cells := params["cells"].([]metadomain.AdStudyCell)
			require.Len(t, cells, 3)
			for i, cell := range cells {
				assert.Equal(t, 33, cell.TreatmentPercentage)
				assert.Equal(t, []string{fmt.Sprintf("as%d", i+1)}, cell.AdSets)
			}
			assert.Equal(t, metadomain.StudyTypeSplitTest, params["type"])
			assert.Equal(t, now.Add(30*time.Second).Unix(), params["start_time"])
			assert.Equal(t, now.Add(30*time.Second+7*24*time.Hour).Unix(), params["end_time"])
			return &metadomain.CreateResult{ID: "study1"}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	result := f.svc.CreateSplitTests(context.Background(), &domain.CreateSplitTestsRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"},
		Name:        "Teste criativos",
	})

	require.True(t, result.Success, result.Message)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "study1", result.Data[0].RemoteID)
	assert.Equal(t, "loc1", result.Data[0].LocationID)
	assert.Equal(t, "Teste criativos - loc1", result.Data[0].Name)
}

func TestCreateSplitTests_NoEligibleLocation(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.objects.EXPECT().Find(gomock.Any(), gomock.Any()).Return([]*domain.AdObject{adSet("as1", "loc1", "", "")}, nil)

	result := f.svc.CreateSplitTests(context.Background(), &domain.CreateSplitTestsRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, ErrNoSplitTest.Error(), result.Message)
}

func TestSplitTestWindow(t *testing.T) {
	tests := []struct {
		name      string
		adSets    []*domain.AdObject
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "sem datas usa now+30s e 7 dias",
			adSets:    []*domain.AdObject{adSet("a", "", "", ""), adSet("b", "", "", "")},
			wantStart: now.Add(30 * time.Second),
			wantEnd:   now.Add(30*time.Second + 7*24*time.Hour),
		},
		{
			name: "início passado é adiado para now+30s",
			adSets: []*domain.AdObject{
				adSet("a", "", "2025-03-01T00:00:00Z", "2025-03-20T00:00:00Z"),
				adSet("b", "", "2025-03-05T00:00:00Z", ""),
			},
			wantStart: now.Add(30 * time.Second),
			wantEnd:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "início futuro mais cedo e fim mais tardio",
			adSets: []*domain.AdObject{
				adSet("a", "", "2025-03-15T10:00:00-0300", "2025-03-25T00:00:00Z"),
				adSet("b", "", "2025-03-12T00:00:00Z", "2025-03-30T00:00:00Z"),
			},
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "fim anterior ao início é ignorado",
			adSets:    []*domain.AdObject{adSet("a", "", "", "2025-03-01T00:00:00Z")},
			wantStart: now.Add(30 * time.Second),
			wantEnd:   now.Add(30*time.Second + 7*24*time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := splitTestWindow(tt.adSets, now)
			assert.True(t, tt.wantStart.Equal(start), "start: %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end: %s", end)
		})
	}
}

func TestDeleteAdSets_SoftDeleteSkipsRemovedParents(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	ids := []string{"as1", "as2", "as3"}
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindAdSet, BusinessID: "b1", RemoteIDs: ids}).
		Return([]*domain.AdObject{
			{Kind: domain.KindAdSet, RemoteID: "as1", CampaignRemoteID: "c1", Status: domain.ObjectStatusActive},
			{Kind: domain.KindAdSet, RemoteID: "as2", CampaignRemoteID: "c2", Status: domain.ObjectStatusActive},
		}, nil)
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindCampaign, RemoteIDs: []string{"c1", "c2"}}).
		Return([]*domain.AdObject{
			{Kind: domain.KindCampaign, RemoteID: "c1", Status: domain.ObjectStatusActive},
			{Kind: domain.KindCampaign, RemoteID: "c2", Status: domain.ObjectStatusDeleted},
		}, nil)

	f.batch.EXPECT().Delete(gomock.Any(), []string{"as1", "as3"}, "act_123").
		Return(&metabatch.Outcome{Success: true, Attempts: 1})

	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindAdSet, ids, domain.ObjectStatusDeleted).Return(int64(2), nil)
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindAd, AdSetRemoteIDs: ids, ExcludeRemoved: true}).
		Return([]*domain.AdObject{{Kind: domain.KindAd, RemoteID: "ad1"}}, nil)
	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindAd, []string{"ad1"}, domain.ObjectStatusDeleted).Return(int64(1), nil)

	result := f.svc.DeleteAdSets(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1"},
		IDs:         ids,
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, ids, result.Data.IDs)
	assert.Equal(t, []string{"as2"}, result.Data.Skipped)
	assert.Equal(t, int64(1), result.Data.Cascaded)
	assert.Equal(t, domain.ObjectStatusDeleted, result.Data.Status)
}

func TestDeleteCampaigns_BatchFailureKeepsLocalState(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{
		Kind:           domain.KindCampaign,
		BusinessID:     "b1",
		PromotionID:    "p1",
		ExcludeRemoved: true,
	}).Return([]*domain.AdObject{
		{Kind: domain.KindCampaign, RemoteID: "c1"},
		{Kind: domain.KindCampaign, RemoteID: "c2"},
	}, nil)

	f.batch.EXPECT().Delete(gomock.Any(), []string{"c1", "c2"}, "act_123").Return(&metabatch.Outcome{
		Success:  false,
		Attempts: 3,
		Responses: []metaclient.BatchResult{
			{Code: 200, Body: `{"success":true}`},
			{Code: 400, Body: `{"error":{"message":"Invalid parameter","code":100}}`},
		},
	})

	result := f.svc.DeleteCampaigns(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, ErrBatchFailed.Error(), result.Message)
	assert.Equal(t, []string{"c2"}, result.Data.Failed)
	assert.Equal(t, 3, result.Data.Attempts)
}

func TestDeleteCampaigns_ArchiveCascades(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	ids := []string{"c1"}
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindCampaign, BusinessID: "b1", RemoteIDs: ids}).
		Return([]*domain.AdObject{{Kind: domain.KindCampaign, RemoteID: "c1", Status: domain.ObjectStatusPaused}}, nil)
	f.batch.EXPECT().UpdateStatus(gomock.Any(), ids, metadomain.StatusArchived, "act_123").
		Return(&metabatch.Outcome{Success: true, Attempts: 1})

	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindCampaign, ids, domain.ObjectStatusArchived).Return(int64(1), nil)
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindAdSet, CampaignRemoteIDs: ids, ExcludeRemoved: true}).
		Return([]*domain.AdObject{{RemoteID: "as1"}, {RemoteID: "as2"}}, nil)
	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindAdSet, []string{"as1", "as2"}, domain.ObjectStatusArchived).Return(int64(2), nil)
	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{Kind: domain.KindAd, CampaignRemoteIDs: ids, ExcludeRemoved: true}).
		Return([]*domain.AdObject{}, nil)

	result := f.svc.DeleteCampaigns(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1"},
		IDs:         ids,
		Archive:     true,
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, domain.ObjectStatusArchived, result.Data.Status)
	assert.Equal(t, int64(2), result.Data.Cascaded)
}

func TestDeleteAds_ArchiveNotSupported(t *testing.T) {
	f := newFixture(t)

	result := f.svc.DeleteAds(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1"},
		IDs:         []string{"ad1"},
		Archive:     true,
	})

	assert.False(t, result.Success)
	assert.Equal(t, ErrArchiveNotSupported.Error(), result.Message)
}

func TestDelete_RequiresScope(t *testing.T) {
	f := newFixture(t)

	result := f.svc.DeleteAds(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, ErrDeleteScopeRequired.Error(), result.Message)
}

func TestDeleteCreatives_DeletesLabelsInSecondBatch(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{
		Kind:           domain.KindCreative,
		BusinessID:     "b1",
		PromotionID:    "p1",
		ExcludeRemoved: true,
	}).Return([]*domain.AdObject{
		{Kind: domain.KindCreative, RemoteID: "cr1", LabelID: "l1"},
		{Kind: domain.KindCreative, RemoteID: "cr2", LabelID: "l2"},
	}, nil)

	gomock.InOrder(
		f.batch.EXPECT().Delete(gomock.Any(), []string{"cr1", "cr2"}, "act_123").Return(&metabatch.Outcome{Success: true, Attempts: 1}),
		f.batch.EXPECT().Delete(gomock.Any(), []string{"l1", "l2"}, "act_123").Return(&metabatch.Outcome{Success: true, Attempts: 1}),
	)
	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindCreative, []string{"cr1", "cr2"}, domain.ObjectStatusDeleted).Return(int64(2), nil)
	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindAdLabel, []string{"l1", "l2"}, domain.ObjectStatusDeleted).Return(int64(2), nil)

	result := f.svc.DeleteCreatives(context.Background(), &domain.DeleteRequest{
		ObjectScope: domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"},
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, []string{"cr1", "cr2"}, result.Data.IDs)
	assert.Equal(t, int64(2), result.Data.Cascaded)
}

func TestCreatePromotionCreatives_OneCreativePerVariant(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())
	f.creatives.variants = []*assetpipeline.Variant{
		{Type: metadomain.CreativeVariantSingleImage, ObjectStorySpec: map[string]any{"page_id": "page-1"}},
		{Type: metadomain.CreativeVariantCarousel, ObjectStorySpec: map[string]any{"page_id": "page-1"}},
		{Type: metadomain.CreativeVariantSlideshow, ObjectStorySpec: map[string]any{"page_id": "page-1"}, VideoID: "v1"},
	}

	var mu sync.Mutex
	counter := 0
	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", gomock.Any(), gomock.Any(), gomock.Any()).
		Times(12).
		DoAndReturn(func(_ context.Context, _, edge string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
			if validateOnly {
				return &metadomain.CreateResult{Success: true}, nil
			}
			mu.Lock()
			defer mu.Unlock()
			counter++
			if edge == "adcreatives" {
				labels := params["adlabels"].([]map[string]string)
				assert.Len(t, labels, 4)
			}
			return &metadomain.CreateResult{ID: fmt.Sprintf("%s-%d", edge, counter)}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(3).Return(nil)
	f.objects.EXPECT().BulkUpsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, objs []*domain.AdObject) error {
		require.Len(t, objs, 3)
		for _, obj := range objs {
			assert.Equal(t, domain.KindCreative, obj.Kind)
			assert.NotEmpty(t, obj.LabelID)
		}
		return nil
	})

	result := f.svc.CreatePromotionCreatives(context.Background(), &domain.CreativeRequest{
		ObjectScope: scope(),
		Name:        "Promo",
		LinkURL:     "https://example.com",
	})

	require.True(t, result.Success, result.Message)
	require.Len(t, result.Data, 3)
	assert.Equal(t, metadomain.CreativeVariantSingleImage, result.Data[0].Fields["variant"])
	assert.Equal(t, metadomain.CreativeVariantSlideshow, result.Data[2].Fields["variant"])
	assert.Equal(t, "v1", result.Data[2].Fields["video_id"])
	assert.Equal(t, "page-1", f.creatives.target.PageID)
}

func TestCreatePromotionCreatives_NoVariants(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	result := f.svc.CreatePromotionCreatives(context.Background(), &domain.CreativeRequest{
		ObjectScope: scope(),
		Name:        "Promo",
		LinkURL:     "https://example.com",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, ErrNoCreativeVariant.Error())
}

func TestListCampaigns_SyncsInBackground(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	campaigns := []metadomain.Campaign{
		{ID: "c1", AccountID: "123", Name: "A", Status: "ACTIVE", AdLabels: []metadomain.AdLabel{{ID: "lb"}, {ID: "lp1"}}},
		{ID: "c2", AccountID: "123", Name: "B", Status: "PAUSED", AdLabels: []metadomain.AdLabel{{ID: "lp1"}}},
	}
	f.integrator.EXPECT().ListCampaigns(gomock.Any(), "123", []string{"lp1"}).Return(campaigns, nil)

	var mu sync.Mutex
	synced := map[string]*domain.AdObject{}
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(func(_ context.Context, obj *domain.AdObject) error {
		mu.Lock()
		synced[obj.RemoteID] = obj
		mu.Unlock()
		if obj.RemoteID == "c2" {
			return errors.New("deadlock detected")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	got, err := f.svc.ListCampaigns(ctx, domain.ObjectScope{BusinessID: "b1", PromotionID: "p1"})
	cancel()

	require.NoError(t, err)
	assert.Equal(t, campaigns, got)

	f.svc.Wait()
	require.Len(t, synced, 2)
	assert.Equal(t, "p1", synced["c1"].PromotionID)
	assert.Equal(t, "loc1", synced["c1"].LocationID)
	assert.Equal(t, domain.ObjectStatusPaused, synced["c2"].Status)
}

func TestListCampaigns_UnknownPromotionReturnsEmpty(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	got, err := f.svc.ListCampaigns(context.Background(), domain.ObjectScope{BusinessID: "b1", PromotionID: "p9"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListAds_RemoteErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().ListAds(gomock.Any(), "123", []string{"lb"}).
		Return(nil, &metaclient.APIError{StatusCode: 403, Code: 200, Message: "Permissions error"})

	_, err := f.svc.ListAds(context.Background(), domain.ObjectScope{BusinessID: "b1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetaIntegration)

	var workflowErr *WorkflowError
	require.ErrorAs(t, err, &workflowErr)
	assert.Equal(t, "b1", workflowErr.BusinessID)
	assert.Contains(t, workflowErr.Details, "Permissions error")
}

func TestList_ProjectNotFound(t *testing.T) {
	f := newFixture(t)
	f.projects.EXPECT().GetByBusinessID(gomock.Any(), "missing").Return(nil, nil)

	_, err := f.svc.ListAdSets(context.Background(), domain.ObjectScope{BusinessID: "missing"})

	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListLocal_ExcludesRemoved(t *testing.T) {
	f := newFixture(t)

	f.objects.EXPECT().Find(gomock.Any(), domain.ObjectFilter{
		Kind:           domain.KindAd,
		BusinessID:     "b1",
		LocationID:     "loc1",
		ExcludeRemoved: true,
	}).Return([]*domain.AdObject{{RemoteID: "ad1"}}, nil)

	got, err := f.svc.ListLocal(context.Background(), domain.KindAd, domain.ObjectScope{BusinessID: "b1", LocationID: "loc1"})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSyncProject(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())

	f.integrator.EXPECT().ListCampaigns(gomock.Any(), "123", []string{"lb"}).Return([]metadomain.Campaign{{ID: "c1"}}, nil)
	f.integrator.EXPECT().ListAdSets(gomock.Any(), "123", []string{"lb"}).Return([]metadomain.AdSet{{ID: "as1", CampaignID: "c1"}}, nil)
	f.integrator.EXPECT().ListAds(gomock.Any(), "123", []string{"lb"}).Return([]metadomain.Ad{{ID: "ad1", AdSetID: "as1"}, {ID: "ad2", AdSetID: "as1"}}, nil)
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(4).Return(nil)

	synced, err := f.svc.SyncProject(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, 4, synced)
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	if p.BusinessLabel != nil {
		label := *p.BusinessLabel
		clone.BusinessLabel = &label
	}
	clone.LocationLabels = append([]domain.Label(nil), p.LocationLabels...)
	clone.PromotionLabels = append([]domain.Label(nil), p.PromotionLabels...)
	return &clone
}

func TestCreateCampaign_ConcurrentScopeLabelsAreKept(t *testing.T) {
	tests := []struct {
		name            string
		promotions      []string
		wantLabels      int
		wantRemoteNames []string
	}{
		{
			name:            "different promotions",
			promotions:      []string{"p2", "p3"},
			wantLabels:      2,
			wantRemoteNames: []string{"promotion:p2", "promotion:p3"},
		},
		{
			name:            "same promotion",
			promotions:      []string{"p2", "p2"},
			wantLabels:      1,
			wantRemoteNames: []string{"promotion:p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			initial := labelledProject()
			initial.PromotionLabels = nil

			var mu sync.Mutex
			stored := cloneProject(initial)
			loads := 0
			var snapshots sync.WaitGroup
			snapshots.Add(len(tt.promotions))

			f.projects.EXPECT().GetByBusinessID(gomock.Any(), "b1").AnyTimes().
				DoAndReturn(func(context.Context, string) (*domain.Project, error) {
					mu.Lock()
					loads++
					first := loads <= len(tt.promotions)
					project := cloneProject(stored)
					mu.Unlock()

					// todas as requisições carregam o projeto antes de qualquer gravação
					if first {
						snapshots.Done()
						snapshots.Wait()
					}
					return project, nil
				})
			f.projects.EXPECT().SaveLabels(gomock.Any(), gomock.Any()).AnyTimes().
				DoAndReturn(func(_ context.Context, project *domain.Project) error {
					mu.Lock()
					defer mu.Unlock()
					stored = cloneProject(project)
					return nil
				})

			var remoteNames []string
			f.integrator.EXPECT().
				Create(gomock.Any(), "act_123", "adlabels", gomock.Any(), gomock.Any()).AnyTimes().
				DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
					if validateOnly {
						return &metadomain.CreateResult{Success: true}, nil
					}
					mu.Lock()
					defer mu.Unlock()
					name := params["name"].(string)
					remoteNames = append(remoteNames, name)
					return &metadomain.CreateResult{ID: fmt.Sprintf("label-%d-%s", len(remoteNames), name)}, nil
				})
			f.integrator.EXPECT().
				Create(gomock.Any(), "act_123", "campaigns", gomock.Any(), gomock.Any()).AnyTimes().
				Return(&metadomain.CreateResult{Success: true, ID: "c1"}, nil)
			f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).AnyTimes().Return(nil)

			results := make([]domain.Result[*domain.AdObject], len(tt.promotions))
			var wg sync.WaitGroup
			for i, promotionID := range tt.promotions {
				wg.Add(1)
				go func() {
					defer wg.Done()
					req := campaignRequest()
					req.PromotionID = promotionID
					results[i] = f.svc.CreateCampaign(context.Background(), req)
				}()
			}
			wg.Wait()

			for _, result := range results {
				require.True(t, result.Success, result.Message)
			}
			assert.ElementsMatch(t, tt.wantRemoteNames, remoteNames)
			require.Len(t, stored.PromotionLabels, tt.wantLabels)
			for _, promotionID := range tt.promotions {
				assert.NotNil(t, stored.PromotionLabel(promotionID), promotionID)
			}
			assert.Len(t, stored.LocationLabels, 1)
		})
	}
}

func TestCreatePromotionCreatives_FailedVariantDiscardsItsLabel(t *testing.T) {
	f := newFixture(t)
	f.expectProject(labelledProject())
	f.creatives.variants = []*assetpipeline.Variant{
		{Type: metadomain.CreativeVariantSingleImage, ObjectStorySpec: map[string]any{"page_id": "page-1"}},
		{Type: metadomain.CreativeVariantCarousel, ObjectStorySpec: map[string]any{"page_id": "page-1"}},
	}

	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "adlabels", gomock.Any(), gomock.Any()).
		Times(4).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
			if validateOnly {
				return &metadomain.CreateResult{Success: true}, nil
			}
			variant := strings.Split(params["name"].(string), ":")[2]
			return &metadomain.CreateResult{ID: "label-" + variant}, nil
		})
	f.integrator.EXPECT().
		Create(gomock.Any(), "act_123", "adcreatives", gomock.Any(), gomock.Any()).
		Times(3).
		DoAndReturn(func(_ context.Context, _, _ string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
			if strings.HasSuffix(params["name"].(string), string(metadomain.CreativeVariantCarousel)) {
				return nil, &metaclient.APIError{StatusCode: 400, Code: 100, Message: "Invalid child_attachments"}
			}
			if validateOnly {
				return &metadomain.CreateResult{Success: true}, nil
			}
			return &metadomain.CreateResult{ID: "cr-image"}, nil
		})
	f.objects.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(2).Return(nil)

	f.batch.EXPECT().Delete(gomock.Any(), []string{"label-carousel"}, "act_123").Return(&metabatch.Outcome{Success: true, Attempts: 1})
	f.objects.EXPECT().UpdateStatus(gomock.Any(), domain.KindAdLabel, []string{"label-carousel"}, domain.ObjectStatusDeleted).Return(int64(1), nil)

	f.objects.EXPECT().BulkUpsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, objs []*domain.AdObject) error {
		require.Len(t, objs, 1)
		assert.Equal(t, "label-single_image", objs[0].LabelID)
		return nil
	})

	result := f.svc.CreatePromotionCreatives(context.Background(), &domain.CreativeRequest{
		ObjectScope: scope(),
		Name:        "Promo",
		LinkURL:     "https://example.com",
	})

	require.True(t, result.Success, result.Message)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "cr-image", result.Data[0].RemoteID)
	assert.Equal(t, "1 de 2 criativos criados", result.Message)
}
