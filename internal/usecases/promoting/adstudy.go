package promoting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/apiErrors"
)

const (
	splitTestLeadTime        = 30 * time.Second
	splitTestDefaultDuration = 7 * 24 * time.Hour
	minSplitTestCells        = 2
)

var remoteTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05-0700"}

type locationGroup struct {
	locationID string
	adSets     []*domain.AdObject
}

// CreateSplitTests cria um estudo SPLIT_TEST por location da promoção, com
// uma célula por ad set e o tráfego dividido igualmente entre elas
func (s *Service) CreateSplitTests(ctx context.Context, req *domain.CreateSplitTestsRequest) domain.Result[[]*domain.AdObject] {
	if req.PromotionID == "" {
		return fail[[]*domain.AdObject](NewWorkflowError(ErrPromotionIDRequired, apiErrors.ErrMissingRequiredData, ""))
	}

	project, err := s.project(ctx, req.BusinessID)
	if err != nil {
		return fail[[]*domain.AdObject](err)
	}
	if project.RemoteBusinessID == "" {
		return fail[[]*domain.AdObject](NewWorkflowErrorWithBusiness(ErrRemoteBusinessID, apiErrors.ErrInvalidRequest, project.BusinessID, ""))
	}

	adSets, err := s.objects.Find(ctx, domain.ObjectFilter{
		Kind:           domain.KindAdSet,
		BusinessID:     project.BusinessID,
		LocationID:     req.LocationID,
		PromotionID:    req.PromotionID,
		RemoteIDs:      req.AdSetIDs,
		ExcludeRemoved: true,
	})
	if err != nil {
		logrus.WithField("business_id", project.BusinessID).WithError(err).Error("promoting: failed to load ad sets")
		return fail[[]*domain.AdObject](NewWorkflowErrorWithBusiness(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, project.BusinessID, ""))
	}

	now := s.clock.Now()
	studies := make([]*domain.AdObject, 0)
	failures := 0

	for _, group := range groupByLocation(adSets) {
		if len(group.adSets) < minSplitTestCells {
			logrus.WithFields(logrus.Fields{
				"business_id": project.BusinessID,
				"location_id": group.locationID,
			}).Info("promoting: location skipped, split test needs at least two ad sets")
			continue
		}

		params := splitTestParams(req, group, now)

		id, err := s.commit(ctx, project.RemoteBusinessID, "ad_studies", params)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"business_id": project.BusinessID,
				"location_id": group.locationID,
			}).WithError(err).Warn("promoting: split test not created")
			failures++
			continue
		}

		scope := domain.ObjectScope{
			BusinessID:  project.BusinessID,
			LocationID:  group.locationID,
			PromotionID: req.PromotionID,
		}
		study := newObject(project, domain.KindAdStudy, id, scope, params["name"].(string), domain.ObjectStatusActive)
		study.Fields = storedFields(params, nil)

		if err := s.persist(ctx, study); err != nil {
			failures++
			continue
		}
		studies = append(studies, study)
	}

	if len(studies) == 0 {
		return domain.Fail(ErrNoSplitTest.Error(), studies)
	}

	result := domain.Ok(studies)
	if failures > 0 {
		result.Message = fmt.Sprintf("%d estudos não foram criados", failures)
	}
	return result
}

func (s *Service) ListAdStudies(ctx context.Context, scope domain.ObjectScope) ([]metadomain.AdStudy, error) {
	project, err := s.project(ctx, scope.BusinessID)
	if err != nil {
		return nil, err
	}
	if project.RemoteBusinessID == "" {
		return []metadomain.AdStudy{}, nil
	}

	studies, err := s.integrator.ListAdStudies(ctx, project.RemoteBusinessID)
	if err != nil {
		return nil, NewWorkflowErrorWithBusiness(ErrMetaIntegration, apiErrors.ErrExternalService, project.BusinessID, remoteMessage(err))
	}

	s.syncInBackground(ctx, domain.KindAdStudy, adStudyObjects(project, studies))

	return studies, nil
}

func splitTestParams(req *domain.CreateSplitTestsRequest, group locationGroup, now time.Time) metadomain.Params {
	percentage := 100 / len(group.adSets)

	cells := make([]metadomain.AdStudyCell, 0, len(group.adSets))
	for _, adSet := range group.adSets {
		cells = append(cells, metadomain.AdStudyCell{
			Name:                adSet.Name,
			TreatmentPercentage: percentage,
			AdSets:              []string{adSet.RemoteID},
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Split test " + req.PromotionID
	}
	if group.locationID != "" {
		name = fmt.Sprintf("%s - %s", name, group.locationID)
	}

	start, end := splitTestWindow(group.adSets, now)

	params := metadomain.Params{
		"name":       name,
		"type":       metadomain.StudyTypeSplitTest,
		"start_time": start.Unix(),
		"end_time":   end.Unix(),
		"cells":      cells,
	}
	if req.Description != "" {
		params["description"] = req.Description
	}
	return params
}

// splitTestWindow começa no mais tardio entre now+30s e o início mais cedo dos
// ad sets; termina no fim mais tardio dos ad sets ou 7 dias após o início
func splitTestWindow(adSets []*domain.AdObject, now time.Time) (time.Time, time.Time) {
	var earliestStart, latestEnd time.Time
	for _, adSet := range adSets {
		if t, ok := fieldTime(adSet.Fields, "start_time"); ok && (earliestStart.IsZero() || t.Before(earliestStart)) {
			earliestStart = t
		}
		if t, ok := fieldTime(adSet.Fields, "end_time"); ok && t.After(latestEnd) {
			latestEnd = t
		}
	}

	start := now.Add(splitTestLeadTime)
	if earliestStart.After(start) {
		start = earliestStart
	}

	end := latestEnd
	if !end.After(start) {
		end = start.Add(splitTestDefaultDuration)
	}

	return start, end
}

func groupByLocation(adSets []*domain.AdObject) []locationGroup {
	index := make(map[string]int)
	groups := make([]locationGroup, 0)
	for _, adSet := range adSets {
		i, ok := index[adSet.LocationID]
		if !ok {
			i = len(groups)
			index[adSet.LocationID] = i
			groups = append(groups, locationGroup{locationID: adSet.LocationID})
		}
		groups[i].adSets = append(groups[i].adSets, adSet)
	}
	return groups
}

func fieldTime(fields map[string]any, key string) (time.Time, bool) {
	raw, ok := fields[key].(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	for _, layout := range remoteTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
