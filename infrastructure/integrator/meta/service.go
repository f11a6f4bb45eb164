package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
)

const (
	CampaignFields   = "id,account_id,name,objective,status,effective_status,configured_status,buying_type,daily_budget,lifetime_budget,special_ad_categories,start_time,stop_time,adlabels"
	AdSetFields      = "id,account_id,campaign_id,name,status,effective_status,daily_budget,lifetime_budget,bid_amount,bid_strategy,billing_event,optimization_goal,start_time,end_time,targeting,adlabels"
	AdFields         = "id,account_id,campaign_id,adset_id,name,status,effective_status,creative{id},adlabels"
	AdCreativeFields = "id,account_id,name,status,object_story_spec,thumbnail_url,adlabels"
	AdLabelFields    = "id,name"
	AdStudyFields    = "id,name,type,description,start_time,end_time"

	pageLimit = 100
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks
type Integrator interface {
	Create(ctx context.Context, node, edge string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error)
	ListCampaigns(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.Campaign, error)
	ListAdSets(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.AdSet, error)
	ListAds(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.Ad, error)
	ListCreatives(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.AdCreative, error)
	ListAdLabels(ctx context.Context, accountID string) ([]metadomain.AdLabel, error)
	ListAdStudies(ctx context.Context, businessID string) ([]metadomain.AdStudy, error)
	UploadVideo(ctx context.Context, accountID string, params metadomain.Params) (string, error)
	GetVideoStatus(ctx context.Context, videoID string) (metadomain.VideoStatus, error)
}

type MetaIntegrator struct {
	Client metaclient.Client
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
	}
}

// AccountNode normaliza o id da conta de anúncios para o formato act_<id>
func AccountNode(accountID string) string {
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}

// LabelFilter monta o filtro de objetos que possuem qualquer um dos rótulos
func LabelFilter(labelIDs []string) []map[string]any {
	return []map[string]any{
		{"field": "adlabels", "operator": "ANY", "value": labelIDs},
	}
}

// Create cria um objeto em node/edge. Com validateOnly a chamada é um dry run
// (execution_options=["validate_only"]) e nada é criado.
func (s *MetaIntegrator) Create(ctx context.Context, node, edge string, params metadomain.Params, validateOnly bool) (*metadomain.CreateResult, error) {
	body := params.Clone()
	if validateOnly {
		body["execution_options"] = []string{"validate_only"}
	}

	resp, err := s.Client.Post(ctx, metaclient.Request{
		Node:        node,
		Edge:        edge,
		Params:      body,
		ThrottleKey: throttleKeyFor(node),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"node":          node,
			"edge":          edge,
			"validate_only": validateOnly,
		}).WithError(err).Error("meta: failed to create object")
		return nil, err
	}

	var result metadomain.CreateResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	if !validateOnly && result.ID == "" {
		return nil, fmt.Errorf("meta: create %s/%s returned no id", node, edge)
	}

	return &result, nil
}

func (s *MetaIntegrator) ListCampaigns(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.Campaign, error) {
	return listAll[metadomain.Campaign](ctx, s.Client, listRequest(AccountNode(accountID), "campaigns", CampaignFields, labelIDs))
}

func (s *MetaIntegrator) ListAdSets(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.AdSet, error) {
	return listAll[metadomain.AdSet](ctx, s.Client, listRequest(AccountNode(accountID), "adsets", AdSetFields, labelIDs))
}

func (s *MetaIntegrator) ListAds(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.Ad, error) {
	return listAll[metadomain.Ad](ctx, s.Client, listRequest(AccountNode(accountID), "ads", AdFields, labelIDs))
}

func (s *MetaIntegrator) ListCreatives(ctx context.Context, accountID string, labelIDs []string) ([]metadomain.AdCreative, error) {
	return listAll[metadomain.AdCreative](ctx, s.Client, listRequest(AccountNode(accountID), "adcreatives", AdCreativeFields, labelIDs))
}

func (s *MetaIntegrator) ListAdLabels(ctx context.Context, accountID string) ([]metadomain.AdLabel, error) {
	return listAll[metadomain.AdLabel](ctx, s.Client, listRequest(AccountNode(accountID), "adlabels", AdLabelFields, nil))
}

func (s *MetaIntegrator) ListAdStudies(ctx context.Context, businessID string) ([]metadomain.AdStudy, error) {
	return listAll[metadomain.AdStudy](ctx, s.Client, listRequest(businessID, "ad_studies", AdStudyFields, nil))
}

// UploadVideo envia um vídeo (file_url) ou um slideshow (slideshow_spec) para
// act_<id>/advideos e retorna o id do vídeo
func (s *MetaIntegrator) UploadVideo(ctx context.Context, accountID string, params metadomain.Params) (string, error) {
	node := AccountNode(accountID)

	resp, err := s.Client.Post(ctx, metaclient.Request{
		Node:        node,
		Edge:        "advideos",
		Params:      params,
		ThrottleKey: node,
	})
	if err != nil {
		return "", err
	}

	var result metadomain.CreateResult
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("meta: video upload returned no id")
	}

	return result.ID, nil
}

// GetVideoStatus consulta o estado de processamento do vídeo
func (s *MetaIntegrator) GetVideoStatus(ctx context.Context, videoID string) (metadomain.VideoStatus, error) {
	resp, err := s.Client.Get(ctx, metaclient.Request{
		Node:   videoID,
		Params: map[string]any{"fields": "status"},
	})
	if err != nil {
		return "", err
	}

	var video metadomain.AdVideo
	if err := resp.Decode(&video); err != nil {
		return "", err
	}

	return video.Status.VideoStatus, nil
}

func listRequest(node, edge, fields string, labelIDs []string) metaclient.Request {
	params := map[string]any{
		"fields": fields,
		"limit":  fmt.Sprint(pageLimit),
	}
	if len(labelIDs) > 0 {
		params["filtering"] = LabelFilter(labelIDs)
	}

	return metaclient.Request{
		Node:        node,
		Edge:        edge,
		Params:      params,
		ThrottleKey: throttleKeyFor(node),
	}
}

// listAll segue paging.next até a última página
func listAll[T any](ctx context.Context, client metaclient.Client, req metaclient.Request) ([]T, error) {
	items := make([]T, 0)

	for {
		resp, err := client.Get(ctx, req)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"node": req.Node,
				"edge": req.Edge,
			}).WithError(err).Error("meta: failed to list objects")
			return nil, err
		}

		var page metadomain.ListResponse[T]
		if err := resp.Decode(&page); err != nil {
			return nil, err
		}
		items = append(items, page.Data...)

		if page.Paging.Next == "" {
			return items, nil
		}

		req = metaclient.Request{
			Node:        page.Paging.Next,
			ThrottleKey: req.ThrottleKey,
		}
	}
}

func throttleKeyFor(node string) string {
	if strings.HasPrefix(node, "act_") {
		return node
	}
	return ""
}
