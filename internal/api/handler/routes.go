package handler

import (
	"net/http"

	"github.com/vfg2006/traffic-manager-ads/internal/api/handler/router"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/insighting"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/promoting"
	"github.com/vfg2006/traffic-manager-ads/pkg/middleware"
)

// BusinessPrefix é o prefixo das rotas de um business
const BusinessPrefix = "/v1/businesses/:" + businessIDParam

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Campaigns retorna as rotas de campanhas; as demais rotas de objetos seguem
// o mesmo formato
func Campaigns(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	body := []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)}

	return []router.Route{
		{
			Path:    "/campaigns",
			Method:  http.MethodGet,
			Handler: queryHandler("campaigns", service.ListCampaigns),
		},
		{
			Path:    "/campaigns/local",
			Method:  http.MethodGet,
			Handler: ListLocalObjects(service, domain.KindCampaign),
		},
		{
			Path:        "/campaigns",
			Method:      http.MethodPost,
			Handler:     commandHandler("campaigns", service.CreateCampaign),
			Middlewares: body,
		},
		{
			Path:        "/campaigns",
			Method:      http.MethodDelete,
			Handler:     commandHandler("campaigns", service.DeleteCampaigns),
			Middlewares: body,
		},
	}
}

func AdSets(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	body := []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)}

	return []router.Route{
		{
			Path:    "/adsets",
			Method:  http.MethodGet,
			Handler: queryHandler("adsets", service.ListAdSets),
		},
		{
			Path:    "/adsets/local",
			Method:  http.MethodGet,
			Handler: ListLocalObjects(service, domain.KindAdSet),
		},
		{
			Path:        "/adsets",
			Method:      http.MethodPost,
			Handler:     commandHandler("adsets", service.CreateAdSet),
			Middlewares: body,
		},
		{
			Path:        "/adsets",
			Method:      http.MethodDelete,
			Handler:     commandHandler("adsets", service.DeleteAdSets),
			Middlewares: body,
		},
	}
}

func Ads(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	body := []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)}

	return []router.Route{
		{
			Path:    "/ads",
			Method:  http.MethodGet,
			Handler: queryHandler("ads", service.ListAds),
		},
		{
			Path:    "/ads/local",
			Method:  http.MethodGet,
			Handler: ListLocalObjects(service, domain.KindAd),
		},
		{
			Path:        "/ads",
			Method:      http.MethodPost,
			Handler:     commandHandler("ads", service.CreateAd),
			Middlewares: body,
		},
		{
			Path:        "/ads",
			Method:      http.MethodDelete,
			Handler:     commandHandler("ads", service.DeleteAds),
			Middlewares: body,
		},
	}
}

func Creatives(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	body := []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)}

	return []router.Route{
		{
			Path:    "/creatives",
			Method:  http.MethodGet,
			Handler: queryHandler("creatives", service.ListCreatives),
		},
		{
			Path:    "/creatives/local",
			Method:  http.MethodGet,
			Handler: ListLocalObjects(service, domain.KindCreative),
		},
		{
			Path:        "/creatives",
			Method:      http.MethodPost,
			Handler:     commandHandler("creatives", service.CreatePromotionCreatives),
			Middlewares: body,
		},
		{
			Path:        "/creatives",
			Method:      http.MethodDelete,
			Handler:     commandHandler("creatives", service.DeleteCreatives),
			Middlewares: body,
		},
	}
}

func AdLabels(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/adlabels",
			Method:  http.MethodGet,
			Handler: queryHandler("adlabels", service.ListAdLabels),
		},
		{
			Path:        "/adlabels",
			Method:      http.MethodPost,
			Handler:     commandHandler("adlabels", service.CreateAdLabel),
			Middlewares: []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)},
		},
	}
}

func AdStudies(service promoting.PromotingService, maxBodyBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/adstudies",
			Method:  http.MethodGet,
			Handler: queryHandler("adstudies", service.ListAdStudies),
		},
		{
			Path:        "/adstudies/split-tests",
			Method:      http.MethodPost,
			Handler:     commandHandler("adstudies", service.CreateSplitTests),
			Middlewares: []func(http.Handler) http.Handler{middleware.JSONBody(maxBodyBytes)},
		},
	}
}

func Insights(service insighting.Insighter) []router.Route {
	return []router.Route{
		{
			Path:    "/insights",
			Method:  http.MethodGet,
			Handler: GetPromotionInsights(service),
		},
	}
}

func BusinessSync(service promoting.PromotingService) []router.Route {
	return []router.Route{
		{
			Path:    "/sync",
			Method:  http.MethodPost,
			Handler: SyncBusiness(service),
		},
	}
}

func CronJobs(job ObjectSyncJob) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/object-sync/run",
			Method:  http.MethodPost,
			Handler: RunObjectSync(job),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetObjectSyncStatus(job),
		},
	}
}
