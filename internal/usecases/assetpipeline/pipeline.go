package assetpipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/domain"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

const (
	defaultSlideshowDurationMs   = 1750
	defaultSlideshowTransitionMs = 250
	minCarouselCards             = 2
	maxCarouselCards             = 10
	minSlideshowImages           = 3
)

var (
	ErrTranscodeFailed  = errors.New("video transcode failed")
	ErrTranscodeTimeout = errors.New("video transcode did not finish in time")
)

// VideoIntegrator é o subconjunto da Graph API usado pelos formatos em vídeo
type VideoIntegrator interface {
	UploadVideo(ctx context.Context, accountID string, params metadomain.Params) (string, error)
	GetVideoStatus(ctx context.Context, videoID string) (metadomain.VideoStatus, error)
}

// Target identifica onde o criativo será publicado
type Target struct {
	AccountID        string
	PageID           string
	InstagramActorID string
}

// Variant é um object_story_spec pronto para virar um adcreative
type Variant struct {
	Type            metadomain.CreativeVariant `json:"type"`
	ObjectStorySpec map[string]any             `json:"object_story_spec"`
	VideoID         string                     `json:"video_id,omitempty"`
}

type builder func(ctx context.Context, target Target, req *domain.CreativeRequest) (*Variant, error)

type Pipeline struct {
	integrator   VideoIntegrator
	clock        clock.Clock
	pollInterval time.Duration
	maxPolls     int
}

func NewPipeline(integrator VideoIntegrator, cfg config.Transcode, clk clock.Clock) *Pipeline {
	pollInterval := cfg.PollInterval()
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}

	return &Pipeline{
		integrator:   integrator,
		clock:        clk,
		pollInterval: pollInterval,
		maxPolls:     cfg.MaxPolls,
	}
}

// Build monta os quatro formatos em paralelo (imagem, carrossel, vídeo e
// slideshow). Um formato que falha ou não tem material é descartado; a ordem
// dos formatos restantes é preservada.
func (p *Pipeline) Build(ctx context.Context, target Target, req *domain.CreativeRequest) []*Variant {
	builders := []struct {
		variant metadomain.CreativeVariant
		build   builder
	}{
		{metadomain.CreativeVariantSingleImage, p.singleImage},
		{metadomain.CreativeVariantCarousel, p.carousel},
		{metadomain.CreativeVariantSingleVideo, p.singleVideo},
		{metadomain.CreativeVariantSlideshow, p.slideshow},
	}

	results := make([]*Variant, len(builders))

	var wg sync.WaitGroup
	for i, b := range builders {
		wg.Add(1)
		go func() {
			defer wg.Done()

			variant, err := b.build(ctx, target, req)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"account_id":   target.AccountID,
					"promotion_id": req.PromotionID,
					"variant":      b.variant,
				}).WithError(err).Warn("assetpipeline: variant discarded")
				return
			}
			results[i] = variant
		}()
	}
	wg.Wait()

	variants := make([]*Variant, 0, len(results))
	for _, variant := range results {
		if variant != nil {
			variants = append(variants, variant)
		}
	}

	return variants
}

func (p *Pipeline) singleImage(_ context.Context, target Target, req *domain.CreativeRequest) (*Variant, error) {
	if req.ImageURL == "" {
		return nil, nil
	}

	linkData := map[string]any{
		"link":           req.LinkURL,
		"message":        req.Message,
		"name":           req.Headline,
		"picture":        req.ImageURL,
		"call_to_action": callToAction(req),
	}
	if req.Description != "" {
		linkData["description"] = req.Description
	}

	spec := storySpec(target)
	spec["link_data"] = linkData

	return &Variant{Type: metadomain.CreativeVariantSingleImage, ObjectStorySpec: spec}, nil
}

func (p *Pipeline) carousel(_ context.Context, target Target, req *domain.CreativeRequest) (*Variant, error) {
	if len(req.CarouselImageURLs) < minCarouselCards {
		return nil, nil
	}

	images := req.CarouselImageURLs
	if len(images) > maxCarouselCards {
		images = images[:maxCarouselCards]
	}

	cards := make([]map[string]any, 0, len(images))
	for _, image := range images {
		cards = append(cards, map[string]any{
			"link":           req.LinkURL,
			"picture":        image,
			"name":           req.Headline,
			"call_to_action": callToAction(req),
		})
	}

	spec := storySpec(target)
	spec["link_data"] = map[string]any{
		"link":                  req.LinkURL,
		"message":               req.Message,
		"child_attachments":     cards,
		"multi_share_optimized": true,
	}

	return &Variant{Type: metadomain.CreativeVariantCarousel, ObjectStorySpec: spec}, nil
}

func (p *Pipeline) singleVideo(ctx context.Context, target Target, req *domain.CreativeRequest) (*Variant, error) {
	if req.VideoURL == "" {
		return nil, nil
	}

	thumbnail := req.VideoThumbnailURL
	if thumbnail == "" {
		thumbnail = req.ImageURL
	}

	videoID, err := p.uploadAndWait(ctx, target.AccountID, metadomain.Params{
		"file_url": req.VideoURL,
		"name":     req.Name,
	})
	if err != nil {
		return nil, err
	}

	spec := storySpec(target)
	spec["video_data"] = videoData(req, videoID, thumbnail)

	return &Variant{Type: metadomain.CreativeVariantSingleVideo, ObjectStorySpec: spec, VideoID: videoID}, nil
}

func (p *Pipeline) slideshow(ctx context.Context, target Target, req *domain.CreativeRequest) (*Variant, error) {
	if len(req.SlideshowImageURLs) < minSlideshowImages {
		return nil, nil
	}

	duration := req.SlideshowDurationMs
	if duration <= 0 {
		duration = defaultSlideshowDurationMs
	}
	transition := req.SlideshowTransitionMs
	if transition <= 0 {
		transition = defaultSlideshowTransitionMs
	}

	videoID, err := p.uploadAndWait(ctx, target.AccountID, metadomain.Params{
		"name": req.Name,
		"slideshow_spec": map[string]any{
			"images_urls":   req.SlideshowImageURLs,
			"duration_ms":   duration,
			"transition_ms": transition,
		},
	})
	if err != nil {
		return nil, err
	}

	spec := storySpec(target)
	spec["video_data"] = videoData(req, videoID, req.SlideshowImageURLs[0])

	return &Variant{Type: metadomain.CreativeVariantSlideshow, ObjectStorySpec: spec, VideoID: videoID}, nil
}

// uploadAndWait envia o vídeo e consulta o status a cada pollInterval até
// ficar pronto, falhar ou estourar maxPolls (0 = sem limite)
func (p *Pipeline) uploadAndWait(ctx context.Context, accountID string, params metadomain.Params) (string, error) {
	videoID, err := p.integrator.UploadVideo(ctx, accountID, params)
	if err != nil {
		return "", err
	}

	for poll := 1; p.maxPolls <= 0 || poll <= p.maxPolls; poll++ {
		if err := p.clock.Sleep(ctx, p.pollInterval); err != nil {
			return "", err
		}

		status, err := p.integrator.GetVideoStatus(ctx, videoID)
		if err != nil {
			logrus.WithField("video_id", videoID).WithError(err).Warn("assetpipeline: failed to read video status")
			continue
		}

		switch status {
		case metadomain.VideoStatusReady:
			return videoID, nil
		case metadomain.VideoStatusError:
			return "", ErrTranscodeFailed
		}
	}

	return "", ErrTranscodeTimeout
}

func storySpec(target Target) map[string]any {
	spec := map[string]any{"page_id": target.PageID}
	if target.InstagramActorID != "" {
		spec["instagram_actor_id"] = target.InstagramActorID
	}
	return spec
}

func videoData(req *domain.CreativeRequest, videoID, imageURL string) map[string]any {
	data := map[string]any{
		"video_id":       videoID,
		"message":        req.Message,
		"title":          req.Headline,
		"call_to_action": callToAction(req),
	}
	if imageURL != "" {
		data["image_url"] = imageURL
	}
	return data
}

func callToAction(req *domain.CreativeRequest) map[string]any {
	cta := req.CallToAction
	if !metadomain.CallToActionType(cta).Valid() {
		cta = string(metadomain.CallToActionLearnMore)
	}
	return map[string]any{
		"type":  cta,
		"value": map[string]any{"link": req.LinkURL},
	}
}
