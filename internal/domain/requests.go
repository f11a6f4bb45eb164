package domain

import "time"

type CreateCampaignRequest struct {
	ObjectScope
	Name                string     `json:"name"`
	Objective           string     `json:"objective"`
	Status              string     `json:"status"`
	BuyingType          string     `json:"buying_type,omitempty"`
	DailyBudget         int64      `json:"daily_budget,omitempty"`
	LifetimeBudget      int64      `json:"lifetime_budget,omitempty"`
	BidStrategy         string     `json:"bid_strategy,omitempty"`
	SpecialAdCategories []string   `json:"special_ad_categories,omitempty"`
	StartTime           *time.Time `json:"start_time,omitempty"`
	StopTime            *time.Time `json:"stop_time,omitempty"`
}

type CreateAdSetRequest struct {
	ObjectScope
	CampaignID       string         `json:"campaign_id"`
	Name             string         `json:"name"`
	Status           string         `json:"status"`
	DailyBudget      int64          `json:"daily_budget,omitempty"`
	LifetimeBudget   int64          `json:"lifetime_budget,omitempty"`
	BidAmount        int64          `json:"bid_amount,omitempty"`
	BidStrategy      string         `json:"bid_strategy,omitempty"`
	BillingEvent     string         `json:"billing_event"`
	OptimizationGoal string         `json:"optimization_goal"`
	Targeting        map[string]any `json:"targeting"`
	PromotedObject   map[string]any `json:"promoted_object,omitempty"`
	StartTime        *time.Time     `json:"start_time,omitempty"`
	EndTime          *time.Time     `json:"end_time,omitempty"`
}

type CreateAdRequest struct {
	ObjectScope
	AdSetID    string `json:"adset_id"`
	CreativeID string `json:"creative_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

type CreateAdLabelRequest struct {
	ObjectScope
	Name string `json:"name"`
}

// CreativeRequest descreve o material de uma promoção; cada variante só é
// montada quando seus campos estão presentes
type CreativeRequest struct {
	ObjectScope
	Name                  string   `json:"name"`
	Message               string   `json:"message"`
	Headline              string   `json:"headline"`
	Description           string   `json:"description,omitempty"`
	LinkURL               string   `json:"link_url"`
	CallToAction          string   `json:"call_to_action"`
	ImageURL              string   `json:"image_url,omitempty"`
	CarouselImageURLs     []string `json:"carousel_image_urls,omitempty"`
	VideoURL              string   `json:"video_url,omitempty"`
	VideoThumbnailURL     string   `json:"video_thumbnail_url,omitempty"`
	SlideshowImageURLs    []string `json:"slideshow_image_urls,omitempty"`
	SlideshowDurationMs   int      `json:"slideshow_duration_ms,omitempty"`
	SlideshowTransitionMs int      `json:"slideshow_transition_ms,omitempty"`
}

type CreateSplitTestsRequest struct {
	ObjectScope
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	AdSetIDs    []string `json:"adset_ids,omitempty"`
}

// DeleteRequest remove os ids informados ou, sem ids, os registros ativos do
// escopo. Archive troca a exclusão por status ARCHIVED (somente campanhas).
type DeleteRequest struct {
	ObjectScope
	IDs     []string `json:"ids,omitempty"`
	Archive bool     `json:"archive,omitempty"`
}
