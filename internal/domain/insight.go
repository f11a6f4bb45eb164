package domain

import "time"

type InsightFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type CampaignInsight struct {
	CampaignID    string  `json:"campaign_id"`
	CampaignName  string  `json:"campaign_name"`
	Clicks        string  `json:"clicks"`
	CostPerResult float64 `json:"cost_per_result"`
	Frequency     string  `json:"frequency"`
	Impressions   string  `json:"impressions"`
	Objective     string  `json:"objective"`
	Reach         string  `json:"reach"`
	Result        int     `json:"result"`
	Spend         float64 `json:"spend"`
}

type PromotionInsight struct {
	BusinessID    string             `json:"business_id"`
	PromotionID   string             `json:"promotion_id,omitempty"`
	StartDate     string             `json:"start_date,omitempty"`
	EndDate       string             `json:"end_date,omitempty"`
	Campaigns     []*CampaignInsight `json:"campaigns"`
	Spend         float64            `json:"spend"`
	Result        int                `json:"result"`
	CostPerResult float64            `json:"cost_per_result"`
	Failed        []string           `json:"failed_campaigns,omitempty"`
}
