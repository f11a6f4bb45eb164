package metadomain

import (
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/pkg/utils"
)

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// Mapeamento de "objective" -> "cost_per_action_type"
var MetaObjectiveToActionType = map[string]string{
	"LINK_CLICKS":           "link_click",
	"POST_ENGAGEMENT":       "post_engagement",
	"VIDEO_VIEWS":           "video_view",
	"LEAD_GENERATION":       "lead",
	"CONVERSIONS":           "offsite_conversion",
	"MESSAGES":              "onsite_conversion.messaging_first_reply",
	"REACH":                 "reach",
	"STORE_TRAFFIC":         "store_visit",
	"OUTCOME_AWARENESS":     "reach",
	"OUTCOME_TRAFFIC":       "link_click",
	"OUTCOME_ENGAGEMENT":    "onsite_conversion.messaging_conversation_started_7d",
	"OUTCOME_LEADS":         "lead",
	"OUTCOME_SALES":         "offsite_conversion.fb_pixel_purchase",
	"OUTCOME_APP_PROMOTION": "app_install",
}

type CampaignInsight struct {
	AccountID      string   `json:"account_id"`
	Actions        []Action `json:"actions"`
	CampaignID     string   `json:"campaign_id"`
	CampaignName   string   `json:"campaign_name"`
	Clicks         string   `json:"clicks"`
	CostPerActions []Action `json:"cost_per_action_type"`
	DateStart      string   `json:"date_start"`
	DateStop       string   `json:"date_stop"`
	Frequency      string   `json:"frequency"`
	Impressions    string   `json:"impressions"`
	Objective      string   `json:"objective"`
	Reach          string   `json:"reach"`
	Spend          string   `json:"spend"`
}

// GetResult retorna o número de resultados da ação associada ao objetivo
func (c *CampaignInsight) GetResult() int {
	actionType, ok := MetaObjectiveToActionType[c.Objective]
	if !ok {
		logrus.WithField("objective", c.Objective).Info("insights: objective not mapped")
		return 0
	}

	for _, action := range c.Actions {
		if action.ActionType != actionType {
			continue
		}

		value, err := strconv.Atoi(action.Value)
		if err != nil {
			logrus.WithError(err).Error("insights: erro ao converter valor da ação")
		}
		return value
	}

	logrus.WithField("objective", c.Objective).Debug("insights: ação não encontrada")
	return 0
}

// GetCostPerResult retorna o custo por resultado arredondado em duas casas
func (c *CampaignInsight) GetCostPerResult() float64 {
	actionType := MetaObjectiveToActionType[c.Objective]

	for _, action := range c.CostPerActions {
		if action.ActionType != actionType {
			continue
		}

		value, err := strconv.ParseFloat(action.Value, 64)
		if err != nil {
			logrus.WithError(err).Error("insights: erro ao converter valor do custo por ação")
		}
		return utils.RoundWithTwoDecimalPlace(value)
	}

	return 0
}
