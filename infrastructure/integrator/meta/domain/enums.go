package metadomain

// Conjuntos fechados de valores aceitos pela Marketing API para os campos que
// o sistema envia. Valores fora desses conjuntos são rejeitados antes da
// chamada remota.

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusDeleted  Status = "DELETED"
	StatusArchived Status = "ARCHIVED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusDeleted, StatusArchived:
		return true
	}
	return false
}

type EffectiveStatus string

const (
	EffectiveStatusActive          EffectiveStatus = "ACTIVE"
	EffectiveStatusPaused          EffectiveStatus = "PAUSED"
	EffectiveStatusDeleted         EffectiveStatus = "DELETED"
	EffectiveStatusArchived        EffectiveStatus = "ARCHIVED"
	EffectiveStatusPendingReview   EffectiveStatus = "PENDING_REVIEW"
	EffectiveStatusDisapproved     EffectiveStatus = "DISAPPROVED"
	EffectiveStatusPreapproved     EffectiveStatus = "PREAPPROVED"
	EffectiveStatusPendingBilling  EffectiveStatus = "PENDING_BILLING_INFO"
	EffectiveStatusCampaignPaused  EffectiveStatus = "CAMPAIGN_PAUSED"
	EffectiveStatusAdSetPaused     EffectiveStatus = "ADSET_PAUSED"
	EffectiveStatusInProcess       EffectiveStatus = "IN_PROCESS"
	EffectiveStatusWithIssues      EffectiveStatus = "WITH_ISSUES"
)

type Objective string

const (
	ObjectiveAwareness    Objective = "OUTCOME_AWARENESS"
	ObjectiveTraffic      Objective = "OUTCOME_TRAFFIC"
	ObjectiveEngagement   Objective = "OUTCOME_ENGAGEMENT"
	ObjectiveLeads        Objective = "OUTCOME_LEADS"
	ObjectiveSales        Objective = "OUTCOME_SALES"
	ObjectiveAppPromotion Objective = "OUTCOME_APP_PROMOTION"
)

func (o Objective) Valid() bool {
	switch o {
	case ObjectiveAwareness, ObjectiveTraffic, ObjectiveEngagement,
		ObjectiveLeads, ObjectiveSales, ObjectiveAppPromotion:
		return true
	}
	return false
}

type BillingEvent string

const (
	BillingEventImpressions BillingEvent = "IMPRESSIONS"
	BillingEventLinkClicks  BillingEvent = "LINK_CLICKS"
	BillingEventThruPlay    BillingEvent = "THRUPLAY"
)

func (b BillingEvent) Valid() bool {
	switch b {
	case BillingEventImpressions, BillingEventLinkClicks, BillingEventThruPlay:
		return true
	}
	return false
}

type OptimizationGoal string

const (
	OptimizationGoalReach          OptimizationGoal = "REACH"
	OptimizationGoalImpressions    OptimizationGoal = "IMPRESSIONS"
	OptimizationGoalLinkClicks     OptimizationGoal = "LINK_CLICKS"
	OptimizationGoalLandingPage    OptimizationGoal = "LANDING_PAGE_VIEWS"
	OptimizationGoalOffsiteConv    OptimizationGoal = "OFFSITE_CONVERSIONS"
	OptimizationGoalLeadGeneration OptimizationGoal = "LEAD_GENERATION"
	OptimizationGoalThruPlay       OptimizationGoal = "THRUPLAY"
	OptimizationGoalPostEngagement OptimizationGoal = "POST_ENGAGEMENT"
)

func (o OptimizationGoal) Valid() bool {
	switch o {
	case OptimizationGoalReach, OptimizationGoalImpressions, OptimizationGoalLinkClicks,
		OptimizationGoalLandingPage, OptimizationGoalOffsiteConv, OptimizationGoalLeadGeneration,
		OptimizationGoalThruPlay, OptimizationGoalPostEngagement:
		return true
	}
	return false
}

type BidStrategy string

const (
	BidStrategyLowestCost        BidStrategy = "LOWEST_COST_WITHOUT_CAP"
	BidStrategyLowestCostWithCap BidStrategy = "LOWEST_COST_WITH_BID_CAP"
	BidStrategyCostCap           BidStrategy = "COST_CAP"
)

func (b BidStrategy) Valid() bool {
	switch b {
	case BidStrategyLowestCost, BidStrategyLowestCostWithCap, BidStrategyCostCap:
		return true
	}
	return false
}

type CallToActionType string

const (
	CallToActionLearnMore  CallToActionType = "LEARN_MORE"
	CallToActionShopNow    CallToActionType = "SHOP_NOW"
	CallToActionSignUp     CallToActionType = "SIGN_UP"
	CallToActionBookTravel CallToActionType = "BOOK_TRAVEL"
	CallToActionContactUs  CallToActionType = "CONTACT_US"
	CallToActionGetOffer   CallToActionType = "GET_OFFER"
	CallToActionMessage    CallToActionType = "MESSAGE_PAGE"
)

func (c CallToActionType) Valid() bool {
	switch c {
	case CallToActionLearnMore, CallToActionShopNow, CallToActionSignUp, CallToActionBookTravel,
		CallToActionContactUs, CallToActionGetOffer, CallToActionMessage:
		return true
	}
	return false
}

// VideoStatus é o estado de processamento de um vídeo enviado (advideos)
type VideoStatus string

const (
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusError      VideoStatus = "error"
)

type StudyType string

const StudyTypeSplitTest StudyType = "SPLIT_TEST"

// CreativeVariant é o formato de um criativo gerado a partir de uma promoção
type CreativeVariant string

const (
	CreativeVariantSingleImage CreativeVariant = "SINGLE_IMAGE"
	CreativeVariantCarousel    CreativeVariant = "CAROUSEL"
	CreativeVariantSingleVideo CreativeVariant = "SINGLE_VIDEO"
	CreativeVariantSlideshow   CreativeVariant = "SLIDESHOW"
)
