package domain

import "time"

type ObjectKind string

const (
	KindCampaign ObjectKind = "campaign"
	KindAdSet    ObjectKind = "adset"
	KindAd       ObjectKind = "ad"
	KindCreative ObjectKind = "creative"
	KindAdLabel  ObjectKind = "adlabel"
	KindAdStudy  ObjectKind = "adstudy"
)

type ObjectStatus string

const (
	ObjectStatusActive   ObjectStatus = "ACTIVE"
	ObjectStatusPaused   ObjectStatus = "PAUSED"
	ObjectStatusDeleted  ObjectStatus = "DELETED"
	ObjectStatusArchived ObjectStatus = "ARCHIVED"
)

// IsRemoved indica os status terminais da exclusão lógica
func (s ObjectStatus) IsRemoved() bool {
	return s == ObjectStatusDeleted || s == ObjectStatusArchived
}

// AdObject é o espelho local de um objeto de anúncio remoto. A exclusão é
// sempre lógica: o registro permanece com status DELETED ou ARCHIVED.
type AdObject struct {
	ID               string         `json:"id"`
	Kind             ObjectKind     `json:"kind"`
	RemoteID         string         `json:"remote_id"`
	AccountID        string         `json:"account_id"`
	BusinessID       string         `json:"business_id"`
	LocationID       string         `json:"location_id,omitempty"`
	PromotionID      string         `json:"promotion_id,omitempty"`
	CampaignRemoteID string         `json:"campaign_remote_id,omitempty"`
	AdSetRemoteID    string         `json:"adset_remote_id,omitempty"`
	LabelID          string         `json:"label_id,omitempty"`
	Name             string         `json:"name"`
	Status           ObjectStatus   `json:"status"`
	EffectiveStatus  string         `json:"effective_status,omitempty"`
	Fields           map[string]any `json:"fields,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ObjectScope identifica o escopo business → location → promotion
type ObjectScope struct {
	BusinessID  string `json:"business_id"`
	LocationID  string `json:"location_id,omitempty"`
	PromotionID string `json:"promotion_id,omitempty"`
}

// SetBusinessID fixa o business do escopo a partir da rota
func (s *ObjectScope) SetBusinessID(id string) {
	s.BusinessID = id
}

type ObjectFilter struct {
	Kind              ObjectKind
	BusinessID        string
	LocationID        string
	PromotionID       string
	RemoteIDs         []string
	CampaignRemoteIDs []string
	AdSetRemoteIDs    []string
	ExcludeRemoved    bool
}
