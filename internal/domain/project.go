package domain

import "time"

type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LocationID  string `json:"location_id,omitempty"`
	PromotionID string `json:"promotion_id,omitempty"`
}

// Project é o business com os ids remotos da conta e os rótulos de escopo
type Project struct {
	ID               string    `json:"id"`
	BusinessID       string    `json:"business_id"`
	Name             string    `json:"name"`
	RemoteBusinessID string    `json:"remote_business_id"`
	AdAccountID      string    `json:"ad_account_id"`
	PageID           string    `json:"page_id"`
	InstagramActorID string    `json:"instagram_actor_id,omitempty"`
	PixelID          string    `json:"pixel_id,omitempty"`
	BusinessLabel    *Label    `json:"business_label,omitempty"`
	LocationLabels   []Label   `json:"location_labels"`
	PromotionLabels  []Label   `json:"promotion_labels"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Project) LocationLabel(locationID string) *Label {
	for i := range p.LocationLabels {
		if p.LocationLabels[i].LocationID == locationID {
			return &p.LocationLabels[i]
		}
	}
	return nil
}

func (p *Project) PromotionLabel(promotionID string) *Label {
	for i := range p.PromotionLabels {
		if p.PromotionLabels[i].PromotionID == promotionID {
			return &p.PromotionLabels[i]
		}
	}
	return nil
}

// ScopeLabelIDs retorna o rótulo mais específico do escopo usado para
// filtrar leituras: promoção, depois location, depois business. Um escopo
// cujo rótulo ainda não existe não possui objetos remotos.
func (p *Project) ScopeLabelIDs(scope ObjectScope) []string {
	switch {
	case scope.PromotionID != "":
		if label := p.PromotionLabel(scope.PromotionID); label != nil {
			return []string{label.ID}
		}
		return nil
	case scope.LocationID != "":
		if label := p.LocationLabel(scope.LocationID); label != nil {
			return []string{label.ID}
		}
		return nil
	}

	if p.BusinessLabel != nil {
		return []string{p.BusinessLabel.ID}
	}
	return nil
}

// ScopeFromLabels deduz location e promoção a partir dos rótulos de um
// objeto remoto
func (p *Project) ScopeFromLabels(labelIDs []string) ObjectScope {
	scope := ObjectScope{BusinessID: p.BusinessID}
	for _, id := range labelIDs {
		for _, label := range p.LocationLabels {
			if label.ID == id {
				scope.LocationID = label.LocationID
			}
		}
		for _, label := range p.PromotionLabels {
			if label.ID == id {
				scope.PromotionID = label.PromotionID
				if scope.LocationID == "" {
					scope.LocationID = label.LocationID
				}
			}
		}
	}
	return scope
}

func BusinessLabelName(businessID string) string {
	return "business:" + businessID
}

func LocationLabelName(locationID string) string {
	return "location:" + locationID
}

func PromotionLabelName(promotionID string) string {
	return "promotion:" + promotionID
}
