package metadomain

// Params é o corpo de criação/atualização enviado para a Graph API
type Params map[string]any

// Clone copia o mapa raso, suficiente para alternar execution_options
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// ListResponse é o envelope paginado das listagens da Graph API
type ListResponse[T any] struct {
	Data   []T    `json:"data"`
	Paging Paging `json:"paging"`
}

// CreateResult é a resposta de uma criação (id) ou de uma validação (success)
type CreateResult struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success,omitempty"`
}

type AdLabel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Campaign struct {
	ID                  string    `json:"id"`
	AccountID           string    `json:"account_id,omitempty"`
	Name                string    `json:"name"`
	Objective           string    `json:"objective,omitempty"`
	Status              string    `json:"status"`
	EffectiveStatus     string    `json:"effective_status,omitempty"`
	ConfiguredStatus    string    `json:"configured_status,omitempty"`
	BuyingType          string    `json:"buying_type,omitempty"`
	DailyBudget         string    `json:"daily_budget,omitempty"`
	LifetimeBudget      string    `json:"lifetime_budget,omitempty"`
	SpecialAdCategories []string  `json:"special_ad_categories,omitempty"`
	StartTime           string    `json:"start_time,omitempty"`
	StopTime            string    `json:"stop_time,omitempty"`
	AdLabels            []AdLabel `json:"adlabels,omitempty"`
}

type AdSet struct {
	ID               string         `json:"id"`
	AccountID        string         `json:"account_id,omitempty"`
	CampaignID       string         `json:"campaign_id"`
	Name             string         `json:"name"`
	Status           string         `json:"status"`
	EffectiveStatus  string         `json:"effective_status,omitempty"`
	DailyBudget      string         `json:"daily_budget,omitempty"`
	LifetimeBudget   string         `json:"lifetime_budget,omitempty"`
	BidAmount        string         `json:"bid_amount,omitempty"`
	BidStrategy      string         `json:"bid_strategy,omitempty"`
	BillingEvent     string         `json:"billing_event,omitempty"`
	OptimizationGoal string         `json:"optimization_goal,omitempty"`
	StartTime        string         `json:"start_time,omitempty"`
	EndTime          string         `json:"end_time,omitempty"`
	Targeting        map[string]any `json:"targeting,omitempty"`
	AdLabels         []AdLabel      `json:"adlabels,omitempty"`
}

type AdCreativeRef struct {
	ID string `json:"id"`
}

type Ad struct {
	ID              string        `json:"id"`
	AccountID       string        `json:"account_id,omitempty"`
	CampaignID      string        `json:"campaign_id,omitempty"`
	AdSetID         string        `json:"adset_id"`
	Name            string        `json:"name"`
	Status          string        `json:"status"`
	EffectiveStatus string        `json:"effective_status,omitempty"`
	Creative        AdCreativeRef `json:"creative"`
	AdLabels        []AdLabel     `json:"adlabels,omitempty"`
}

type AdCreative struct {
	ID              string         `json:"id"`
	AccountID       string         `json:"account_id,omitempty"`
	Name            string         `json:"name"`
	Status          string         `json:"status,omitempty"`
	ObjectStorySpec map[string]any `json:"object_story_spec,omitempty"`
	ThumbnailURL    string         `json:"thumbnail_url,omitempty"`
	AdLabels        []AdLabel      `json:"adlabels,omitempty"`
}

type AdStudyCell struct {
	ID                  string   `json:"id,omitempty"`
	Name                string   `json:"name"`
	TreatmentPercentage int      `json:"treatment_percentage"`
	AdSets              []string `json:"adsets,omitempty"`
}

type AdStudy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

// AdVideo é o retorno do polling de processamento de um vídeo
type AdVideo struct {
	ID     string `json:"id"`
	Status struct {
		VideoStatus VideoStatus `json:"video_status"`
	} `json:"status"`
}
