package transfer

type CampaignCreation struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}
