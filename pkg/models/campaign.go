package models

// CampaignStatus is the state of a promotion.
type CampaignStatus string

const (
	CampaignActive CampaignStatus = "ACTIVE"
	CampaignPaused CampaignStatus = "PAUSED"
	CampaignEnded  CampaignStatus = "ENDED"
)

// CampaignStats are the delivery counters for a campaign.
type CampaignStats struct {
	Impressions int `json:"impressions" yaml:"impressions" firestore:"impressions"`
	Clicks      int `json:"clicks" yaml:"clicks" firestore:"clicks"`
	Conversions int `json:"conversions" yaml:"conversions" firestore:"conversions"`
}

// Campaign is a paid placement bought by a vendor with credits.
type Campaign struct {
	ID       string         `json:"id" yaml:"id" firestore:"id"`
	Title    string         `json:"title" yaml:"title" firestore:"title"`
	VendorID string         `json:"vendorId" yaml:"vendorId" firestore:"vendorId"`
	TripID   string         `json:"tripId,omitempty" yaml:"tripId,omitempty" firestore:"tripId"`
	Type     string         `json:"type" yaml:"type" firestore:"type"`
	Budget   float64        `json:"budget" yaml:"budget" firestore:"budget"`
	Status   CampaignStatus `json:"status" yaml:"status" firestore:"status"`
	Stats    CampaignStats  `json:"stats" yaml:"stats" firestore:"stats"`
}
