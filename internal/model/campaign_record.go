package model

import "time"

// CampaignRecord is the finalized result of one product phase. It is built
// once by the orchestrator, handed to the history store and never mutated
// afterwards. SuccessCount + FailureCount + SkippedCount == TotalRecords.
type CampaignRecord struct {
	ID             string    `db:"id" json:"id"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
	ProductName    string    `db:"product_name" json:"product_name"`
	TotalRecords   int       `db:"total_records" json:"total_records"`
	SuccessCount   int       `db:"success_count" json:"success_count"`
	FailureCount   int       `db:"failure_count" json:"failure_count"`
	SkippedCount   int       `db:"skipped_count" json:"skipped_count"`
	AdCopy         string    `db:"ad_copy" json:"ad_copy"`
	ImageURL       string    `db:"image_url" json:"image_url,omitempty"`
	Channel        Channel   `db:"channel" json:"channel"`
	FailureReasons []string  `db:"failure_reasons" json:"failure_reasons,omitempty"`
}
