package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

type HistoryRepositoryInterface interface {
	Append(rec *model.CampaignRecord) error
	GetByID(id string) (*model.CampaignRecord, error)
	List(offset, limit int, channel string) ([]model.CampaignRecord, int, error)
}

// HistoryRepository stores finalized campaign records. The table is
// append-only: records are never updated after emission.
type HistoryRepository struct {
	DB *sql.DB
}

func (r *HistoryRepository) Append(rec *model.CampaignRecord) error {
	query := `
        INSERT INTO campaign_records
        (id, timestamp, product_name, total_records, success_count, failure_count, skipped_count, ad_copy, image_url, channel, failure_reasons)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.DB.Exec(query, rec.ID, rec.Timestamp, rec.ProductName,
		rec.TotalRecords, rec.SuccessCount, rec.FailureCount, rec.SkippedCount,
		rec.AdCopy, rec.ImageURL, string(rec.Channel), pq.Array(rec.FailureReasons))
	return err
}

func (r *HistoryRepository) GetByID(id string) (*model.CampaignRecord, error) {
	query := `
        SELECT id, timestamp, product_name, total_records, success_count, failure_count, skipped_count, ad_copy, image_url, channel, failure_reasons
        FROM campaign_records WHERE id = $1
    `
	var rec model.CampaignRecord
	var channel string
	err := r.DB.QueryRow(query, id).Scan(&rec.ID, &rec.Timestamp, &rec.ProductName,
		&rec.TotalRecords, &rec.SuccessCount, &rec.FailureCount, &rec.SkippedCount,
		&rec.AdCopy, &rec.ImageURL, &channel, pq.Array(&rec.FailureReasons))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.Channel = model.Channel(channel)
	return &rec, nil
}

// List returns records newest-first with a total count for pagination.
func (r *HistoryRepository) List(offset, limit int, channel string) ([]model.CampaignRecord, int, error) {
	query := `
        SELECT id, timestamp, product_name, total_records, success_count, failure_count, skipped_count, ad_copy, image_url, channel, failure_reasons
        FROM campaign_records
    `
	args := []interface{}{}
	if channel != "" {
		query += ` WHERE channel = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`
		args = append(args, channel, limit, offset)
	} else {
		query += ` ORDER BY timestamp DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.CampaignRecord{}
	for rows.Next() {
		var rec model.CampaignRecord
		var ch string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.ProductName,
			&rec.TotalRecords, &rec.SuccessCount, &rec.FailureCount, &rec.SkippedCount,
			&rec.AdCopy, &rec.ImageURL, &ch, pq.Array(&rec.FailureReasons)); err != nil {
			return nil, 0, err
		}
		rec.Channel = model.Channel(ch)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaign_records`
	countArgs := []interface{}{}
	if channel != "" {
		countQuery += ` WHERE channel = $1`
		countArgs = append(countArgs, channel)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

var _ HistoryRepositoryInterface = (*HistoryRepository)(nil)
