package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amankumarsingh77/waveform-service/internal/models"
	"github.com/amankumarsingh77/waveform-service/internal/waveform"
	"github.com/amankumarsingh77/waveform-service/pkg/utils"
	"github.com/jmoiron/sqlx"
)

type peaksRepo struct {
	db *sqlx.DB
}

func NewPeaksRepo(db *sqlx.DB) waveform.Repository {
	return &peaksRepo{
		db: db,
	}
}

// peaksRow mirrors the waveform_peaks table; the peak sequence lives in
// a jsonb column.
type peaksRow struct {
	VideoID         string             `db:"video_id"`
	Quality         models.Quality     `db:"quality"`
	Peaks           []byte             `db:"peaks"`
	DurationSeconds float64            `db:"duration_seconds"`
	SampleRate      int                `db:"sample_rate"`
	ChannelCount    int                `db:"channel_count"`
	BitDepth        int                `db:"bit_depth"`
	Source          models.PeaksSource `db:"source"`
	Title           string             `db:"title"`
	Author          string             `db:"author"`
	CreatedAt       time.Time          `db:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at"`
}

func (r *peaksRow) toModel() (*models.PeaksResult, error) {
	var peaks []float64
	if err := json.Unmarshal(r.Peaks, &peaks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal peaks column: %w", err)
	}
	return &models.PeaksResult{
		VideoID:         r.VideoID,
		Quality:         r.Quality,
		Peaks:           peaks,
		DurationSeconds: r.DurationSeconds,
		SampleRate:      r.SampleRate,
		ChannelCount:    r.ChannelCount,
		BitDepth:        r.BitDepth,
		Source:          r.Source,
		Title:           r.Title,
		Author:          r.Author,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func (p *peaksRepo) UpsertPeaks(ctx context.Context, result *models.PeaksResult) (*models.PeaksResult, error) {
	peaksJSON, err := json.Marshal(result.Peaks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal peaks: %w", err)
	}
	row := &peaksRow{}
	if err := p.db.QueryRowxContext(
		ctx,
		upsertPeaksQuery,
		result.VideoID,
		result.Quality,
		peaksJSON,
		result.DurationSeconds,
		result.SampleRate,
		result.ChannelCount,
		result.BitDepth,
		result.Source,
		result.Title,
		result.Author,
	).StructScan(row); err != nil {
		return nil, fmt.Errorf("failed to upsert peaks: %w", err)
	}
	return row.toModel()
}

func (p *peaksRepo) GetPeaks(ctx context.Context, videoID string, quality models.Quality) (*models.PeaksResult, error) {
	row := &peaksRow{}
	if err := p.db.QueryRowxContext(
		ctx,
		getPeaksQuery,
		videoID,
		quality,
	).StructScan(row); err != nil {
		return nil, fmt.Errorf("failed to get peaks: %w", err)
	}
	return row.toModel()
}

func (p *peaksRepo) ListPeaks(ctx context.Context, pagination *utils.Pagination) (*models.PeaksList, error) {
	var totalCount int
	if err := p.db.GetContext(
		ctx,
		&totalCount,
		getTotalPeaksCountQuery,
	); err != nil {
		return nil, fmt.Errorf("failed to get total peaks count: %w", err)
	}
	if totalCount == 0 {
		return &models.PeaksList{
			Results:    make([]*models.PeaksResult, 0),
			TotalCount: 0,
			Page:       pagination.GetPage(),
			PageSize:   pagination.GetSize(),
			HasMore:    false,
		}, nil
	}
	rows, err := p.db.QueryxContext(
		ctx,
		listPeaksQuery,
		pagination.GetOffset(),
		pagination.GetLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list peaks: %w", err)
	}
	defer rows.Close()
	results := make([]*models.PeaksResult, 0, pagination.GetSize())
	for rows.Next() {
		var row peaksRow
		if err = rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan peaks row: %w", err)
		}
		result, err := row.toModel()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan peaks rows: %w", err)
	}
	return &models.PeaksList{
		Results:    results,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}

func (p *peaksRepo) DeletePeaks(ctx context.Context, videoID string, quality models.Quality) error {
	res, err := p.db.ExecContext(
		ctx,
		deletePeaksQuery,
		videoID,
		quality,
	)
	if err != nil {
		return fmt.Errorf("failed to delete peaks: %w", err)
	}
	count, _ := res.RowsAffected()
	if count == 0 {
		return fmt.Errorf("no peaks found to delete")
	}
	return nil
}
