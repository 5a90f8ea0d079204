package repository

const (
	upsertPeaksQuery = `INSERT INTO waveform_peaks (video_id, quality, peaks, duration_seconds, sample_rate, channel_count, bit_depth, source, title, author)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
					ON CONFLICT (video_id, quality) DO UPDATE
					SET peaks = EXCLUDED.peaks,
					    duration_seconds = EXCLUDED.duration_seconds,
					    source = EXCLUDED.source,
					    title = COALESCE(NULLIF(EXCLUDED.title, ''), waveform_peaks.title),
					    author = COALESCE(NULLIF(EXCLUDED.author, ''), waveform_peaks.author),
					    updated_at = now()
					RETURNING *`
	getPeaksQuery = `SELECT video_id, quality, peaks, duration_seconds, sample_rate, channel_count, bit_depth, source, title, author, created_at, updated_at
					FROM waveform_peaks WHERE video_id = $1 AND quality = $2`
	getTotalPeaksCountQuery = `SELECT COUNT(*) FROM waveform_peaks`
	listPeaksQuery          = `SELECT video_id, quality, peaks, duration_seconds, sample_rate, channel_count, bit_depth, source, title, author, created_at, updated_at
					FROM waveform_peaks ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	deletePeaksQuery = `DELETE FROM waveform_peaks WHERE video_id = $1 AND quality = $2`
)
