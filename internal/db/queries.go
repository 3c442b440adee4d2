package db

import (
	"database/sql"
	"fmt"
)

// DetailedResult contains all joined information for a result
type DetailedResult struct {
	ID int64

	// Image info
	ImageURI string
	Width    int
	Height   int

	// Parameters
	BitDepth int
	Channels string

	// Payload info
	PayloadSize int
	Capacity    int
	Embedded    int
	Recovered   bool

	// Metrics
	MSE             float64
	PSNR            sql.NullFloat64
	SSIM            float64
	EntropyOriginal float64
	EntropyEncoded  float64
	BRISQUEOriginal sql.NullFloat64
	BRISQUEEncoded  sql.NullFloat64
	PerceptibleBits sql.NullInt64
	Verdict         sql.NullString

	// Paths
	OriginalImagePath string
	EncodedImagePath  string
}

// QueryDetailed executes a query on the results_detailed view
func (d *DB) QueryDetailed(query string, args ...any) ([]*DetailedResult, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var results []*DetailedResult
	for rows.Next() {
		var r DetailedResult
		err := rows.Scan(
			&r.ID,
			&r.ImageURI,
			&r.Width,
			&r.Height,
			&r.BitDepth,
			&r.Channels,
			&r.PayloadSize,
			&r.Capacity,
			&r.Embedded,
			&r.Recovered,
			&r.MSE,
			&r.PSNR,
			&r.SSIM,
			&r.EntropyOriginal,
			&r.EntropyEncoded,
			&r.BRISQUEOriginal,
			&r.BRISQUEEncoded,
			&r.PerceptibleBits,
			&r.Verdict,
			&r.OriginalImagePath,
			&r.EncodedImagePath,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// GetDetailedResults returns every result ordered by image and parameters
func (d *DB) GetDetailedResults() ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		ORDER BY image_uri, bit_depth, channels
	`)
}

// GetResultsByVerdict returns results with the given verdict
func (d *DB) GetResultsByVerdict(verdict string) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE verdict = ?
		ORDER BY image_uri, bit_depth, channels
	`, verdict)
}

// GetResultsByCodecParam returns results for specific codec parameters
func (d *DB) GetResultsByCodecParam(bitDepth int, channels string) ([]*DetailedResult, error) {
	return d.QueryDetailed(`
		SELECT * FROM results_detailed
		WHERE bit_depth = ? AND channels = ?
		ORDER BY mse
	`, bitDepth, channels)
}

// ParameterStats holds statistics for a parameter combination
type ParameterStats struct {
	BitDepth        int
	Channels        string
	TotalTests      int
	Recovered       int
	AvgMSE          float64
	AvgPSNR         sql.NullFloat64 // over non-identical pairs only, NULL when every pair was identical
	Identical       int             // pairs with infinite PSNR, left out of AvgPSNR
	AvgSSIM         float64
	AvgEntropyDelta float64
	Good            int
	Uncertain       int
	Bad             int
}

// GetParameterStats returns statistics grouped by codec parameters
func (d *DB) GetParameterStats() ([]*ParameterStats, error) {
	rows, err := d.db.Query(`
		SELECT
			bit_depth, channels,
			COUNT(*) as total_tests,
			SUM(CASE WHEN recovered THEN 1 ELSE 0 END) as recovered,
			AVG(mse) as avg_mse,
			AVG(psnr) as avg_psnr,
			SUM(CASE WHEN psnr IS NULL THEN 1 ELSE 0 END) as identical,
			AVG(ssim) as avg_ssim,
			AVG(ABS(entropy_original - entropy_encoded)) as avg_entropy_delta,
			SUM(CASE WHEN verdict = 'Good' THEN 1 ELSE 0 END) as good,
			SUM(CASE WHEN verdict = 'Uncertain' THEN 1 ELSE 0 END) as uncertain,
			SUM(CASE WHEN verdict = 'Bad' THEN 1 ELSE 0 END) as bad
		FROM results_detailed
		GROUP BY bit_depth, channels
		ORDER BY bit_depth, channels
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameter stats: %w", err)
	}
	defer rows.Close()

	var stats []*ParameterStats
	for rows.Next() {
		var s ParameterStats
		err := rows.Scan(
			&s.BitDepth, &s.Channels,
			&s.TotalTests, &s.Recovered,
			&s.AvgMSE, &s.AvgPSNR, &s.Identical, &s.AvgSSIM, &s.AvgEntropyDelta,
			&s.Good, &s.Uncertain, &s.Bad,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}
