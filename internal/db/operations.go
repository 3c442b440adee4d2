package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// InsertImage inserts or gets an existing image by URI
func (d *DB) InsertImage(uri string) (int64, error) {
	var id int64
	err := d.db.QueryRow("SELECT id FROM images WHERE uri = ?", uri).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query image: %w", err)
	}

	result, err := d.db.Exec("INSERT INTO images (uri) VALUES (?)", uri)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	return result.LastInsertId()
}

// InsertImageSize inserts or gets an existing image size
func (d *DB) InsertImageSize(imageID int64, width, height int) (int64, error) {
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM image_sizes WHERE image_id = ? AND width = ? AND height = ?",
		imageID, width, height,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query image size: %w", err)
	}

	result, err := d.db.Exec(
		"INSERT INTO image_sizes (image_id, width, height) VALUES (?, ?, ?)",
		imageID, width, height,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image size: %w", err)
	}
	return result.LastInsertId()
}

// InsertPayload inserts or gets an existing payload
func (d *DB) InsertPayload(payload []byte) (int64, error) {
	var id int64
	err := d.db.QueryRow("SELECT id FROM payloads WHERE payload = ?", payload).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query payload: %w", err)
	}

	result, err := d.db.Exec(
		"INSERT INTO payloads (payload, size) VALUES (?, ?)",
		payload, len(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payload: %w", err)
	}
	return result.LastInsertId()
}

// InsertCodecParam inserts or gets existing codec parameters
func (d *DB) InsertCodecParam(bitDepth int, channels string) (int64, error) {
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM codec_params WHERE bit_depth = ? AND channels = ?",
		bitDepth, channels,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query codec param: %w", err)
	}

	result, err := d.db.Exec(
		"INSERT INTO codec_params (bit_depth, channels) VALUES (?, ?)",
		bitDepth, channels,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert codec param: %w", err)
	}
	return result.LastInsertId()
}

// InsertResult inserts a result (or updates if already exists)
func (d *DB) InsertResult(result *Result) (int64, error) {
	var existingID int64
	err := d.db.QueryRow(
		"SELECT id FROM results WHERE image_size_id = ? AND payload_id = ? AND codec_param_id = ?",
		result.ImageSizeID, result.PayloadID, result.CodecParamID,
	).Scan(&existingID)

	if err == nil {
		_, err = d.db.Exec(`
			UPDATE results SET
				original_image_path = ?,
				encoded_image_path = ?,
				capacity = ?,
				embedded = ?,
				recovered = ?,
				mse = ?,
				psnr = ?,
				ssim = ?,
				entropy_original = ?,
				entropy_encoded = ?,
				brisque_original = ?,
				brisque_encoded = ?,
				perceptible_bits = ?,
				verdict = ?
			WHERE id = ?`,
			result.OriginalImagePath,
			result.EncodedImagePath,
			result.Capacity,
			result.Embedded,
			result.Recovered,
			result.MSE,
			result.PSNR,
			result.SSIM,
			result.EntropyOriginal,
			result.EntropyEncoded,
			result.BRISQUEOriginal,
			result.BRISQUEEncoded,
			result.PerceptibleBits,
			result.Verdict,
			existingID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update result: %w", err)
		}
		return existingID, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query existing result: %w", err)
	}

	res, err := d.db.Exec(`
		INSERT INTO results (
			image_size_id, payload_id, codec_param_id,
			original_image_path, encoded_image_path,
			capacity, embedded, recovered,
			mse, psnr, ssim,
			entropy_original, entropy_encoded,
			brisque_original, brisque_encoded,
			perceptible_bits, verdict
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ImageSizeID,
		result.PayloadID,
		result.CodecParamID,
		result.OriginalImagePath,
		result.EncodedImagePath,
		result.Capacity,
		result.Embedded,
		result.Recovered,
		result.MSE,
		result.PSNR,
		result.SSIM,
		result.EntropyOriginal,
		result.EntropyEncoded,
		result.BRISQUEOriginal,
		result.BRISQUEEncoded,
		result.PerceptibleBits,
		result.Verdict,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	return res.LastInsertId()
}

// GetCodecParam retrieves codec parameters by ID
func (d *DB) GetCodecParam(id int64) (*CodecParam, error) {
	var param CodecParam
	err := d.db.QueryRow(
		"SELECT id, bit_depth, channels FROM codec_params WHERE id = ?", id,
	).Scan(&param.ID, &param.BitDepth, &param.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to get codec param: %w", err)
	}
	return &param, nil
}

// ListResults retrieves all results
func (d *DB) ListResults() ([]*Result, error) {
	rows, err := d.db.Query(`
		SELECT id, image_size_id, payload_id, codec_param_id,
		       original_image_path, encoded_image_path,
		       capacity, embedded, recovered,
		       mse, psnr, ssim,
		       entropy_original, entropy_encoded,
		       brisque_original, brisque_encoded,
		       perceptible_bits, verdict
		FROM results
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		err := rows.Scan(
			&r.ID, &r.ImageSizeID, &r.PayloadID, &r.CodecParamID,
			&r.OriginalImagePath, &r.EncodedImagePath,
			&r.Capacity, &r.Embedded, &r.Recovered,
			&r.MSE, &r.PSNR, &r.SSIM,
			&r.EntropyOriginal, &r.EntropyEncoded,
			&r.BRISQUEOriginal, &r.BRISQUEEncoded,
			&r.PerceptibleBits, &r.Verdict,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

// CountResults counts total results
func (d *DB) CountResults() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
