package db

import "database/sql"

type (
	// Image represents a source image path
	Image struct {
		ID  int64
		URI string // Unique constraint
	}

	ImageSize struct {
		ID      int64
		ImageID int64
		Width   int
		Height  int
		// Unique constraint on (ImageID, Width, Height)
	}

	// Payload represents the hidden data
	Payload struct {
		ID      int64
		Payload []byte // Unique constraint
		Size    int    // Byte length
	}

	// CodecParam represents encoding parameters
	CodecParam struct {
		ID       int64
		BitDepth int
		Channels string // e.g. "RG"
		// Unique constraint on (BitDepth, Channels)
	}

	// Result represents one encode and evaluation
	Result struct {
		ID           int64
		ImageSizeID  int64
		PayloadID    int64
		CodecParamID int64

		// Paths
		OriginalImagePath string
		EncodedImagePath  string

		Capacity  int  // Bytes available for the payload
		Embedded  int  // Payload bytes actually written
		Recovered bool // Decode returned the embedded bytes

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

		// Unique constraint on (ImageSizeID, PayloadID, CodecParamID)
	}
)
