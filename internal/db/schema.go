package db

const schema = `
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uri TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS image_sizes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    image_id INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
    UNIQUE(image_id, width, height)
);

-- Hidden payloads
CREATE TABLE IF NOT EXISTS payloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    payload BLOB NOT NULL UNIQUE,
    size INTEGER NOT NULL
);

-- Codec parameters
CREATE TABLE IF NOT EXISTS codec_params (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bit_depth INTEGER NOT NULL,
    channels TEXT NOT NULL,
    UNIQUE(bit_depth, channels)
);

CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    image_size_id INTEGER NOT NULL,
    payload_id INTEGER NOT NULL,
    codec_param_id INTEGER NOT NULL,

    original_image_path TEXT NOT NULL,
    encoded_image_path TEXT NOT NULL,

    capacity INTEGER NOT NULL,
    embedded INTEGER NOT NULL,
    recovered BOOLEAN NOT NULL,

    mse REAL NOT NULL,
    psnr REAL,           -- NULL when the images are identical
    ssim REAL NOT NULL,
    entropy_original REAL NOT NULL,
    entropy_encoded REAL NOT NULL,
    brisque_original REAL,
    brisque_encoded REAL,

    perceptible_bits INTEGER,  -- bit i set when metric i is perceptible
    verdict TEXT,              -- NULL when BRISQUE was not scored

    FOREIGN KEY (image_size_id) REFERENCES image_sizes(id) ON DELETE CASCADE,
    FOREIGN KEY (payload_id) REFERENCES payloads(id) ON DELETE CASCADE,
    FOREIGN KEY (codec_param_id) REFERENCES codec_params(id) ON DELETE CASCADE,
    UNIQUE(image_size_id, payload_id, codec_param_id)
);

CREATE INDEX IF NOT EXISTS idx_results_verdict ON results(verdict);
CREATE INDEX IF NOT EXISTS idx_results_mse ON results(mse);
CREATE INDEX IF NOT EXISTS idx_results_ssim ON results(ssim);
CREATE INDEX IF NOT EXISTS idx_image_sizes_image ON image_sizes(image_id);
CREATE INDEX IF NOT EXISTS idx_codec_params_depth ON codec_params(bit_depth);

CREATE VIEW IF NOT EXISTS results_detailed AS
SELECT
    r.id,

    i.uri as image_uri,
    isz.width,
    isz.height,

    cp.bit_depth,
    cp.channels,

    p.size as payload_size,
    r.capacity,
    r.embedded,
    r.recovered,

    r.mse,
    r.psnr,
    r.ssim,
    r.entropy_original,
    r.entropy_encoded,
    r.brisque_original,
    r.brisque_encoded,
    r.perceptible_bits,
    r.verdict,

    r.original_image_path,
    r.encoded_image_path
FROM results r
JOIN image_sizes isz ON r.image_size_id = isz.id
JOIN images i ON isz.image_id = i.id
JOIN payloads p ON r.payload_id = p.id
JOIN codec_params cp ON r.codec_param_id = cp.id;
`
