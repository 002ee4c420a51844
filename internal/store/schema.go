package store

const coreSchema = `
CREATE TABLE IF NOT EXISTS reports (
    id          VARCHAR PRIMARY KEY,
    analytics   JSON NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);

CREATE TABLE IF NOT EXISTS coupon_redemptions (
    code         VARCHAR PRIMARY KEY,
    redeemed_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
