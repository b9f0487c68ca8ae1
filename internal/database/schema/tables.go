package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		platform_domain VARCHAR(255) NOT NULL,
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		recovery_settings JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS abandoned_checkouts (
		id UUID PRIMARY KEY,
		store_id VARCHAR(32) NOT NULL,
		platform_checkout_id VARCHAR(64) NOT NULL,
		platform_token VARCHAR(128),
		email VARCHAR(255),
		customer_name VARCHAR(255),
		total_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		currency VARCHAR(3),
		line_items JSONB NOT NULL DEFAULT '[]'::jsonb,
		checkout_url TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		abandonment_detected_at TIMESTAMP,
		recovered_at TIMESTAMP,
		completed_order_id VARCHAR(64),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (store_id, platform_checkout_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checkouts_detection
		ON abandoned_checkouts (store_id, status, updated_at)`,
	`CREATE TABLE IF NOT EXISTS recovery_sequences (
		id UUID PRIMARY KEY,
		store_id VARCHAR(32) NOT NULL,
		checkout_id UUID NOT NULL,
		email VARCHAR(255) NOT NULL,
		sequence_type VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		current_step_index INTEGER NOT NULL DEFAULT 0,
		steps_completed JSONB NOT NULL DEFAULT '[]'::jsonb,
		next_step_at TIMESTAMP,
		stopped_reason VARCHAR(50),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	// One active campaign per checkout, enforced by the database rather
	// than the check-then-insert pattern.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sequences_one_active_per_checkout
		ON recovery_sequences (store_id, checkout_id)
		WHERE status = 'active'`,
	`CREATE INDEX IF NOT EXISTS idx_sequences_email
		ON recovery_sequences (store_id, email, status)`,
	`CREATE TABLE IF NOT EXISTS recovery_events (
		id UUID PRIMARY KEY,
		store_id VARCHAR(32) NOT NULL,
		sequence_id UUID NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		step_index INTEGER,
		channel VARCHAR(20) NOT NULL DEFAULT 'email',
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recovery_events_window
		ON recovery_events (store_id, event_type, created_at)`,
	`CREATE TABLE IF NOT EXISTS email_unsubscribes (
		store_id VARCHAR(32) NOT NULL,
		email VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (store_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		store_id VARCHAR(32) NOT NULL,
		kind VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}'::jsonb,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		next_run_after TIMESTAMP,
		max_retries INTEGER NOT NULL DEFAULT 2,
		retry_count INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_claim
		ON tasks (status, next_run_after)`,
}
