package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS apartments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		apartment_number VARCHAR(32) NOT NULL,
		block VARCHAR(32) NOT NULL,
		entrance INT NOT NULL,
		floor INT NOT NULL,
		room_count INT NOT NULL,
		area NUMERIC(12,2) NOT NULL,
		price_per_square_meter NUMERIC(18,2) NOT NULL,
		total_price NUMERIC(18,2) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_apartment_number ON apartments (company_id, apartment_number);`,
	`CREATE INDEX IF NOT EXISTS idx_apartments_status ON apartments (company_id, status);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		passport_series VARCHAR(16) NOT NULL,
		passport_number VARCHAR(32) NOT NULL,
		passport_issue_date VARCHAR(32),
		passport_issued_by VARCHAR(255),
		registration_address VARCHAR(512),
		phone_number VARCHAR(32),
		email VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_customer_passport ON customers (company_id, passport_series, passport_number);`,
	`CREATE TABLE IF NOT EXISTS agents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		phone_number VARCHAR(32),
		email VARCHAR(255),
		commission_percentage NUMERIC(5,2) NOT NULL,
		total_commission_earned NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_sales INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		contract_number VARCHAR(64) NOT NULL,
		contract_date TIMESTAMPTZ NOT NULL,
		duration_months INT NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL,
		down_payment NUMERIC(18,2) NOT NULL,
		monthly_payment NUMERIC(18,2) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
		customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE RESTRICT,
		apartment_id UUID NOT NULL REFERENCES apartments(id) ON DELETE RESTRICT,
		agent_id UUID NOT NULL REFERENCES agents(id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contract_number ON contracts (company_id, contract_number);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (company_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_customer_id ON contracts (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_agent_id ON contracts (agent_id);`,
	`CREATE TABLE IF NOT EXISTS installment_plans (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		month_number INT NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		scheduled_amount NUMERIC(18,2) NOT NULL,
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_date TIMESTAMPTZ,
		payment_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_plan_contract_month ON installment_plans (contract_id, month_number);`,
	`CREATE INDEX IF NOT EXISTS idx_plans_due_date ON installment_plans (due_date) WHERE NOT is_paid;`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id UUID NOT NULL,
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		installment_plan_id UUID REFERENCES installment_plans(id),
		amount NUMERIC(18,2) NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL,
		payment_type VARCHAR(16) NOT NULL,
		receipt_number VARCHAR(64),
		notes TEXT,
		recorded_by_user_id UUID NOT NULL,
		recorded_by_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_contract_id ON payments (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_payment_date ON payments (company_id, payment_date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
