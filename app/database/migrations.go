package database

import (
	"database/sql"

	"github.com/sirupsen/logrus"
)

// RunMigrations bootstraps the schema. Statements are idempotent so the
// server can run them at every start.
func RunMigrations(db *sql.DB) error {
	logrus.Info("running database migrations")

	tables := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(100) UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (tenant_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(50) UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			student_code VARCHAR(50) NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			gender VARCHAR(10),
			class_name VARCHAR(100),
			guardian_name VARCHAR(200),
			guardian_phone VARCHAR(50),
			monthly_tuition_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (tenant_id, student_code)
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			student_id UUID NOT NULL REFERENCES students(id),
			type VARCHAR(20) NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			remaining_amount NUMERIC(12,2) NOT NULL CHECK (remaining_amount >= 0),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			due_date DATE NOT NULL,
			payment_month SMALLINT NOT NULL,
			payment_year SMALLINT NOT NULL,
			paid_date TIMESTAMPTZ,
			payment_method VARCHAR(50),
			received_by UUID REFERENCES users(id),
			notes TEXT NOT NULL DEFAULT '',
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS payment_ledger (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			payment_id UUID NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
			amount NUMERIC(12,2) NOT NULL,
			method VARCHAR(50),
			note TEXT,
			recorded_by UUID REFERENCES users(id),
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			student_id UUID NOT NULL REFERENCES students(id),
			date DATE NOT NULL,
			status VARCHAR(10) NOT NULL,
			marked_by UUID REFERENCES users(id),
			remark TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (tenant_id, student_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS exams (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			title VARCHAR(255) NOT NULL,
			class_name VARCHAR(100) NOT NULL,
			subject VARCHAR(100) NOT NULL,
			max_score DOUBLE PRECISION NOT NULL,
			exam_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS exam_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			exam_id UUID NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
			student_id UUID NOT NULL REFERENCES students(id),
			score DOUBLE PRECISION NOT NULL,
			grade VARCHAR(5) NOT NULL,
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (exam_id, student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS dorm_rooms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			name VARCHAR(100) NOT NULL,
			building VARCHAR(100),
			capacity INT NOT NULL CHECK (capacity > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (tenant_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS dorm_assignments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			room_id UUID NOT NULL REFERENCES dorm_rooms(id),
			student_id UUID NOT NULL REFERENCES students(id),
			assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			released_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			category VARCHAR(100) NOT NULL,
			title VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			date DATE NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			sender_id UUID NOT NULL REFERENCES users(id),
			recipient_id UUID NOT NULL REFERENCES users(id),
			subject VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, q := range tables {
		if _, err := db.Exec(q); err != nil {
			logrus.WithError(err).Error("migration statement failed")
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_payments_tenant_student ON payments(tenant_id, student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_month ON payments(tenant_id, student_id, payment_year, payment_month) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(tenant_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_payment ON payment_ledger(payment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(tenant_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(tenant_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_dorm_assignments_active ON dorm_assignments(room_id) WHERE released_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(tenant_id, recipient_id)`,
	}
	for _, q := range indexes {
		if _, err := db.Exec(q); err != nil {
			logrus.WithError(err).Error("index migration failed")
			return err
		}
	}

	seeds := []string{
		`INSERT INTO roles (name) VALUES ('admin') ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO roles (name) VALUES ('teacher') ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO roles (name) VALUES ('staff') ON CONFLICT (name) DO NOTHING`,
		`INSERT INTO roles (name) VALUES ('parent') ON CONFLICT (name) DO NOTHING`,
	}
	for _, q := range seeds {
		if _, err := db.Exec(q); err != nil {
			logrus.WithError(err).Error("role seed failed")
			return err
		}
	}

	logrus.Info("database migrations completed")
	return nil
}
