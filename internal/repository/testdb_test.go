package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	ctx := context.Background()

	if os.Getenv("DOCKER_HOST") == "" {
		colimaSocket := os.ExpandEnv("$HOME/.colima/default/docker.sock")
		if _, err := os.Stat(colimaSocket); err == nil {
			os.Setenv("DOCKER_HOST", "unix://"+colimaSocket)
			os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
			t.Logf("Using Colima Docker socket: %s (Ryuk disabled)", colimaSocket)
		}
	}

	pgContainer, err := postgres.Run(ctx,
		"timescale/timescaledb-ha:pg16",
		postgres.WithDatabase("test_helmet"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute)),
	)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := runTestMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runTestMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			blood_type VARCHAR(10),
			allergies TEXT,
			emergency_contact_name VARCHAR(255),
			emergency_contact_phone VARCHAR(50)
		);`,
		`CREATE TABLE devices (
			id UUID PRIMARY KEY,
			device_code VARCHAR(100) UNIQUE NOT NULL,
			owner_user UUID REFERENCES users(id),
			onboarded BOOLEAN NOT NULL DEFAULT FALSE,
			last_seen TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE baselines (
			id BIGSERIAL PRIMARY KEY,
			device_id UUID NOT NULL REFERENCES devices(id),
			mean_hr DOUBLE PRECISION NOT NULL,
			sdnn DOUBLE PRECISION NOT NULL,
			rmssd DOUBLE PRECISION NOT NULL,
			pnn50 DOUBLE PRECISION NOT NULL,
			lf_hf_ratio DOUBLE PRECISION NOT NULL,
			sd1_sd2_ratio DOUBLE PRECISION NOT NULL,
			accel_var DOUBLE PRECISION NOT NULL DEFAULT 0,
			hr_decay_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE rides (
			id UUID PRIMARY KEY,
			device_id UUID NOT NULL REFERENCES devices(id),
			user_id UUID REFERENCES users(id),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			duration_seconds BIGINT,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			avg_hr DOUBLE PRECISION,
			max_hr DOUBLE PRECISION,
			min_hr DOUBLE PRECISION,
			avg_rmssd DOUBLE PRECISION,
			min_rmssd DOUBLE PRECISION,
			baseline_rmssd DOUBLE PRECISION,
			baseline_deviation_pct DOUBLE PRECISION,
			recovery_status VARCHAR(20),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE ride_summaries (
			ride_id UUID PRIMARY KEY REFERENCES rides(id),
			fatigue_score INTEGER NOT NULL,
			total_events INTEGER NOT NULL,
			microsleep_events INTEGER NOT NULL,
			max_severity INTEGER NOT NULL,
			avg_severity DOUBLE PRECISION NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE telemetry_points (
			id BIGSERIAL PRIMARY KEY,
			device_id UUID NOT NULL REFERENCES devices(id),
			ride_id UUID REFERENCES rides(id),
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			hr DOUBLE PRECISION,
			ibi DOUBLE PRECISION,
			sdnn DOUBLE PRECISION,
			rmssd DOUBLE PRECISION,
			pnn50 DOUBLE PRECISION,
			lf_hf_ratio DOUBLE PRECISION,
			accel_x DOUBLE PRECISION,
			accel_y DOUBLE PRECISION,
			accel_z DOUBLE PRECISION,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION
		);`,
		`CREATE TABLE drowsiness_events (
			id UUID PRIMARY KEY,
			device_id UUID NOT NULL REFERENCES devices(id),
			ride_id UUID REFERENCES rides(id),
			detected_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			severity_score INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL,
			sdnn DOUBLE PRECISION,
			rmssd DOUBLE PRECISION,
			pnn50 DOUBLE PRECISION,
			lf_hf_ratio DOUBLE PRECISION,
			sd1_sd2_ratio DOUBLE PRECISION,
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION
		);`,
		`CREATE TABLE responders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			hospital_name VARCHAR(255) NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			on_duty BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE crash_alerts (
			id UUID PRIMARY KEY,
			device_id UUID NOT NULL REFERENCES devices(id),
			ride_id UUID REFERENCES rides(id),
			detected_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			lat DOUBLE PRECISION,
			lon DOUBLE PRECISION,
			severity VARCHAR(20) NOT NULL,
			accel_x DOUBLE PRECISION NOT NULL,
			accel_y DOUBLE PRECISION NOT NULL,
			accel_z DOUBLE PRECISION NOT NULL,
			responder_id UUID REFERENCES responders(id)
		);`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}
