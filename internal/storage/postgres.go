package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/mailmind/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresEventStore is the database-backed EventStore for deployments where
// a shared JSON file will not do.
type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(config DatabaseConfig) (*PostgresEventStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	store := &PostgresEventStore{db: db}

	if err := store.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return store, nil
}

func (s *PostgresEventStore) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresEventStore) Append(ctx context.Context, event *models.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events
			(id, title, start_at, end_at, description, location, label,
			 meeting_url, urgency_level, action_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.Title,
		event.Start,
		event.End,
		event.Description,
		event.Location,
		event.Label,
		event.MeetingURL,
		event.UrgencyLevel,
		event.ActionRequired,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("error inserting calendar event: %v", err)
	}

	return nil
}

func (s *PostgresEventStore) List(ctx context.Context) ([]*models.CalendarEvent, error) {
	query := `
		SELECT id, title, start_at, end_at, description, location, label,
		       meeting_url, urgency_level, action_required, created_at
		FROM calendar_events
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying calendar events: %v", err)
	}
	defer rows.Close()

	var events []*models.CalendarEvent
	for rows.Next() {
		event := &models.CalendarEvent{}
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Start,
			&event.End,
			&event.Description,
			&event.Location,
			&event.Label,
			&event.MeetingURL,
			&event.UrgencyLevel,
			&event.ActionRequired,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning calendar event: %v", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (s *PostgresEventStore) Close() error {
	return s.db.Close()
}
