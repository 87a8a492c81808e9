package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// SQLite-backed implementation of the ProfileStore port, mirroring the
// original "usuarios_rotaspeed" table.
type SqliteProfileStore struct{ DB *sql.DB }

func NewSqliteProfileStore(db *sql.DB) *SqliteProfileStore {
	return &SqliteProfileStore{DB: db}
}

func (s *SqliteProfileStore) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if s.DB == nil {
		return nil, errors.New("profile store: DB is nil")
	}

	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("get profile: user id must not be empty")
	}

	row := s.DB.QueryRowContext(ctx, `
	SELECT
		id,
		email,
		nome,
		plano_nome,
		entregas_dia_max,
		entregas_hoje,
		entregas_gratis_utilizadas,
		plano_ativo,
		saldo_creditos,
		driver_name,
		driver_phone,
		navigation_preference,
		notification_sender_preference,
		updated_at
	FROM usuarios_rotaspeed
	WHERE id = ?;
	`, userID)

	var (
		u          domain.User
		name       sql.NullString
		driverName sql.NullString
		driverTel  sql.NullString
		navPref    sql.NullString
		notifPref  sql.NullString
		active     int
		updatedAt  string
	)

	err := row.Scan(
		&u.ID, &u.Email, &name, &u.PlanName,
		&u.DailyQuota, &u.DeliveriesToday, &u.FreeDeliveriesUsed,
		&active, &u.VoiceCreditBalance,
		&driverName, &driverTel, &navPref, &notifPref, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: scan user id=%s: %w", userID, err)
	}

	u.Name = name.String
	u.PlanActive = active != 0
	u.DriverName = driverName.String
	u.DriverPhone = driverTel.String
	u.NavigationPreference = navPref.String
	u.NotificationPreference = notifPref.String
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		u.UpdatedAt = t
	}

	return &u, nil
}

func (s *SqliteProfileStore) UpsertProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	if s.DB == nil {
		return nil, errors.New("profile store: DB is nil")
	}

	if user == nil || strings.TrimSpace(user.ID) == "" {
		return nil, errors.New("upsert profile: user id must not be empty")
	}

	active := 0
	if user.PlanActive {
		active = 1
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO usuarios_rotaspeed (
		id, email, nome, plano_nome, entregas_dia_max, entregas_hoje,
		entregas_gratis_utilizadas, plano_ativo, saldo_creditos,
		driver_name, driver_phone, navigation_preference,
		notification_sender_preference, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		user.ID, user.Email, user.Name, user.PlanName,
		user.DailyQuota, user.DeliveriesToday, user.FreeDeliveriesUsed,
		active, user.VoiceCreditBalance,
		user.DriverName, user.DriverPhone, user.NavigationPreference,
		user.NotificationPreference, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: exec id=%s: %w", user.ID, err)
	}

	return s.GetProfile(ctx, user.ID)
}
