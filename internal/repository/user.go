package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safeguard/sos_alert_system/internal/models"
	"github.com/safeguard/sos_alert_system/internal/service"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{
		db: db,
	}
}

// GetByToken разрешает bearer-токен в пользователя. Неизвестный токен
// отображается в ErrUnauthorized.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, full_name, email, phone, active_sos, created_at, updated_at
		FROM users
		WHERE api_token = $1;
	`
	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.ActiveSOS,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return user, nil
}

// GetByID возвращает пользователя по его UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, full_name, email, phone, active_sos, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.ActiveSOS,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// ListGuardians возвращает опекунов пользователя, упорядоченных по приоритету
// и времени добавления (стабильный порядок для эскалации)
func (r *UserRepository) ListGuardians(ctx context.Context, userID uuid.UUID) ([]*models.Guardian, error) {
	query := `
		SELECT id, user_id, name, phone, relationship, priority, is_verified, can_view_live_location, created_at
		FROM guardians
		WHERE user_id = $1
		ORDER BY priority ASC, created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guardians: %w", err)
	}
	defer rows.Close()

	guardians := make([]*models.Guardian, 0)
	for rows.Next() {
		g := &models.Guardian{}
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Name,
			&g.Phone,
			&g.Relationship,
			&g.Priority,
			&g.IsVerified,
			&g.Permissions.CanViewLiveLocation,
			&g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guardian row: %w", err)
		}
		guardians = append(guardians, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error guardians iteration: %w", err)
	}
	return guardians, nil
}

// AddGuardian вставляет опекуна, атомарно проверяя емкость круга. Строка
// владельца блокируется FOR UPDATE, чтобы конкурентные вставки не превысили
// лимит.
func (r *UserRepository) AddGuardian(ctx context.Context, userID uuid.UUID, guardian *models.Guardian) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ownerID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE;`, userID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user with id %s not found", userID)
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM guardians WHERE user_id = $1;`, userID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count guardians: %w", err)
	}
	if count >= models.MaxGuardiansPerUser {
		return models.ErrCapacityExceeded
	}

	query := `
		INSERT INTO guardians (id, user_id, name, phone, relationship, priority, is_verified, can_view_live_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at;
	`
	err = tx.QueryRow(ctx, query,
		guardian.ID,
		userID,
		guardian.Name,
		guardian.Phone,
		guardian.Relationship,
		guardian.Priority,
		guardian.IsVerified,
		guardian.Permissions.CanViewLiveLocation,
	).Scan(&guardian.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert guardian: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit guardian insert: %w", err)
	}
	return nil
}

// RemoveGuardian удаляет опекуна. Идемпотентна: RowsAffected() == 0 не ошибка.
func (r *UserRepository) RemoveGuardian(ctx context.Context, userID, guardianID uuid.UUID) error {
	query := `DELETE FROM guardians WHERE id = $1 AND user_id = $2;`
	if _, err := r.db.Exec(ctx, query, guardianID, userID); err != nil {
		return fmt.Errorf("failed to remove guardian: %w", err)
	}
	return nil
}

// SetActiveSOS обновляет флаг тревоги и последнюю известную позицию.
// Нулевой location оставляет последнюю позицию без изменений.
func (r *UserRepository) SetActiveSOS(ctx context.Context, userID uuid.UUID, active bool, location *models.AlertPayload) error {
	query := `
		UPDATE users SET
			active_sos = $2,
			updated_at = NOW()
		WHERE id = $1;
	`
	args := []any{userID, active}
	if location != nil {
		query = `
			UPDATE users SET
				active_sos = $2,
				last_lat = $3,
				last_lng = $4,
				last_accuracy = $5,
				last_location_at = $6,
				updated_at = NOW()
			WHERE id = $1;
		`
		args = []any{userID, active, location.Lat, location.Lng, location.Accuracy, location.Timestamp}
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update alert state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user with id %s not found for alert update", userID)
	}
	return nil
}

// AppendAudit добавляет запись в append-only журнал аудита пользователя
func (r *UserRepository) AppendAudit(ctx context.Context, userID uuid.UUID, entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (user_id, action, ip)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query, userID, entry.Action, entry.IP).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	entry.UserID = userID
	return nil
}
