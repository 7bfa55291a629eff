package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Danibruno18/credix/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Методы для работы с пользователями

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return d.conn(ctx).Create(user).Error
}

// FindUserByID ищет пользователя по ID независимо от статуса
func (d *Database) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// LockUser блокирует строку пользователя до конца транзакции (SELECT ... FOR UPDATE).
// Изменения баланса из других транзакций ждут ее завершения. SQLite блокировку строк не поддерживает
// и сериализует запись единственным соединением.
func (d *Database) LockUser(ctx context.Context, id string) error {
	var user models.User
	err := d.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&user).Error
	return notFound(err)
}

// FindActiveUser ищет активного пользователя по ID
func (d *Database) FindActiveUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).Where("id = ? AND is_active = ?", id, true).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByEmail ищет пользователя по email (игнорируя регистр и пробелы)
func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).Where("LOWER(TRIM(email)) = LOWER(TRIM(?))", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// TouchLastLogin обновляет время последнего входа
func (d *Database) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return d.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// SetUserActive включает или отключает учетную запись
func (d *Database) SetUserActive(ctx context.Context, id string, active bool) error {
	res := d.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUserBalance атомарно прибавляет delta к total_balance.
// Выполняется одним UPDATE ... SET total_balance = total_balance + ?, без чтения баланса.
func (d *Database) IncrementUserBalance(ctx context.Context, userID string, delta float64) error {
	res := d.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_balance", gorm.Expr("total_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("increment balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveUserIDs возвращает идентификаторы всех активных пользователей
func (d *Database) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.conn(ctx).Model(&models.User{}).
		Where("is_active = ?", true).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}
