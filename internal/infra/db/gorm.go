package db

import (
	"fmt"
	"time"

	"consentform/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	//DSNの形式だけ先に確認（パスワード入りのDSNはエラーに出さない）
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return gormDB, nil
}

// consentsテーブルの定義（マイグレーション専用）。
// 挿入は model.Consent の6列だけで行う
type consentsTable struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Name          string    `gorm:"type:text;not null"`
	Phone         string    `gorm:"type:text;not null"`
	Zonecode      string    `gorm:"column:zonecode;type:text"`
	Address       string    `gorm:"type:text;not null"`
	DetailAddress string    `gorm:"column:detail_address;type:text"`
	Agreed        bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;default:now()"`
}

func (consentsTable) TableName() string {
	return model.Consent{}.TableName()
}

// Migrate は consents テーブルを作成する（ローカル開発用）。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(&consentsTable{})
}
