package repository

import (
	"context"
	"errors"
	"fmt"

	"consentform/internal/domain/model"
	repo "consentform/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

var consentColumns = []string{"name", "phone", "zonecode", "address", "detail_address", "agreed"}

type consentGormRepository struct {
	db     *gorm.DB
	logger *log.Logger
}

// DI
func NewConsentGormRepository(db *gorm.DB, logger *log.Logger) repo.ConsentRepository {
	return &consentGormRepository{db: db, logger: logger}
}

// 同意を1件追加
func (r *consentGormRepository) Insert(ctx context.Context, consent model.Consent) error {
	//契約の6列だけを書く
	if err := r.db.WithContext(ctx).Select(consentColumns).Create(&consent).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			r.logger.Errorj(log.JSON{
				"msg":        "consent insert rejected",
				"sqlstate":   pgErr.Code,
				"constraint": pgErr.ConstraintName,
			})
		}
		return fmt.Errorf("%w: %w", repo.ErrInsertFailed, err)
	}
	return nil
}
