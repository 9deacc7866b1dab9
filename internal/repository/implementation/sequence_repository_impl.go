package implementation

import (
	"context"
	"errors"

	"enterprise-assistant-be/internal/model"
	"enterprise-assistant-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRecordNotFound is returned by status updates that match no row.
var ErrRecordNotFound = errors.New("record not found")

type SequenceRepositoryImpl struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) contract.SequenceRepository {
	return &SequenceRepositoryImpl{db: db}
}

// Next seeds the counter if needed, increments it in place and reads it back.
// All three statements share one transaction: the UPDATE takes the row lock,
// so a concurrent caller blocks until commit and then sees the new value.
// When the repository is already bound to an open transaction, GORM nests a
// savepoint instead.
func (r *SequenceRepositoryImpl) Next(ctx context.Context, name string, start int64) (int64, error) {
	var value int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := model.RecordSequence{Name: name, Value: start - 1}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		res := tx.Model(&model.RecordSequence{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		var seq model.RecordSequence
		if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	if err != nil {
		return 0, err
	}

	return value, nil
}
