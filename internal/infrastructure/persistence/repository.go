package persistence

import (
	"errors"

	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

type aggregateRow interface {
	Aggregate() *models.AggregateModel
}

// saveAggregate inserts a never-stored aggregate or updates it guarded by the
// version it was loaded with. On success the aggregate is marked stored.
func saveAggregate(tx *gorm.DB, row aggregateRow, root *shared.BaseAggregateRoot) error {
	m := row.Aggregate()
	stored := root.StoredVersion()

	if stored == 0 {
		if err := tx.Create(row).Error; err != nil {
			return translateError(err)
		}
	} else {
		next := root.Version
		if next <= stored {
			next = stored + 1
		}
		m.Version = next
		result := tx.Model(row).Where("version = ?", stored).Select("*").Updates(row)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
	}

	root.MarkStored(m.Version)
	root.CreatedAt = m.CreatedAt
	root.UpdatedAt = m.UpdatedAt
	return nil
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched
func deleteByID(tx *gorm.DB, model any, id any) error {
	result := tx.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// filterValues accepts a single value or a string slice for IN filters
func filterValues(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
