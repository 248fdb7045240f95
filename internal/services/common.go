package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/gorm"
)

const bulkDeleteChunk = 500

var (
	errReferenceMissing = response.NewBadRequest("referenced record does not exist")
	errReferenceInUse   = response.NewConflict("record is still referenced by other records")
)

// imageURL is the cache-busting public address of an entity image.
func imageURL(resource string, id uint, updatedAt time.Time) string {
	return fmt.Sprintf("/api/%s/%d/image?ts=%d", resource, id, updatedAt.Unix())
}

// writeError maps a failed insert or update to an API error.
func writeError(err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errReferenceMissing
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return response.NewConflict(what + " already exists")
	}
	return fmt.Errorf("save %s: %w", what, err)
}

// deleteError maps a failed delete to an API error.
func deleteError(err error, what string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errReferenceInUse
	}
	return fmt.Errorf("delete %s: %w", what, err)
}

func notFound(what string) error {
	return response.NewNotFound(what + " not found")
}

// findError turns a missing row into a 404 and wraps anything else.
func findError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// deleteByID removes one row and reports 404 when nothing matched.
func deleteByID(db *gorm.DB, model interface{}, id uint, what string) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return deleteError(result.Error, what)
	}
	if result.RowsAffected == 0 {
		return notFound(what)
	}
	return nil
}

// bulkDelete removes the given ids in chunks. Missing ids are ignored; each
// chunk is its own statement so a failure leaves earlier chunks deleted.
func bulkDelete(db *gorm.DB, model interface{}, ids []uint, what string) (int64, error) {
	ids = uniqueIDs(ids)
	var deleted int64
	for start := 0; start < len(ids); start += bulkDeleteChunk {
		end := start + bulkDeleteChunk
		if end > len(ids) {
			end = len(ids)
		}
		result := db.Where("id IN ?", ids[start:end]).Delete(model)
		if result.Error != nil {
			return deleted, deleteError(result.Error, what)
		}
		deleted += result.RowsAffected
	}
	return deleted, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
