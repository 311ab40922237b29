package recipe

import (
	"Kitchen-Backend/domain"
	"Kitchen-Backend/entities"

	"gorm.io/gorm"
)

// VisibleTo limits a recipe query to published recipes the caller may read.
// Anonymous callers see PUBLIC recipes only. Authenticated callers also see
// their own recipes of any visibility. FRIENDS is treated as PRIVATE for
// everyone but the author.
func VisibleTo(caller domain.Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("recipes.is_draft = ?", false)
		if !caller.IsAuthenticated() {
			return db.Where("recipes.visibility = ?", entities.VisibilityPublic)
		}
		return db.Where("(recipes.author_id = ? OR recipes.visibility = ?)", caller.UserID, entities.VisibilityPublic)
	}
}

// DraftsOf limits a recipe query to the caller's own drafts. Anonymous
// callers own nothing.
func DraftsOf(caller domain.Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !caller.IsAuthenticated() {
			return db.Where("1 = 0")
		}
		return db.Where("recipes.is_draft = ? AND recipes.author_id = ?", true, caller.UserID)
	}
}
