// internal/services/slug.go
package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify normalizes a name to a lowercase, hyphenated, ASCII-safe
// identifier. Non-ASCII runes are dropped rather than transliterated.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SlugAllocator derives URL-safe identifiers for catalog entities. The
// collision check counts existing slugs sharing the candidate prefix and is
// advisory only: the store's unique index is the final arbiter and callers
// retry exactly once on a duplicate-key failure.
type SlugAllocator struct {
	db *gorm.DB
}

func NewSlugAllocator(db *gorm.DB) *SlugAllocator {
	return &SlugAllocator{db: db}
}

// Allocate computes a slug for name within the namespace of model. With k
// existing prefix matches the candidate becomes "{slug}-{k}". excludeID
// removes the entity being renamed from its own match count.
func (a *SlugAllocator) Allocate(model interface{}, name string, excludeID *uuid.UUID) (string, error) {
	slug := Slugify(name)

	query := a.db.Model(model).Where("slug LIKE ?", slug+"%")
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var matches int64
	if err := query.Count(&matches).Error; err != nil {
		return "", fmt.Errorf("failed to count slug matches: %w", err)
	}

	if matches > 0 {
		slug = fmt.Sprintf("%s-%d", slug, matches)
	}
	return slug, nil
}
