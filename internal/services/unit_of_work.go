// internal/services/unit_of_work.go
package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// unitOfWork wraps a store transaction and a list of hooks to run after it
// commits. Hooks run synchronously, in registration order, outside the
// transaction; a failing hook is logged and never rolls anything back.
type unitOfWork struct {
	db    *gorm.DB
	hooks []func()
}

func newUnitOfWork(db *gorm.DB) *unitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) AfterCommit(hook func()) {
	u.hooks = append(u.hooks, hook)
}

func (u *unitOfWork) Commit(fn func(tx *gorm.DB) error) error {
	if err := u.db.Transaction(fn); err != nil {
		return err
	}

	for _, hook := range u.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("panic", r).Error("post-commit hook panicked")
				}
			}()
			hook()
		}()
	}
	return nil
}
