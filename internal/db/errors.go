package db

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 引用的记录不存在（包括外键指向不存在的帖子或用户）
	ErrNotFound = errors.New("not found")
	// ErrConflict 唯一约束冲突，例如重复点赞
	ErrConflict = errors.New("already exists")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}
