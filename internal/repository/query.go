package repository

import (
	"errors"

	"gorm.io/gorm"
)

// firstOrNil 取第一条记录，不存在时返回 (nil, nil)
func firstOrNil[T any](query *gorm.DB) (*T, error) {
	var item T
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
