package scopes

import "gorm.io/gorm"

func Available(db *gorm.DB) *gorm.DB {
	return db.Where("is_available = ?", true)
}

func WithTraffic(score string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("traffic_score = ?", score)
	}
}

func WithMaxPrice(price int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("price_per_month <= ?", price)
	}
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "pending")
}
