package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей консультационного ядра.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Subject{},
		&ScheduleSlot{},
		&Booking{},
		&Notification{},
	)
}
