package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lock upgrades reads on tx to SELECT ... FOR UPDATE.
func Lock(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
