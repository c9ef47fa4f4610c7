package database

import "profilebook/internal/models"

// PersistentModels returns every model registered for schema migration.
// Order matters: referenced tables migrate before their dependents.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.Message{},
		&models.Report{},
		&models.Group{},
		&models.GroupMembership{},
	}
}
