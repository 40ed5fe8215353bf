package entity

import "time"

// Project is a row in the `projects` table. Only its owner may change it.
type Project struct {
	ID          string    `db:"id" json:"id"`
	Key         string    `db:"project_key" json:"key"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
