// Package domain defines the persistence models of the ticketing service.
// These types are mapped with GORM and shared by the repository and service
// layers.
package domain

import "time"

// Member is a registered user of the ticketing service.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Email: login address, unique across members, at most 100 characters.
//   - Name: display name, at most 30 characters.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Member struct {
	ID        uint64    `json:"id"         gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email"      gorm:"type:varchar(100);not null;uniqueIndex:ux_members_email"`
	Name      string    `json:"name"       gorm:"type:varchar(30);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Member.
func (Member) TableName() string { return "members" }
