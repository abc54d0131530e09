package models

import (
	"time"
)

// Collaboration request states. A resolved request never returns to Pending;
// the only exit from Approved/Rejected is deletion by the project owner.
const (
	CollabPending  = "Pending"
	CollabApproved = "Approved"
	CollabRejected = "Rejected"
)

// ProjectCollaborator is a user's request to join a project. ProjectID
// references project_details by the external contract id, deliberately
// without a foreign key. At most one row may exist per (project, user) pair.
type ProjectCollaborator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID string    `gorm:"uniqueIndex:idx_project_user;size:100;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Address   string    `gorm:"size:255;not null" json:"address"`
	Role      string    `gorm:"size:100;default:Contributor" json:"role"`
	Status    string    `gorm:"size:50;default:Pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectCollaborator) TableName() string { return "project_collaborators" }
