package models

import (
	"time"
)

// Project statuses mirrored from the on-chain enumeration. Stored as free
// text; the server does not reject other values.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// ProjectDetail is the off-chain mirror of an on-chain project. ProjectID is
// assigned by the contract and supplied by the client after the creation
// transaction; existence and ownership at the chain level are authoritative
// there, this row only enriches it with descriptive fields.
type ProjectDetail struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProjectID      string     `gorm:"uniqueIndex;size:100;not null" json:"project_id"`
	OwnerAddress   string     `gorm:"index;size:255;not null" json:"owner_address"`
	Title          string     `gorm:"size:200;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	SkillsRequired StringList `gorm:"type:text" json:"skills_required"`
	Status         string     `gorm:"size:50;default:Open" json:"status"`
	RepositoryURL  string     `gorm:"size:500" json:"repository_url"`
	WebsiteURL     string     `gorm:"size:500" json:"website_url"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (ProjectDetail) TableName() string { return "project_details" }
