package services

import (
	"errors"
	"time"

	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// UpsertProjectRequest is the post-chain-write metadata payload. ProjectID
// is the id the contract assigned in the creation transaction.
type UpsertProjectRequest struct {
	ProjectID      string   `json:"project_id" binding:"required"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	SkillsRequired []string `json:"skills_required"`
	RepositoryURL  string   `json:"repository_url"`
	WebsiteURL     string   `json:"website_url"`
	Status         string   `json:"status"`
}

// ProjectListItem is a project row joined with its owner's display fields
// and the count of approved collaborators.
type ProjectListItem struct {
	ID                uint              `json:"id"`
	ProjectID         string            `json:"project_id"`
	OwnerAddress      string            `json:"owner_address"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	SkillsRequired    models.StringList `json:"skills_required"`
	Status            string            `json:"status"`
	RepositoryURL     string            `json:"repository_url"`
	WebsiteURL        string            `json:"website_url"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	OwnerName         string            `json:"owner_name"`
	OwnerImage        *string           `json:"owner_image"`
	CollaboratorCount int               `json:"collaborator_count"`
}

// CollaboratorView is a collaborator row joined with the user's display
// fields. All statuses are included; callers filter client-side.
type CollaboratorView struct {
	ID        uint      `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    uint      `json:"user_id"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url"`
}

// ProjectDetailView is a single project plus its full collaborator list.
type ProjectDetailView struct {
	ProjectListItem
	Collaborators []CollaboratorView `json:"collaborators"`
}

// OwnedProject is a project row returned from the by-address listing.
type OwnedProject struct {
	models.ProjectDetail
	Role string `json:"role"`
}

// CollaboratingProject is a project the user has a collaborator row on.
type CollaboratingProject struct {
	models.ProjectDetail
	Role                string `json:"role"`
	CollaborationStatus string `json:"collaboration_status"`
}

// UserProjectsView groups a user's owned and collaborating projects.
type UserProjectsView struct {
	Owned         []OwnedProject         `json:"owned"`
	Collaborating []CollaboratingProject `json:"collaborating"`
}

// Upsert creates or updates the metadata mirror row for a project id.
//
// The write path is race-safe without a wrapping transaction: first an
// UPDATE guarded by the stored owner in its WHERE clause, then, when no row
// was touched, an INSERT. A uniqueness violation on the INSERT means the row
// exists under a different owner, which is the only misuse this endpoint
// guards against. Returns the row and whether it was created.
func (s *ProjectService) Upsert(callerAddress string, req *UpsertProjectRequest) (*models.ProjectDetail, bool, error) {
	updates := map[string]interface{}{
		"title":           req.Title,
		"description":     req.Description,
		"skills_required": models.StringList(req.SkillsRequired),
		"repository_url":  req.RepositoryURL,
		"website_url":     req.WebsiteURL,
		"updated_at":      time.Now(),
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	res := s.db.Model(&models.ProjectDetail{}).
		Where("project_id = ? AND owner_address = ?", req.ProjectID, callerAddress).
		Updates(updates)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		project, err := s.getByProjectID(req.ProjectID)
		return project, false, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusOpen
	}
	project := models.ProjectDetail{
		ProjectID:      req.ProjectID,
		OwnerAddress:   callerAddress,
		Title:          req.Title,
		Description:    req.Description,
		SkillsRequired: models.StringList(req.SkillsRequired),
		Status:         status,
		RepositoryURL:  req.RepositoryURL,
		WebsiteURL:     req.WebsiteURL,
	}
	if err := s.db.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Row exists and the owner-guarded update missed it: caller is
			// not the owner.
			return nil, false, response.Forbidden("Not authorized to update this project")
		}
		return nil, false, err
	}

	return &project, true, nil
}

func (s *ProjectService) getByProjectID(projectID string) (*models.ProjectDetail, error) {
	var project models.ProjectDetail
	if err := s.db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

const approvedCountSubquery = `(SELECT COUNT(*) FROM project_collaborators
	WHERE project_collaborators.project_id = project_details.project_id
	AND project_collaborators.status = 'Approved')`

// List returns all projects with owner display info and approved
// collaborator counts, newest first.
func (s *ProjectService) List() ([]ProjectListItem, error) {
	items := []ProjectListItem{}
	err := s.db.Model(&models.ProjectDetail{}).
		Select(`project_details.*, users.name AS owner_name,
			user_profiles.image_url AS owner_image, ` + approvedCountSubquery + ` AS collaborator_count`).
		Joins("LEFT JOIN users ON users.address = project_details.owner_address").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Order("project_details.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].OwnerName == "" {
			items[i].OwnerName = "Unknown User"
		}
		if items[i].SkillsRequired == nil {
			items[i].SkillsRequired = models.StringList{}
		}
	}

	return items, nil
}

// Get returns a single project with its full collaborator list.
func (s *ProjectService) Get(projectID string) (*ProjectDetailView, error) {
	var view ProjectDetailView
	err := s.db.Model(&models.ProjectDetail{}).
		Select(`project_details.*, users.name AS owner_name,
			user_profiles.image_url AS owner_image, ` + approvedCountSubquery + ` AS collaborator_count`).
		Joins("LEFT JOIN users ON users.address = project_details.owner_address").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("project_details.project_id = ?", projectID).
		Take(&view.ProjectListItem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundErr("Project not found")
		}
		return nil, err
	}
	if view.OwnerName == "" {
		view.OwnerName = "Unknown User"
	}

	view.Collaborators = []CollaboratorView{}
	err = s.db.Model(&models.ProjectCollaborator{}).
		Select(`project_collaborators.*, users.name, user_profiles.image_url`).
		Joins("JOIN users ON users.id = project_collaborators.user_id").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("project_collaborators.project_id = ?", projectID).
		Scan(&view.Collaborators).Error
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// UserProjects returns the projects an address owns and the ones it has a
// collaborator row on (any status).
func (s *ProjectService) UserProjects(address string) (*UserProjectsView, error) {
	var user models.User
	if err := s.db.Where("address = ?", address).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundErr("User not found")
		}
		return nil, err
	}

	view := UserProjectsView{
		Owned:         []OwnedProject{},
		Collaborating: []CollaboratingProject{},
	}

	err := s.db.Model(&models.ProjectDetail{}).
		Select("project_details.*, 'owner' AS role").
		Where("owner_address = ?", address).
		Scan(&view.Owned).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.ProjectDetail{}).
		Select("project_details.*, project_collaborators.role, project_collaborators.status AS collaboration_status").
		Joins("JOIN project_collaborators ON project_collaborators.project_id = project_details.project_id").
		Where("project_collaborators.user_id = ?", user.ID).
		Scan(&view.Collaborating).Error
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// UpdateStatus sets a project's status in one owner-guarded statement. Any
// status string is accepted. Zero rows affected means the caller does not
// own the row (or it does not exist), reported as Forbidden either way.
func (s *ProjectService) UpdateStatus(callerAddress, projectID, status string) (*models.ProjectDetail, error) {
	res := s.db.Model(&models.ProjectDetail{}).
		Where("project_id = ? AND owner_address = ?", projectID, callerAddress).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, response.Forbidden("Not authorized to update this project")
	}

	return s.getByProjectID(projectID)
}

// Recover acknowledges a re-sync request for a project the caller owns.
//
// Stub: verifies existence and ownership only. No chain read or
// reconciliation is performed; chain state remains authoritative and this
// endpoint simply confirms the mirror row is reachable.
func (s *ProjectService) Recover(callerAddress, projectID string) error {
	var project models.ProjectDetail
	if err := s.db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFoundErr("Project not found")
		}
		return err
	}

	if project.OwnerAddress != callerAddress {
		return response.Forbidden("Not authorized to recover this project")
	}

	return nil
}
