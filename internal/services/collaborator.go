package services

import (
	"errors"
	"time"

	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/pkg/response"
	"gorm.io/gorm"
)

type CollaboratorService struct {
	db *gorm.DB
}

func NewCollaboratorService(db *gorm.DB) *CollaboratorService {
	return &CollaboratorService{db: db}
}

// RequestToJoin creates a Pending collaborator row for the caller. Owners
// cannot request to join their own project, and a second request from the
// same user is rejected carrying the existing row's status.
func (s *CollaboratorService) RequestToJoin(userID uint, address, projectID, role string) (*models.ProjectCollaborator, error) {
	var project models.ProjectDetail
	if err := s.db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundErr("Project not found")
		}
		return nil, err
	}

	if project.OwnerAddress == address {
		return nil, response.BadRequestErr("You are the owner of this project")
	}

	var existing models.ProjectCollaborator
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
	if err == nil {
		return nil, response.BadRequestErr("You have already requested to join this project").
			With("status", existing.Status)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if role == "" {
		role = "Contributor"
	}
	request := models.ProjectCollaborator{
		ProjectID: projectID,
		UserID:    userID,
		Address:   address,
		Role:      role,
		Status:    models.CollabPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent request; the composite unique
			// index holds the invariant.
			if s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error == nil {
				return nil, response.BadRequestErr("You have already requested to join this project").
					With("status", existing.Status)
			}
			return nil, response.BadRequestErr("You have already requested to join this project")
		}
		return nil, err
	}

	return &request, nil
}

// Respond resolves a pending request to Approved or Rejected. Only the
// project owner may respond; a resolved request never returns to Pending.
func (s *CollaboratorService) Respond(callerAddress, projectID string, targetUserID uint, status string) (*models.ProjectCollaborator, error) {
	if err := s.requireOwner(callerAddress, projectID, "Not authorized to update this project"); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.ProjectCollaborator{}).
		Where("project_id = ? AND user_id = ?", projectID, targetUserID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, response.NotFoundErr("Collaboration request not found")
	}

	var updated models.ProjectCollaborator
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes a collaborator row regardless of its status. Owner only.
func (s *CollaboratorService) Remove(callerAddress, projectID string, targetUserID uint) (*models.ProjectCollaborator, error) {
	if err := s.requireOwner(callerAddress, projectID, "Not authorized to modify this project"); err != nil {
		return nil, err
	}

	var collaborator models.ProjectCollaborator
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).First(&collaborator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFoundErr("Collaborator not found")
		}
		return nil, err
	}

	if err := s.db.Delete(&collaborator).Error; err != nil {
		return nil, err
	}

	return &collaborator, nil
}

// requireOwner fails with Forbidden when the caller does not own the
// project. An unknown project id reports Forbidden too, matching the
// ownership probe this check is.
func (s *CollaboratorService) requireOwner(callerAddress, projectID, message string) error {
	var count int64
	err := s.db.Model(&models.ProjectDetail{}).
		Where("project_id = ? AND owner_address = ?", projectID, callerAddress).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return response.Forbidden(message)
	}
	return nil
}
