package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nqcrm/crm-api/internal/application/dto"
	"github.com/nqcrm/crm-api/internal/domain"
	"github.com/nqcrm/crm-api/internal/domain/entity"
	"github.com/nqcrm/crm-api/internal/domain/repository"
)

// ProjectUseCase casos de uso CRUD para proyectos y sus entregables.
type ProjectUseCase struct {
	repo         repository.ProjectRepository
	clientRepo   repository.ClientRepository
	activityRepo repository.ActivityRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository, clientRepo repository.ClientRepository, activityRepo repository.ActivityRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo, clientRepo: clientRepo, activityRepo: activityRepo}
}

// Create crea un proyecto. El cliente debe existir.
func (uc *ProjectUseCase) Create(actorName string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	status := in.Status
	if status == "" {
		status = entity.ProjectStatusActive
	}
	now := time.Now()
	project := &entity.Project{
		ID:         uuid.New().String(),
		Title:      in.Title,
		ClientID:   in.ClientID,
		ClientName: client.Name,
		Status:     status,
		Deadline:   in.Deadline,
		TotalValue: in.TotalValue,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(project); err != nil {
		return nil, err
	}
	if err := uc.activityRepo.Create(&entity.Activity{
		ID:         uuid.New().String(),
		Type:       entity.ActivityProjectCreated,
		EntityType: "project",
		EntityID:   project.ID,
		Message:    fmt.Sprintf("Proyecto %s creado para %s", project.Title, client.Name),
		Actor:      actorName,
		Timestamp:  now,
	}); err != nil {
		log.Warn().Err(err).Str("project_id", project.ID).Msg("registrar actividad")
	}
	return toProjectResponse(project), nil
}

// GetByID obtiene un proyecto por ID.
func (uc *ProjectUseCase) GetByID(id string) (*dto.ProjectResponse, error) {
	project, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	return toProjectResponse(project), nil
}

// List devuelve proyectos paginados.
func (uc *ProjectUseCase) List(page dto.PageRequest) (*dto.ProjectListResponse, error) {
	page.DefaultPage()
	projects, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ProjectListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza los campos presentes. El cliente del proyecto es inmutable.
func (uc *ProjectUseCase) Update(id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}
	if in.Title != nil {
		project.Title = *in.Title
	}
	if in.Status != nil {
		project.Status = *in.Status
	}
	if in.Deadline != nil {
		project.Deadline = in.Deadline
	}
	if in.TotalValue != nil {
		project.TotalValue = *in.TotalValue
	}
	project.UpdatedAt = time.Now()
	if err := uc.repo.Update(project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Delete elimina un proyecto y sus entregables (cascada en DB).
func (uc *ProjectUseCase) Delete(id string) error {
	project, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// AddDeliverable registra los metadatos de un entregable del proyecto.
func (uc *ProjectUseCase) AddDeliverable(actorName, projectID string, in dto.AddDeliverableRequest) (*dto.DeliverableResponse, error) {
	project, err := uc.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	d := &entity.Deliverable{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        in.Name,
		Filename:    in.Filename,
		FileSize:    in.FileSize,
		ContentType: in.ContentType,
		UploadedAt:  now,
	}
	if err := uc.repo.AddDeliverable(d); err != nil {
		return nil, err
	}
	if err := uc.activityRepo.Create(&entity.Activity{
		ID:         uuid.New().String(),
		Type:       entity.ActivityDeliverableAdded,
		EntityType: "project",
		EntityID:   projectID,
		Message:    fmt.Sprintf("Entregable %s añadido a %s", d.Name, project.Title),
		Actor:      actorName,
		Timestamp:  now,
	}); err != nil {
		log.Warn().Err(err).Str("project_id", projectID).Msg("registrar actividad")
	}
	return toDeliverableResponse(d), nil
}

// ListDeliverables devuelve los entregables del proyecto.
func (uc *ProjectUseCase) ListDeliverables(projectID string) ([]dto.DeliverableResponse, error) {
	project, err := uc.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	ds, err := uc.repo.ListDeliverables(projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliverableResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, *toDeliverableResponse(d))
	}
	return out, nil
}

// DeleteDeliverable elimina un entregable. El entregable debe pertenecer al proyecto.
func (uc *ProjectUseCase) DeleteDeliverable(actorName, projectID, deliverableID string) error {
	d, err := uc.repo.GetDeliverable(deliverableID)
	if err != nil {
		return err
	}
	if d == nil || d.ProjectID != projectID {
		return domain.ErrNotFound
	}
	if err := uc.repo.DeleteDeliverable(deliverableID); err != nil {
		return err
	}
	if err := uc.activityRepo.Create(&entity.Activity{
		ID:         uuid.New().String(),
		Type:       entity.ActivityDeliverableRemoved,
		EntityType: "project",
		EntityID:   projectID,
		Message:    fmt.Sprintf("Entregable %s eliminado", d.Name),
		Actor:      actorName,
		Timestamp:  time.Now(),
	}); err != nil {
		log.Warn().Err(err).Str("project_id", projectID).Msg("registrar actividad")
	}
	return nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:         p.ID,
		Title:      p.Title,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		Status:     p.Status,
		Deadline:   p.Deadline,
		TotalValue: p.TotalValue,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toDeliverableResponse(d *entity.Deliverable) *dto.DeliverableResponse {
	return &dto.DeliverableResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Filename:    d.Filename,
		FileSize:    d.FileSize,
		ContentType: d.ContentType,
		UploadedAt:  d.UploadedAt,
	}
}
