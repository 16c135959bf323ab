package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"termin/internal/domains/teacher/model"
	"termin/shared"
	gDto "termin/shared/dto"
	gModel "termin/shared/model"
)

type CreateTeacherRequest struct {
	DepartmentID string                `json:"department_id" validate:"required,uuid"`
	Name         string                `json:"name"          validate:"required,max=100"`
	Email        string                `json:"email"         validate:"omitempty,email,max=255"`
	Room         string                `json:"room"          validate:"omitempty,max=50"`
	Photo        *multipart.FileHeader `json:"photo"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile    multipart.File        `json:"-"`
	Active       *bool                 `json:"active"        validate:"omitempty"`
}

func (c *CreateTeacherRequest) ToModel(user, photoURL string, now time.Time) model.Teacher {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Teacher{
		ID:           uuid.NewString(),
		DepartmentID: c.DepartmentID,
		Name:         c.Name,
		Email:        c.Email,
		Room:         c.Room,
		Photo:        photoURL,
		Active:       active,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateTeacherRequest struct {
	DepartmentID string                `db:"department_id" json:"department_id" validate:"omitempty,uuid"`
	Name         string                `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Email        string                `db:"email"         json:"email"         validate:"omitempty,email,max=255"`
	Room         string                `db:"room"          json:"room"          validate:"omitempty,max=50"`
	Photo        *multipart.FileHeader `json:"photo"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	PhotoFile    multipart.File        `json:"-"`
	Active       *bool                 `db:"active"        json:"active"        validate:"omitempty"`
}

// Empty reports whether the request carries nothing to change.
func (u *UpdateTeacherRequest) Empty() bool {
	return u.DepartmentID == "" && u.Name == "" && u.Email == "" && u.Room == "" && u.Photo == nil && u.Active == nil
}

type TeacherResponse struct {
	ID             string `json:"id"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Room           string `json:"room"`
	Photo          string `json:"photo"`
	Active         bool   `json:"active"`
	gDto.Metadata
}

func (r *TeacherResponse) FromModel(model model.Teacher) {
	r.ID = model.ID
	r.DepartmentID = model.DepartmentID
	r.DepartmentName = model.DepartmentName
	r.Name = model.Name
	r.Email = model.Email
	r.Room = model.Room
	r.Photo = model.Photo
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetTeachersResponse struct {
	Teachers  []TeacherResponse `json:"teachers"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetTeachersResponse) FromModels(models []model.Teacher, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Teachers = make([]TeacherResponse, len(models))
	for i, mod := range models {
		r.Teachers[i].FromModel(mod)
	}
}
