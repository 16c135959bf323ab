package model

import "termin/shared/model"

const (
	TableName  = "teachers"
	EntityName = "teacher"

	FieldID             = "id"
	FieldDepartmentID   = "department_id"
	FieldName           = "name"
	FieldEmail          = "email"
	FieldRoom           = "room"
	FieldPhoto          = "photo"
	FieldActive         = "active"
	FieldDepartmentName = "department_name"
)

type Teacher struct {
	ID             string `db:"id"`
	DepartmentID   string `db:"department_id"`
	DepartmentName string `db:"department_name" table:"departments" column:"name"`
	Name           string `db:"name"`
	Email          string `db:"email"`
	Room           string `db:"room"`
	Photo          string `db:"photo"`
	Active         bool   `db:"active"`
	model.Metadata
}

func (Teacher) GetJoinQuery() string {
	return "LEFT JOIN departments ON departments.id = teachers.department_id"
}
