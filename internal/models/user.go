package models

import "time"

// User roles recognized by the service.
const (
	RoleFaculty   = "Faculty"
	RoleAdmin     = "Admin"
	RoleSuperuser = "Superuser"
)

// User represents an account that can author minutes and act as an approver.
// Account management lives outside this service; the workflow engine only
// resolves users by id.
type User struct {
	UserID       uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string      `gorm:"uniqueIndex;size:150;not null" json:"username"`
	FirstName    string      `gorm:"size:150" json:"firstName"`
	LastName     string      `gorm:"size:150" json:"lastName"`
	Email        string      `gorm:"size:255" json:"email"`
	Role         string      `gorm:"size:20;not null;default:Faculty" json:"role"`
	DepartmentID *uint64     `json:"departmentId,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"-"`
	EmployeeID   *string     `gorm:"uniqueIndex;size:50" json:"employeeId,omitempty"`
	Designation  string      `gorm:"size:255" json:"designation,omitempty"`
	PhoneNumber  string      `gorm:"size:15" json:"phoneNumber,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FullName returns the display name used in notifications and logs.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Department groups users and scopes minute sheets.
type Department struct {
	DepartmentID       uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code               string    `gorm:"uniqueIndex;size:10;not null" json:"code"`
	Description        string    `json:"description,omitempty"`
	HeadOfDepartmentID *uint64   `gorm:"uniqueIndex" json:"headOfDepartmentId,omitempty"`
	DeanID             *uint64   `json:"deanId,omitempty"`
	CreatedByID        *uint64   `json:"createdById,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Department
func (Department) TableName() string {
	return "departments"
}
