package models

// Roles in the system. The values are the business terms and are stored as-is.
const (
	RoleField  = "Außendienst" // field sales, strictly isolated data
	RoleOffice = "Innendienst" // back office, sees everything
)

// SystemAdminID is the protected administrator account. It can never be deleted.
const SystemAdminID uint = 1

// User is an account that owns customer data. The password is stored either as
// "salt$hash" (pbkdf2, see auth package) or as plaintext for legacy accounts.
type User struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // never serialized
	Role     string `json:"role" gorm:"default:'Außendienst'"`
	IsAdmin  bool   `json:"is_admin" gorm:"default:false"`
}

// TableName sets the table name for the User model
func (User) TableName() string {
	return "users"
}
