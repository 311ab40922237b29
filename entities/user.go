package entities

type User struct {
	Base
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Username string  `json:"username"`
	Handler  *string `json:"handler"`
	Avatar   *string `json:"avatar"`
}
