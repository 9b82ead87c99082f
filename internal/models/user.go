package models

// User mirrors the externally owned users table. Only the columns the
// friendship features read are mapped.
type User struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	Nombre     string `gorm:"type:varchar(255);not null;column:nombre" json:"nombre"`
	FotoPerfil string `gorm:"type:varchar(500);column:foto_perfil" json:"foto_perfil"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Profile is the read model behind the profile page.
type Profile struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	FotoPerfil  string `json:"foto_perfil"`
	FriendCount int64  `json:"friend_count"`
}
