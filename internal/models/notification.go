package models

import "time"

// Notification is a row of notificaciones. Rows are immutable once created.
type Notification struct {
	ID          uint      `gorm:"primaryKey;column:id"`
	UsuarioID   uint      `gorm:"not null;index:idx_notificaciones_usuario_tipo;column:id_usuario"`
	Usuario     User      `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
	Tipo        string    `gorm:"type:varchar(40);not null;index:idx_notificaciones_usuario_tipo;column:tipo"`
	Mensaje     string    `gorm:"type:text;not null;column:mensaje"`
	SolicitudID *uint     `gorm:"index;column:id_solicitud"`
	Fecha       time.Time `gorm:"autoCreateTime;index;column:fecha"`
}

// Notification types as stored in notificaciones.tipo
const (
	NotificationFriendRequest         = "solicitud_amistad"
	NotificationFriendRequestAccepted = "amistad_aceptada"
)

func (Notification) TableName() string {
	return "notificaciones"
}

// NotificationView is a friend request notification joined with its sender.
type NotificationView struct {
	NotificationID uint      `json:"id"`
	UserID         uint      `json:"id_usuario"`
	Type           string    `json:"tipo"`
	Message        string    `json:"mensaje"`
	CreatedAt      time.Time `json:"fecha"`
	RequestID      uint      `json:"id_solicitud"`
	RequesterID    uint      `json:"id_solicitante"`
	RequesterName  string    `json:"emisor_nombre"`
	RequesterPhoto string    `json:"foto_perfil"`
}
