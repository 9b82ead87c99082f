package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest is a row of solicitudes. ParMenor/ParMayor hold the
// canonical unordered pair and carry the unique index that keeps at most
// one request per pair, whichever direction it was sent in.
type FriendRequest struct {
	ID            uint      `gorm:"primaryKey;column:id"`
	SolicitanteID uint      `gorm:"not null;index;column:id_solicitante"`
	Solicitante   User      `gorm:"foreignKey:SolicitanteID;constraint:OnDelete:CASCADE"`
	ReceptorID    uint      `gorm:"not null;index:idx_solicitudes_receptor_estado;column:id_receptor"`
	Receptor      User      `gorm:"foreignKey:ReceptorID;constraint:OnDelete:CASCADE"`
	Estado        string    `gorm:"type:varchar(20);not null;default:'pendiente';index:idx_solicitudes_receptor_estado;column:estado"`
	ParMenor      *uint     `gorm:"uniqueIndex:idx_solicitudes_par;column:par_menor"`
	ParMayor      *uint     `gorm:"uniqueIndex:idx_solicitudes_par;column:par_mayor"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Friend request status values as stored in solicitudes.estado
const (
	FriendRequestPending  = "pendiente"
	FriendRequestAccepted = "aceptado"
	FriendRequestRejected = "rechazado"
)

func (FriendRequest) TableName() string {
	return "solicitudes"
}

// CanonicalPair orders two user ids so (a,b) and (b,a) share one key.
func CanonicalPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// BeforeCreate fills the canonical pair and validates the initial state.
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.SolicitanteID == 0 || r.ReceptorID == 0 || r.SolicitanteID == r.ReceptorID {
		return gorm.ErrInvalidData
	}
	if r.Estado == "" {
		r.Estado = FriendRequestPending
	}
	if r.Estado != FriendRequestPending {
		return gorm.ErrInvalidData
	}

	menor, mayor := CanonicalPair(r.SolicitanteID, r.ReceptorID)
	r.ParMenor = &menor
	r.ParMayor = &mayor
	return nil
}

// IsPending reports whether the request can still be accepted or rejected.
func (r *FriendRequest) IsPending() bool {
	return r.Estado == FriendRequestPending
}

// Friendship is a row of amigos, materialized when a request is accepted.
// UsuarioID is the original requester, AmigoID the recipient.
type Friendship struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	UsuarioID uint      `gorm:"not null;index;column:usuario_id"`
	Usuario   User      `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
	AmigoID   uint      `gorm:"not null;index;column:amigo_id"`
	Amigo     User      `gorm:"foreignKey:AmigoID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Friendship) TableName() string {
	return "amigos"
}

// PendingRequestView is one received request waiting for an answer.
type PendingRequestView struct {
	RequestID      uint   `json:"id"`
	RequesterID    uint   `json:"id_solicitante"`
	RequesterName  string `json:"nombre"`
	RequesterPhoto string `json:"foto_perfil"`
}

// FriendView is the other party of a friendship.
type FriendView struct {
	FriendID   uint   `json:"id"`
	FriendName string `json:"nombre"`
}
