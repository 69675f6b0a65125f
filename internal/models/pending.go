package models

import "time"

// PendingVerification заявка на регистрацию, ожидающая подтверждения кодом из письма.
// Живёт только в хранилище ожидающих подтверждений.
type PendingVerification struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Password     string    `json:"password,omitempty"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired сообщает, истёк ли код к моменту now.
func (p *PendingVerification) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
