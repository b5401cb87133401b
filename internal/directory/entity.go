// AngelaMos | 2026
// entity.go

package directory

import (
	"time"
)

type Condominium struct {
	ID           string    `db:"id"            json:"id"`
	Name         string    `db:"name"          json:"name"`
	Street       string    `db:"street"        json:"street"`
	Number       string    `db:"number"        json:"number"`
	Complement   string    `db:"complement"    json:"complement,omitempty"`
	Neighborhood string    `db:"neighborhood"  json:"neighborhood"`
	City         string    `db:"city"          json:"city"`
	State        string    `db:"state"         json:"state"`
	PostalCode   string    `db:"postal_code"   json:"postal_code"`
	Phone        string    `db:"phone"         json:"phone,omitempty"`
	Email        string    `db:"email"         json:"email,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

type Unit struct {
	ID            string    `db:"id"             json:"id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	Number        string    `db:"number"         json:"number"`
	Block         string    `db:"block"          json:"block,omitempty"`
	Floor         int       `db:"floor"          json:"floor"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
}

// Profile links an authenticated user to their residence. The row id is the
// user id; a user without a profile has no condominium scope yet.
type Profile struct {
	ID            string    `db:"id"             json:"id"`
	CondominiumID string    `db:"condominium_id" json:"condominium_id"`
	UnitID        string    `db:"unit_id"        json:"unit_id,omitempty"`
	FullName      string    `db:"full_name"      json:"full_name"`
	Phone         string    `db:"phone"          json:"phone,omitempty"`
	AvatarURL     string    `db:"avatar_url"     json:"avatar_url,omitempty"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}
