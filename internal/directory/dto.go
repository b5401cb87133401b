// AngelaMos | 2026
// dto.go

package directory

type CreateCondominiumRequest struct {
	Name         string `json:"name"         validate:"required,min=1,max=200"`
	PostalCode   string `json:"postal_code"  validate:"required"`
	Number       string `json:"number"       validate:"required,max=20"`
	Complement   string `json:"complement"   validate:"max=100"`
	Street       string `json:"street"       validate:"max=200"`
	Neighborhood string `json:"neighborhood" validate:"max=100"`
	City         string `json:"city"         validate:"max=100"`
	State        string `json:"state"        validate:"max=2"`
	Phone        string `json:"phone"        validate:"max=20"`
	Email        string `json:"email"        validate:"omitempty,email,max=255"`
}

type UpdateCondominiumRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=200"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

type CreateUnitRequest struct {
	CondominiumID string `json:"condominium_id" validate:"required,uuid"`
	Number        string `json:"number"         validate:"required,max=20"`
	Block         string `json:"block"          validate:"max=20"`
	Floor         int    `json:"floor"          validate:"gte=0,lte=200"`
}

type UpsertProfileRequest struct {
	UserID        string `json:"user_id"        validate:"required,uuid"`
	CondominiumID string `json:"condominium_id" validate:"required,uuid"`
	UnitID        string `json:"unit_id"        validate:"omitempty,uuid"`
	FullName      string `json:"full_name"      validate:"required,min=1,max=200"`
	Phone         string `json:"phone"          validate:"max=20"`
}

type UpdateMyProfileRequest struct {
	FullName  *string `json:"full_name"  validate:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}
