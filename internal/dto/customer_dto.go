package dto

type AddressRequest struct {
	ZipCode      string  `json:"zip_code"     validate:"required"`
	State        string  `json:"state"        validate:"required"`
	City         string  `json:"city"         validate:"required"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	Street       string  `json:"street"       validate:"required"`
	Number       string  `json:"number"       validate:"required"`
	Complement   *string `json:"complement"`
}

type CreateCustomerRequest struct {
	Name        string           `json:"name"          validate:"required,min=2"`
	TaxID       string           `json:"tax_id"        validate:"required"`
	Email       *string          `json:"email"         validate:"omitempty,email"`
	Phone       *string          `json:"phone"`
	BirthDate   *string          `json:"birth_date"    validate:"omitempty,datetime=2006-01-02"`
	BabyDueDate *string          `json:"baby_due_date" validate:"omitempty,datetime=2006-01-02"`
	Note        *string          `json:"note"`
	Addresses   []AddressRequest `json:"addresses"     validate:"omitempty,dive"`
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name"          validate:"omitempty,min=2"`
	Email       *string `json:"email"         validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	BirthDate   *string `json:"birth_date"    validate:"omitempty,datetime=2006-01-02"`
	BabyDueDate *string `json:"baby_due_date" validate:"omitempty,datetime=2006-01-02"`
	Note        *string `json:"note"`
}

type CustomerFilter struct {
	Query  string `form:"q"`
	Active string `form:"active"` // "false" | "all" | default active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=200"`
}

type AddressResponse struct {
	ID           string  `json:"id"`
	ZipCode      string  `json:"zip_code"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	Neighborhood string  `json:"neighborhood"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Complement   *string `json:"complement"`
}

type CustomerResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	TaxID       string            `json:"tax_id"`
	Email       *string           `json:"email"`
	Phone       *string           `json:"phone"`
	BirthDate   *string           `json:"birth_date"`
	BabyDueDate *string           `json:"baby_due_date"`
	Note        *string           `json:"note"`
	Active      bool              `json:"active"`
	Addresses   []AddressResponse `json:"addresses"`
	CreatedAt   string            `json:"created_at"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
