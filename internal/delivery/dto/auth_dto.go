package dto

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterPatientRequest mirrors the patient sign-up form
type RegisterPatientRequest struct {
	Name            string `json:"nome" validate:"required,min=2"`
	CPF             string `json:"cpf" validate:"required,min=11,max=14"`
	Phone           string `json:"telefone" validate:"required,min=10,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"senha" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmarSenha" validate:"required"`
	DateOfBirth     string `json:"dataNascimento" validate:"required"` // Format: YYYY-MM-DD
	AcceptTerms     bool   `json:"aceitaTermos"`
}

// RegisterPsychologistRequest mirrors the psychologist sign-up form
type RegisterPsychologistRequest struct {
	Name            string `json:"nome" validate:"required,min=2"`
	CPF             string `json:"cpf" validate:"required,min=11,max=14"`
	Phone           string `json:"telefone" validate:"required,min=10,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"senha" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmarSenha" validate:"required"`
	CRP             string `json:"crp" validate:"required"`
	Address         string `json:"endereco" validate:"required"`
	Number          int    `json:"numero" validate:"gte=0"`
	AcceptTerms     bool   `json:"aceitaTermos"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type RegistrationResponse struct {
	ID string `json:"id"`
}

type ProfileResponse struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
	Role string `json:"role"`
}
