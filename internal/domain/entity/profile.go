package entity

// Role names as returned by the practice API
const (
	RolePatient      = "Paciente"
	RolePsychologist = "Psicologo"
)

// Profile is the current session's identity as resolved by GET /login
type Profile struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
	Role string `json:"role"`
}

func (p *Profile) IsPatient() bool {
	return p != nil && p.Role == RolePatient
}

func (p *Profile) IsPsychologist() bool {
	return p != nil && p.Role == RolePsychologist
}

// PsychologistProfile is the psychologist detail the API embeds in slot listings
type PsychologistProfile struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email,omitempty"`
	CRP     string `json:"crp,omitempty"`
	Phone   string `json:"telefone,omitempty"`
	Address string `json:"endereco,omitempty"`
	Number  int    `json:"numero,omitempty"`
}

// PatientSummary is the patient detail embedded in booked appointments
type PatientSummary struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
}

// Credentials for POST /login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccessToken is the POST /login response
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// PatientRegistration is the POST /pacientes payload
type PatientRegistration struct {
	Name        string `json:"nome"`
	CPF         string `json:"cpf"`
	Phone       string `json:"telefone"`
	Email       string `json:"email"`
	Password    string `json:"senha"`
	DateOfBirth string `json:"dataNascimento"`
}

// PsychologistRegistration is the POST /psicologos payload
type PsychologistRegistration struct {
	Name     string `json:"nome"`
	CPF      string `json:"cpf"`
	Phone    string `json:"telefone"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	CRP      string `json:"crp"`
	Address  string `json:"endereco"`
	Number   int    `json:"numero"`
}

// Registration is the API's acknowledgement of a new account
type Registration struct {
	ID string `json:"id"`
}
