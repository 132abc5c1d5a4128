package domain

type AllowedEmail struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Note  string `json:"note"`
}
