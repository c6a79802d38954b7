package entities

// CompanyInfo is the public company profile published by the scheduling system
type CompanyInfo struct {
	Login          string `json:"login"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	TimezoneOffset int    `json:"timezone_offset"`
}
