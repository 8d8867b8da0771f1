package usecase

type CreateLeadInput struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Company       string   `json:"company"`
	BusinessField string   `json:"business_field"`
	CompanySize   string   `json:"company_size"`
	Challenges    []string `json:"challenges"`
	Message       string   `json:"message"`
	Source        string   `json:"source"`
}

type SubscribeInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateNeedInput struct {
	AssessmentID string `json:"assessment_id"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
}
