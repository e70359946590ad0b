package domain

// Recommendation is a coaching suggestion derived from the scored pipeline.
type Recommendation struct {
	ID               int      `json:"id"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Impact           string   `json:"impact"`
	EstimatedRevenue float64  `json:"estimated_revenue"`
	ActionItems      []string `json:"action_items"`
	GeneratedByLLM   bool     `json:"generated_by_llm"`
}
