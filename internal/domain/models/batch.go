package models

// SubjectError records one failed subject inside a batch run.
type SubjectError struct {
	SubjectID string `json:"subject_id"`
	Error     string `json:"error"`
}

// BatchInsights summarizes the successful portion of a batch run.
type BatchInsights struct {
	AverageHybridScore float64                 `json:"average_hybrid_score"`
	Distribution       map[ConfidenceLevel]int `json:"distribution"`
	TopPerformers      []AlertMatch            `json:"top_performers"`
	BottomPerformers   []AlertMatch            `json:"bottom_performers"`
}

// BatchResult aggregates a wave-sequential batch scoring run. Results are
// keyed by subject id; completion order within a wave is irrelevant.
type BatchResult struct {
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []ConfidenceRecord `json:"results"`
	Errors     []SubjectError     `json:"errors"`
	Insights   BatchInsights      `json:"insights"`
}
