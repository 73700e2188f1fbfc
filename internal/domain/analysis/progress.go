package analysis

import "fmt"

// Progress is one snapshot from the backend progress endpoint.
type Progress struct {
	Percentage         float64 `json:"percentage"`
	CurrentMessage     string  `json:"current_message"`
	CurrentStep        int     `json:"current_step"`
	TotalSteps         int     `json:"total_steps"`
	EstimatedRemaining float64 `json:"estimated_remaining"`
	IsComplete         bool    `json:"is_complete"`
}

// StepCounter renders "current/total", e.g. "3/8".
func (p Progress) StepCounter() string {
	return fmt.Sprintf("%d/%d", p.CurrentStep, p.TotalSteps)
}

// RemainingClock formats the remaining estimate (seconds) as m:ss with the
// seconds zero-padded and floor-rounded, so 125 reads "2:05".
func (p Progress) RemainingClock() string {
	total := int(p.EstimatedRemaining)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
