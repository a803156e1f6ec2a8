package models

// ChartData is the {labels, data} pair every dashboard chart consumes.
type ChartData struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ReportTable is the tabular shape handed to CSV and PDF exporters.
type ReportTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// SittingResult is what finalize returns to the caller. It survives
// even when the sitting record itself is discarded as ephemeral.
type SittingResult struct {
	SittingID       uint    `json:"sitting_id"`
	Score           int     `json:"score"`
	MaxScore        int     `json:"max_score"`
	PercentCorrect  int     `json:"percent_correct"`
	Passed          bool    `json:"passed"`
	CertificateCode *string `json:"certificate_code"`
}

type ChoiceDTO struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

type QuestionDTO struct {
	ID       uint        `json:"id"`
	Type     string      `json:"type"`
	Content  string      `json:"content"`
	Category string      `json:"category,omitempty"`
	Choices  []ChoiceDTO `json:"choices,omitempty"`
	// CorrectChoiceID and Explanation are filled only when answers are
	// being revealed (marking views, answers-at-end).
	CorrectChoiceID uint   `json:"correct_choice_id,omitempty"`
	Explanation     string `json:"explanation,omitempty"`
}

func (q *Question) ToDTO(withAnswers bool) QuestionDTO {
	choices := make([]ChoiceDTO, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = ChoiceDTO{ID: c.ID, Content: c.Content}
	}
	dto := QuestionDTO{
		ID:       q.ID,
		Type:     q.Type,
		Content:  q.Content,
		Category: q.Category,
		Choices:  choices,
	}
	if withAnswers {
		if correct := q.CorrectChoice(); correct != nil {
			dto.CorrectChoiceID = correct.ID
		}
		dto.Explanation = q.Explanation
	}
	return dto
}
