package models

// QuizRequest asks the API to generate a quiz for a Wikipedia article.
type QuizRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// MultipleChoiceQuestion has a list of options and the index of the right one.
type MultipleChoiceQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// OpenQuestion has a free-text model answer.
type OpenQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Quiz is the /quiz/generate response.
type Quiz struct {
	ArticleID      int64                    `json:"article_id"`
	MultipleChoice []MultipleChoiceQuestion `json:"multiple_choice"`
	OpenQuestions  []OpenQuestion           `json:"open_questions"`
}

// QuizAttemptCreate is the /quiz/attempt request body. Both maps are keyed by
// question index; AnswersMCQ values are selected option indexes.
type QuizAttemptCreate struct {
	ArticleID   int64          `json:"article_id" validate:"required,gt=0"`
	AnswersMCQ  map[int]int    `json:"answers_mcq"`
	AnswersOpen map[int]string `json:"answers_open"`
}

// QuizAttemptResult is the /quiz/attempt response.
type QuizAttemptResult struct {
	AttemptID int64   `json:"attempt_id"`
	Score     float64 `json:"score"`
}

// GlobalStats is the /admin/stats response.
type GlobalStats struct {
	TotalUsers            int64 `json:"total_users"`
	TotalArticles         int64 `json:"total_articles"`
	TotalQuizzesGenerated int64 `json:"total_quizzes_generated"`
	TotalDownloads        int64 `json:"total_downloads"`
}
