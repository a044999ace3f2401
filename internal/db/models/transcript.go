package models

import "time"

// Transcript is a completed pipeline run persisted for model training.
// Quality is a 0-100 tag indicating which provider produced the
// translation; it gates training eligibility.
type Transcript struct {
	ID              string     `json:"id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	Transcript      string     `json:"transcript"`
	Translation     string     `json:"translation"`
	SourceLang      string     `json:"sourceLang"`
	TargetLang      string     `json:"targetLang"`
	CreatedAt       time.Time  `json:"createdAt"`
	Quality         int        `json:"quality"`
	UsedForTraining bool       `json:"usedForTraining"`
	TrainingDate    *time.Time `json:"trainingDate,omitempty"`
}
