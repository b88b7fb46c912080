package model

import "time"

// FeatureVector holds the hand-crafted hesitation features, in the column
// order the hesitation classifier was trained on.
type FeatureVector struct {
	HesitationWordCount int     `json:"hesitation_count"`
	FillerRatio         float64 `json:"filler_ratio"`
	AvgWordLength       float64 `json:"avg_word_length"`
	FragmentCount       int     `json:"sentence_fragments"`
	QuestionMarkCount   int     `json:"question_marks"`
	RepetitionCount     int     `json:"repetition_count"`
	PassiveCount        int     `json:"passive_count"`
}

// Values returns the features as the classifier input row.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.HesitationWordCount),
		f.FillerRatio,
		f.AvgWordLength,
		float64(f.FragmentCount),
		float64(f.QuestionMarkCount),
		float64(f.RepetitionCount),
		float64(f.PassiveCount),
	}
}

type HesitationLevel string

const (
	HesitationLow    HesitationLevel = "low"
	HesitationMedium HesitationLevel = "medium"
	HesitationHigh   HesitationLevel = "high"
)

type HesitationVerdict struct {
	Detected   bool            `json:"hesitation_detected"`
	Confidence float64         `json:"confidence_score"`
	Level      HesitationLevel `json:"hesitation_level"`
	Features   FeatureVector   `json:"features"`
}

type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type EntitySummary struct {
	TotalEntities int            `json:"total_entities"`
	EntityTypes   map[string]int `json:"entity_types"`
	UniqueTypes   int            `json:"unique_types"`
}

type RephraseResult struct {
	OriginalText  string   `json:"original_text"`
	RephrasedText string   `json:"rephrased_text"`
	Improvements  []string `json:"improvements"`
}

type Analysis struct {
	OriginalText        string             `json:"original_text"`
	Entities            []Entity           `json:"entities"`
	Hesitation          HesitationVerdict  `json:"hesitation"`
	RephrasedSuggestion *RephraseResult    `json:"rephrased_suggestion"`
	ConfidenceMetrics   map[string]float64 `json:"confidence_metrics"`
	Recommendations     []string           `json:"recommendations"`
}

// AnalysisRecord is a stored Analysis tied to a brainstorm session.
type AnalysisRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	ParticipantID *string   `json:"participant_id,omitempty"`
	Analysis      Analysis  `json:"analysis"`
	CreatedAt     time.Time `json:"created_at"`
}
