package model

// Prediction lifecycle states as reported by the inference provider.
const (
	PredictionStarting   = "starting"
	PredictionProcessing = "processing"
	PredictionSucceeded  = "succeeded"
	PredictionFailed     = "failed"
	PredictionCanceled   = "canceled"
)

// Prediction is a snapshot of an asynchronous provider job.
type Prediction struct {
	ID        string
	Status    string
	OutputURL string
	Detail    string
}

// Terminal reports whether the prediction has reached a final state.
func (p *Prediction) Terminal() bool {
	switch p.Status {
	case PredictionSucceeded, PredictionFailed, PredictionCanceled:
		return true
	}
	return false
}

// ResultImage is the fetched processed image.
type ResultImage struct {
	Data        []byte
	ContentType string
}
