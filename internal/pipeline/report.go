package pipeline

import "fmt"

// Failure records one package that could not be advanced during a run.
type Failure struct {
	PackageID     int64  `json:"package_id"`
	BagIdentifier string `json:"bag_identifier"`
	Error         string `json:"error"`
}

// Report summarizes one stage run. Processed lists the bag identifiers that
// advanced; Failures carries every per-package error rather than only the
// last one.
type Report struct {
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Processed []string  `json:"processed"`
	Failures  []Failure `json:"failures"`
}

func (r *Report) addProcessed(bagID string) {
	r.Processed = append(r.Processed, bagID)
}

func (r *Report) addFailure(id int64, bagID string, err error) {
	r.Failures = append(r.Failures, Failure{
		PackageID:     id,
		BagIdentifier: bagID,
		Error:         err.Error(),
	})
}

func (r *Report) finalize() {
	r.Message = fmt.Sprintf("%s: %d processed, %d failed",
		r.Stage, len(r.Processed), len(r.Failures))
}
