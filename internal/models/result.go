package models

// Result is the single payload reported back to the caller.
type Result struct {
	Changed bool   `json:"changed"`
	Failed  bool   `json:"failed,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

// NewFailedResult maps any error to a failed result.
func NewFailedResult(err error) Result {
	return Result{Failed: true, Msg: err.Error()}
}

// NewChangedResult is the result of a completed zeroize.
func NewChangedResult() Result {
	return Result{Changed: true}
}
