package apperr

// Result is the plain success/error shape returned across the UI boundary.
type Result struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Canceled bool   `json:"canceled,omitempty"`
}

// OK is the successful Result.
func OK() Result { return Result{Success: true} }

// Canceled is returned when the user dismissed a picker or prompt.
func Canceled() Result { return Result{Canceled: true} }

// ResultOf converts err into a Result.
func ResultOf(err error) Result {
	if err == nil {
		return OK()
	}
	return Result{Error: err.Error(), Kind: KindOf(err).String()}
}
