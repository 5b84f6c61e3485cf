package services

// RemoteServiceError represents a failure talking to an external service
// (embedding API, LLM API, vision API, vector index, object storage).
type RemoteServiceError struct {
	Service   string
	Operation string
	Err       error
	Message   string
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	prefix := e.Service + ":" + e.Operation
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// NewRemoteServiceError creates a new remote service error
func NewRemoteServiceError(service, operation string, err error, message string) *RemoteServiceError {
	return &RemoteServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// ExtractionError represents a failure to pull text out of an uploaded
// document. Extraction failures are not fatal to ingestion; the caller
// decides whether to degrade to an empty text.
type ExtractionError struct {
	Filetype string
	Source   string
	Err      error
	Message  string
}

func (e *ExtractionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	prefix := "extract " + e.Filetype + " " + e.Source
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new extraction error
func NewExtractionError(filetype, source string, err error, message string) *ExtractionError {
	return &ExtractionError{
		Filetype: filetype,
		Source:   source,
		Err:      err,
		Message:  message,
	}
}
