package cascade

// Usage tracks token consumption reported by a backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is what a transport returns for one attempt. Content is the
// primary field; an empty Content is never a success.
type Response struct {
	Content   string
	Citations []string // source URLs, when the backend provides them
	Usage     Usage
	Model     string // model reported by the backend, may differ from the requested ID
}

// Result is the outcome of a successful cascade.
type Result struct {
	Content   string
	Citations []string
	Usage     Usage
	Model     string

	BackendID     string
	DisplayName   string
	Attempt       int // 1-based index of the attempt that succeeded
	TotalAttempts int // length of the resolved backend order

	// Failures holds the attempts that failed before the successful one.
	Failures []Attempt
}
