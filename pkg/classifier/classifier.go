package classifier

// Result describes the detected type of some content.
type Result struct {
	MIMEType    string
	Description string
	// Encoding is empty when the classifier has no opinion.
	Encoding string
}

// Classifier detects the type of content. Implementations must be safe for concurrent use and
// must not retain data after returning.
type Classifier interface {
	// ClassifyBytes inspects data. filenameHint is the client supplied name, possibly empty.
	ClassifyBytes(data []byte, filenameHint string) (Result, error)
	// ClassifyPath inspects the file at path, which the caller has already confined.
	ClassifyPath(path string) (Result, error)
}
