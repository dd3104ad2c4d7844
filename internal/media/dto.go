package media

import "context"

// Attachment is a file picked for sending. ContentType may be empty;
// the pipeline sniffs it from the content then.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ref is a durable reference to uploaded media: a publicly fetchable
// URL plus the MIME-ish type string.
type Ref struct {
	URL  string
	Type string
}

// Task is an in-flight upload: a finite stream of rounded percentages
// terminated by success or failure, a result, and cancellation.
type Task interface {
	Progress() <-chan int
	Wait(ctx context.Context) (Ref, error)
	Cancel()
}
