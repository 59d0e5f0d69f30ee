package models

// UploadedObject is the result of storing a file.
type UploadedObject struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// DeletionReport says what a delete removed. The object delete and the trek scrub are
// separate writes with no transaction around them.
type DeletionReport struct {
	Key            string `json:"key"`
	URL            string `json:"url"`
	ImagesPulled   int64  `json:"imagesPulled"`
	ImageURLsReset int64  `json:"imageUrlsReset"`
}
