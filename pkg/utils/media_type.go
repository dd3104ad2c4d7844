package utils

import "github.com/gabriel-vasile/mimetype"

// DetectMediaType returns declared when non-empty, otherwise sniffs the
// content. Sniffing never fails; unknown content comes back as
// "application/octet-stream".
func DetectMediaType(declared string, content []byte) string {
	if declared != "" {
		return declared
	}
	return mimetype.Detect(content).String()
}
