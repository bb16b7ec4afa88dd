package pdfinfo

import (
	"bytes"

	rpdf "rsc.io/pdf"
)

// PageCount returns the number of pages in data, or 0 if it can't be parsed.
func PageCount(data []byte) (n int) {
	if len(data) == 0 {
		return 0
	}
	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return doc.NumPage()
}
