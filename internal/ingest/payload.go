// Package ingest prepares local files for upload to the backend:
// payload encoding per file type, and text extraction for the local
// similarity index.
package ingest

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nselim/graphdesk/internal/graphrag"
)

// mimeTypes maps binary file types to the MIME type used in the
// data-URL prefix. The backend only splits on the first comma, but
// browsers produced these prefixes and the bridge accepts them.
var mimeTypes = map[graphrag.FileType]string{
	graphrag.FileTypePDF:  "application/pdf",
	graphrag.FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DetectFileType maps a filename extension to the backend file type.
func DetectFileType(filename string) graphrag.FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return graphrag.FileTypePDF
	case ".docx":
		return graphrag.FileTypeDOCX
	default:
		return graphrag.FileTypeText
	}
}

// BuildPayload reads the file at path and returns the add_document
// request for it. Text files are sent verbatim; pdf and docx are
// base64-encoded in data-URL form.
func BuildPayload(path string) (graphrag.AddDocumentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graphrag.AddDocumentRequest{}, fmt.Errorf("reading %s: %w", path, err)
	}

	filename := filepath.Base(path)
	fileType := DetectFileType(filename)

	req := graphrag.AddDocumentRequest{
		Filename: filename,
		FileType: fileType,
	}

	if fileType == graphrag.FileTypeText {
		req.Content = string(data)
		return req, nil
	}

	req.Content = fmt.Sprintf("data:%s;base64,%s",
		mimeTypes[fileType], base64.StdEncoding.EncodeToString(data))
	return req, nil
}

// BuildTextPayload wraps pasted text as an add_document request. An
// empty filename gets a timestamped default on the backend side, but we
// name it locally so the tracker has a stable key.
func BuildTextPayload(filename, content string) graphrag.AddDocumentRequest {
	if filename == "" {
		filename = "pasted.txt"
	}
	if !strings.Contains(filename, ".") {
		filename += ".txt"
	}
	return graphrag.AddDocumentRequest{
		Content:  content,
		Filename: filename,
		FileType: graphrag.FileTypeText,
	}
}
