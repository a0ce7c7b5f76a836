// Package api contains API contract definitions for the sales analysis service.
// Version v1 represents the current stable API version.
package api

// Analysis API Requests

// AnalyzeRequest is the validated form of a multipart POST /analyze request
type AnalyzeRequest struct {
	TopN    int            `json:"top_n" validate:"gte=0,ltefield=MaxTopN"`
	MaxTopN int            `json:"-"`
	Files   []UploadedFile `json:"files" validate:"required,min=1,dive"`
}

// UploadedFile describes one part of the files field
type UploadedFile struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
}
