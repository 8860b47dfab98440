package dto

import "github.com/google/uuid"

type CreateContentRequest struct {
	Kind     string `json:"kind"`
	Body     string `json:"body"`
	Language string `json:"language"`
}

type EditContentRequest struct {
	Body string `json:"body"`
}

type ReportContentRequest struct {
	ContentID uuid.UUID `json:"content_id"`
	Reason    string    `json:"reason"`
}

type ReviewContentRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}
