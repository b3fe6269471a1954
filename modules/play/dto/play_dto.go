package dto

import "arena-booking-api/modules/play/entity"

// SignUpRequest is the body for creating a play session sign-up.
type SignUpRequest struct {
	SlotKey string `json:"slot_key"`
	Date    string `json:"date"`
}

// ParticipantView is one sign-up as shown in the occurrence roster.
type ParticipantView struct {
	SignUpID string `json:"sign_up_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// OccurrenceView is one dated instance of a session template.
type OccurrenceView struct {
	Date         string            `json:"date"`
	Participants []ParticipantView `json:"participants"`
	Count        int               `json:"count"`
	MaxCount     int               `json:"max_count"`
	IsFull       bool              `json:"is_full"`
}

// PlaySlotView is a template together with its advertised occurrences.
type PlaySlotView struct {
	Template    entity.PlaySlotTemplate `json:"template"`
	Occurrences []OccurrenceView        `json:"occurrences"`
}
