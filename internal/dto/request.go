package dto

type CreateBookingRequest struct {
	UserID   string `json:"user_id"`
	TicketID string `json:"ticket_id"`
	Quantity int    `json:"quantity"`
}

type ReserveTicketRequest struct {
	HolderID string `json:"holder_id"`
	Quantity int    `json:"quantity"`
}

type ReleaseTicketRequest struct {
	Quantity int `json:"quantity"`
}
