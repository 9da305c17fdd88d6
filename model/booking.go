package model

type BookingRequest struct {
	ShowtimeId    string   `json:"showtime_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	Seats         []string `json:"seats"`
}

type BookingConfirmation struct {
	Id string `json:"_id"`
}
