package model

import "time"

type Movie struct {
	Id           string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DurationMins int    `json:"duration_mins"`
	Genre        string `json:"genre,omitempty"`
	Rating       string `json:"rating,omitempty"`
	PosterURL    string `json:"poster_url,omitempty"`
}

type Showtime struct {
	Id         string    `json:"_id"`
	MovieId    string    `json:"movie_id"`
	StartTime  time.Time `json:"start_time"`
	Auditorium string    `json:"auditorium"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Price      float64   `json:"price"`
	TakenSeats []string  `json:"taken_seats,omitempty"`
}
