package exchangerate

// LatestResponse representa la respuesta de /v4/latest/<BASE>
type LatestResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"` // epoch seconds
	Rates           map[string]float64 `json:"rates"`
}
