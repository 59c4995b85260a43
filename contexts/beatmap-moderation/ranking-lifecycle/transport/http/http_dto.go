package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type VoteResponse struct {
	SetID     int64  `json:"set_id"`
	Accepted  bool   `json:"accepted"`
	Votes     int    `json:"votes"`
	Needed    int    `json:"needed"`
	Qualified bool   `json:"qualified"`
	Status    string `json:"status"`
}

type TransitionResponse struct {
	SetID   int64  `json:"set_id"`
	From    string `json:"from_status"`
	Status  string `json:"status"`
	Applied bool   `json:"applied"`
}

type BeatmapStatusResponse struct {
	MD5        string `json:"md5"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Frozen     bool   `json:"frozen"`
}
