package handler

type NewsItemResponse struct {
	ID            int64  `json:"id"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	PublishedDate string `json:"date"`
	CreatedAt     string `json:"created_at"`
	Shared        bool   `json:"shared"`
	SharedAt      string `json:"shared_at,omitempty"`
	DeliveryID    string `json:"delivery_id,omitempty"`
}

type NewsListResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Total   int                `json:"total"`
	Skip    int                `json:"skip"`
	Limit   int                `json:"limit"`
	Data    []NewsItemResponse `json:"data"`
}

type SearchResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Total   int                `json:"total"`
	Query   string             `json:"query"`
	Skip    int                `json:"skip"`
	Limit   int                `json:"limit"`
	Data    []NewsItemResponse `json:"data"`
}

type StringListResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Data    []string `json:"data"`
}
