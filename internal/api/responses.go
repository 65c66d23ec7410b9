package api

type ErrorResponse struct {
	Errors []string `json:"errors" example:"That class does not exist."`
}

type MessageResponse struct {
	Message string `json:"message" example:"The class has been created."`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Pagination echoes the resolved paging state back to the rendering layer.
type Pagination struct {
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"items_per_page"`
	TotalPages   int    `json:"total_pages"`
	Sort         string `json:"sort" example:"asc"`
}

// LoginRequired is the 401 payload. RedirectTo carries the originally
// requested path so the client can return there after logging in.
type LoginRequired struct {
	Errors     []string `json:"errors"`
	RedirectTo string   `json:"redirect_to,omitempty" example:"/classes/3/roster"`
}

func Error(msgs ...string) ErrorResponse {
	return ErrorResponse{Errors: msgs}
}
