package httpx

import (
	"net/http"
	"strconv"

	"github.com/lumen-lms/lumen/internal/shared"
)

// ListEnvelope is the success body for paginated listings.
type ListEnvelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       any               `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

// OKList writes a paginated success envelope with status 200.
func OKList(w http.ResponseWriter, message string, data any, p shared.Pagination) {
	JSON(w, http.StatusOK, ListEnvelope{Success: true, Message: message, Data: data, Pagination: p})
}

// PageQuery reads page/per_page from the query string with sane defaults.
func PageQuery(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return page, perPage
}
