package dto

// Pagination is the shared list envelope.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type PageQuery struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// Normalize clamps paging params to sane values.
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
}

func (q PageQuery) Limit() int  { return q.PerPage }
func (q PageQuery) Offset() int { return (q.Page - 1) * q.PerPage }
