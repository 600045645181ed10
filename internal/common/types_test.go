package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		pages int
	}{
		{"exact fit", 1, 10, 30, 3},
		{"partial last page", 1, 10, 31, 4},
		{"empty result", 1, 10, 0, 0},
		{"single item", 2, 20, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.pages, p.Pages)
		})
	}
}
