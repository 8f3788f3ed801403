package store

import "testing"

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{page: 0, size: 0, wantPage: 1, wantSize: DefaultPageSize},
		{page: 3, size: 50, wantPage: 3, wantSize: 50},
		{page: -1, size: 1000, wantPage: 1, wantSize: DefaultPageSize},
	}

	for _, tt := range tests {
		page, size := NormalizePage(tt.page, tt.size)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("NormalizePage(%d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

func TestNewOffsetPage(t *testing.T) {
	page := NewOffsetPage([]int{1, 2}, 41, 1, 20)
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 total pages, got %d", page.TotalPages)
	}

	page = NewOffsetPage(nil, 40, 2, 20)
	if page.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", page.TotalPages)
	}
}

func TestProductFilterWhere(t *testing.T) {
	where, args := ProductFilter{}.where()
	if where != "" || len(args) != 0 {
		t.Errorf("Empty filter should produce no clause, got %q %v", where, args)
	}

	where, args = ProductFilter{NameContains: " Dog_Food ", CategoryID: 4}.where()
	want := ` WHERE LOWER(p.name) LIKE $1 AND p.category_id = $2`
	if where != want {
		t.Errorf("Expected %q, got %q", want, where)
	}
	if len(args) != 2 || args[0] != `%dog\_food%` || args[1] != int64(4) {
		t.Errorf("Unexpected args %v", args)
	}
}
