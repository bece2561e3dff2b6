package pagination

import "testing"

func TestNewClamps(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{0, 0, 1, DefaultLimit, 0},
		{3, 10, 3, 10, 20},
		{2, 1000, 2, MaxLimit, MaxLimit},
		{-5, -1, 1, DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := New(tc.page, tc.limit)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("New(%d,%d) = %+v", tc.page, tc.limit, p)
		}
	}
}

func TestGetMeta(t *testing.T) {
	m := GetMeta(New(2, 10), 25)
	if m.TotalPages != 3 || !m.HasNext || !m.HasPrev {
		t.Fatalf("unexpected meta %+v", m)
	}

	m = GetMeta(New(1, 10), 0)
	if m.TotalPages != 0 || m.HasNext || m.HasPrev {
		t.Fatalf("unexpected empty meta %+v", m)
	}
}
