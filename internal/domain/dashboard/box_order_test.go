package dashboard

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoxOrder(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		wantA []int64
		wantB []int64
	}{
		{"regular", "A:1,2,A-B:3,4,B", []int64{1, 2}, []int64{3, 4}},
		{"empty columns", "A:A-B:B", nil, nil},
		{"empty string", "", nil, nil},
		{"duplicates and junk", "A:5,,x,5,0,A-B:5,6,B", []int64{5}, []int64{6}},
		{"only column A", "A:9,A", []int64{9}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := ParseBoxOrder(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, order.A)
			assert.Equal(t, tt.wantB, order.B)
		})
	}
}

func TestParseBoxOrder_Errors(t *testing.T) {
	for _, raw := range []string{"1,2,3", "C:1,C"} {
		_, err := ParseBoxOrder(raw)
		assert.Error(t, err, raw)
	}
}

func TestBoxOrder_String(t *testing.T) {
	assert.Equal(t, "A:1,2,A-B:3,B", BoxOrder{A: []int64{1, 2}, B: []int64{3}}.String())
	assert.Equal(t, "A:A-B:B", BoxOrder{}.String())
	assert.True(t, BoxOrder{}.IsEmpty())

	order, err := ParseBoxOrder(BoxOrder{A: []int64{7}, B: []int64{8, 9}}.String())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, order.A)
	assert.Equal(t, []int64{8, 9}, order.B)
}

func TestInsertBox(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       string
		wantCounts string
	}{
		{"left longer goes right", "A:1,2,A-B:3,B", "A:1,2,A-B:12,3,B", "2-1"},
		{"balanced goes left", "A:1,A-B:3,B", "A:12,1,A-B:3,B", "1-1"},
		{"right longer goes left", "A:A-B:3,4,B", "A:12,A-B:3,4,B", "0-2"},
		{"no dash keeps order", "A:1,A", "A:1,A", "1-0"},
		{"only B segment", "B:1,B", "B:12,1,B", "1-0"},
		{"not starting with A", "X:A-B:B", "X:A-B:B", "0-0"},
		{"empty", "", "", "0-0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := InsertBox(tt.raw, 12)
			assert.Equal(t, tt.want, res.Order)
			assert.Equal(t, tt.wantCounts, res.Counts())
		})
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	tenant, user := uuid.New(), uuid.New()
	order := BoxOrder{A: []int64{4, 2}, B: []int64{9}}

	rows := Layout(tenant, user, 0, order)
	require.Len(t, rows, 3)
	assert.Equal(t, "A01", rows[0].Position)
	assert.Equal(t, "A02", rows[1].Position)
	assert.Equal(t, "B01", rows[2].Position)
	assert.Equal(t, int64(9), rows[2].BoxID)

	// reversed input still rebuilds the same order
	reversed := []UserBox{rows[2], rows[1], rows[0]}
	assert.Equal(t, order, OrderFromRows(reversed))
}

func TestOrderFromRows_RanksPastNinetyNine(t *testing.T) {
	var order BoxOrder
	for id := int64(1); id <= 120; id++ {
		order.A = append(order.A, id)
	}
	order.B = []int64{500}

	rows := Layout(uuid.New(), uuid.New(), 0, order)
	assert.Equal(t, "A100", rows[99].Position)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	assert.Equal(t, order, OrderFromRows(rows))
}

func TestParsePosition(t *testing.T) {
	col, rank, ok := ParsePosition("B107")
	require.True(t, ok)
	assert.Equal(t, ColumnB, col)
	assert.Equal(t, 107, rank)

	for _, bad := range []string{"", "A", "Ax1", "A00"} {
		_, _, ok := ParsePosition(bad)
		assert.False(t, ok, bad)
	}
}
