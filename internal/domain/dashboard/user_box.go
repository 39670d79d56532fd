package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// UserBox is the saved position of one box for a user in a zone
type UserBox struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Zone     int
	BoxID    int64
	Position string // column letter followed by a rank of at least two digits, e.g. "A01"
}

// ParsePosition splits a position into its column and rank
func ParsePosition(pos string) (Column, int, bool) {
	if len(pos) < 2 {
		return "", 0, false
	}
	rank, err := strconv.Atoi(pos[1:])
	if err != nil || rank < 1 {
		return "", 0, false
	}
	return Column(pos[:1]), rank, true
}

// Layout turns an order into the rows to persist. Ranks restart at 01 in each column.
func Layout(tenantID, userID uuid.UUID, zone int, order BoxOrder) []UserBox {
	rows := make([]UserBox, 0, len(order.A)+len(order.B))
	appendColumn := func(col Column, ids []int64) {
		for i, id := range ids {
			rows = append(rows, UserBox{
				TenantID: tenantID,
				UserID:   userID,
				Zone:     zone,
				BoxID:    id,
				Position: fmt.Sprintf("%s%02d", col, i+1),
			})
		}
	}
	appendColumn(ColumnA, order.A)
	appendColumn(ColumnB, order.B)
	return rows
}

// OrderFromRows rebuilds the order of saved rows
func OrderFromRows(rows []UserBox) BoxOrder {
	type ranked struct {
		id   int64
		rank int
	}
	var a, b []ranked
	for _, r := range rows {
		col, rank, ok := ParsePosition(r.Position)
		if !ok {
			continue
		}
		switch col {
		case ColumnA:
			a = append(a, ranked{r.BoxID, rank})
		case ColumnB:
			b = append(b, ranked{r.BoxID, rank})
		}
	}

	ids := func(col []ranked) []int64 {
		sort.SliceStable(col, func(i, j int) bool { return col[i].rank < col[j].rank })
		var out []int64
		for _, r := range col {
			out = append(out, r.id)
		}
		return out
	}
	return BoxOrder{A: ids(a), B: ids(b)}
}

// BoxRepository persists dashboard layouts
type BoxRepository interface {
	// ReplaceLayout deletes the user's rows for zone and inserts rows atomically
	ReplaceLayout(ctx context.Context, tenantID, userID uuid.UUID, zone int, rows []UserBox) error
	FindLayout(ctx context.Context, tenantID, userID uuid.UUID, zone int) ([]UserBox, error)
}
