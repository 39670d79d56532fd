package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Column identifies one of the two dashboard columns
type Column string

const (
	ColumnA Column = "A"
	ColumnB Column = "B"
)

// BoxOrder is the target layout sent by the dashboard after a drag and drop.
// Wire format: "A:idA1,idA2,A-B:idB1,idB2,B". The trailing column letter of each
// list is a sentinel, not a box.
type BoxOrder struct {
	A []int64
	B []int64
}

// ParseBoxOrder decodes the wire format. Entries that are not positive integers
// (sentinels, blanks) are skipped and repeated ids are kept once, at their first position.
func ParseBoxOrder(raw string) (BoxOrder, error) {
	var order BoxOrder
	if strings.TrimSpace(raw) == "" {
		return order, nil
	}
	seen := make(map[int64]bool)
	for _, part := range strings.Split(raw, "-") {
		name, list, ok := strings.Cut(part, ":")
		if !ok {
			return BoxOrder{}, fmt.Errorf("box order segment %q has no column", part)
		}
		col := Column(strings.TrimSpace(name))
		if col != ColumnA && col != ColumnB {
			return BoxOrder{}, fmt.Errorf("unknown box column %q", name)
		}
		for _, item := range strings.Split(list, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(item), 10, 64)
			if err != nil || id <= 0 || seen[id] {
				continue
			}
			seen[id] = true
			if col == ColumnA {
				order.A = append(order.A, id)
			} else {
				order.B = append(order.B, id)
			}
		}
	}
	return order, nil
}

// String encodes the order back to the wire format
func (o BoxOrder) String() string {
	return "A:" + joinIDs(o.A, "A") + "-B:" + joinIDs(o.B, "B")
}

// IsEmpty reports whether no box is placed
func (o BoxOrder) IsEmpty() bool {
	return len(o.A) == 0 && len(o.B) == 0
}

func joinIDs(ids []int64, sentinel string) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteByte(',')
	}
	sb.WriteString(sentinel)
	return sb.String()
}

var (
	columnBMarker = regexp.MustCompile(`B:`)
	columnAStart  = regexp.MustCompile(`^A:`)
)

// InsertResult reports what InsertBox did
type InsertResult struct {
	Order string
	Left  int // separators counted in the left segment
	Right int // separators counted in the right segment
}

// Counts returns the "left-right" separator counts echoed to the dashboard
func (r InsertResult) Counts() string {
	return fmt.Sprintf("%d-%d", r.Left, r.Right)
}

// InsertBox adds boxID at the head of the shorter column of a raw order.
// Column sizes are estimated by counting commas on each side of the first '-'.
// When the left column holds more boxes the id goes first in column B, otherwise
// first in column A. An order that does not start with "A:" is left as is.
func InsertBox(raw string, boxID int64) InsertResult {
	left, right, _ := strings.Cut(raw, "-")
	res := InsertResult{
		Order: raw,
		Left:  strings.Count(left, ","),
		Right: strings.Count(right, ","),
	}
	id := strconv.FormatInt(boxID, 10)
	if res.Left > res.Right {
		res.Order = columnBMarker.ReplaceAllString(raw, "B:"+id+",")
	} else {
		res.Order = columnAStart.ReplaceAllString(raw, "A:"+id+",")
	}
	return res
}
