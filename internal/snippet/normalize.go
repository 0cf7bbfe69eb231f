package snippet

import (
	"math"
	"strings"
	"time"

	"github.com/hpungsan/atext2csv/internal/tree"
)

// TimestampLayout is the output format for created/modified times (UTC).
const TimestampLayout = "2006-01-02 15:04:05"

// maxUnixSeconds is 9999-12-31 23:59:59 UTC, the last second with a
// four-digit year.
const maxUnixSeconds = 253402300799

// Normalize flattens the decoded tree into snippet records in document order.
// Only a top-level list yields records. It never fails: malformed fields
// degrade to empty strings.
func Normalize(root *tree.Value) []Record {
	return Walk(root.Items(), "")
}

// Walk normalizes a list of sibling nodes that live inside group.
func Walk(nodes []*tree.Value, group string) []Record {
	records := []Record{}
	for _, v := range nodes {
		node, ok := Classify(v)
		if !ok {
			continue
		}
		switch n := node.(type) {
		case Group:
			records = append(records, Walk(n.Children, n.Name)...)
		case Leaf:
			r := n.Record(group)
			if r.Empty() {
				continue
			}
			records = append(records, r)
		}
	}
	return records
}

// Text renders a scalar field as a string. Strings are returned as is,
// numbers as written in the source, booleans as "true"/"false" and null or
// missing values as "". Lists and maps become compact JSON.
func Text(v *tree.Value) string {
	switch v.Kind() {
	case tree.KindString:
		s, _ := v.AsString()
		return s
	case tree.KindNumber:
		return v.Literal()
	case tree.KindBool:
		if b, _ := v.AsBool(); b {
			return "true"
		}
		return "false"
	case tree.KindList, tree.KindMap:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

// JoinList joins a list field with ", ". A bare scalar is treated as a
// single-element list.
func JoinList(v *tree.Value) string {
	if !v.IsList() {
		return Text(v)
	}
	parts := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		parts = append(parts, Text(item))
	}
	return strings.Join(parts, ", ")
}

// FormatTimestamp formats a Unix timestamp field. Anything that is not a
// positive number within the four-digit-year range yields "".
func FormatTimestamp(v *tree.Value) string {
	seconds, ok := v.AsNumber()
	if !ok {
		return ""
	}
	return FormatUnix(seconds)
}

// FormatUnix formats seconds since the Unix epoch as UTC TimestampLayout.
// The fraction is rounded half-to-even to whole microseconds before the
// seconds-only layout drops it, so 1.9999999 reads as 00:00:02.
func FormatUnix(seconds float64) string {
	if math.IsNaN(seconds) || seconds <= 0 || seconds > maxUnixSeconds {
		return ""
	}
	whole, frac := math.Modf(seconds)
	usec := int64(math.RoundToEven(frac * 1e6))
	t := time.Unix(int64(whole), usec*int64(time.Microsecond)).UTC()
	if t.Unix() > maxUnixSeconds {
		return ""
	}
	return t.Format(TimestampLayout)
}
