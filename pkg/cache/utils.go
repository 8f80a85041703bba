package cache

import (
	"fmt"
	"strings"
)

// Key creates a cache key from an operation and every argument that affects
// its result. Arguments keep their order.
func Key(op string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(op)
	for _, param := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, param)
	}
	return b.String()
}
