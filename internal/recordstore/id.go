package recordstore

import (
	"strconv"
	"strings"
	"time"
)

const idPrefix = "PAY-"

// idGenerator issues "PAY-<epoch-millis>" ids. Two records created in the same
// millisecond get consecutive values, so ids stay unique and sort by creation.
type idGenerator struct {
	last int64
}

func (g *idGenerator) next(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return idPrefix + strconv.FormatInt(ms, 10)
}

// observe advances the generator past an id that already exists.
func (g *idGenerator) observe(id string) {
	ms, ok := parseID(id)
	if ok && ms > g.last {
		g.last = ms
	}
}

func parseID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
