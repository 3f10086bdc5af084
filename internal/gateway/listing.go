package gateway

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTime 解析服务端时间戳（ISO 8601 或 HTTP 日期格式）。无时区的值按 UTC 处理。
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortListings 按 last_updated 倒序；缺失者排最后，二者都缺失时按名称倒序。
func SortListings(items []Listing) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := ParseTime(items[i].LastUpdated)
		b, bok := ParseTime(items[j].LastUpdated)
		switch {
		case !aok && !bok:
			return items[i].Name > items[j].Name
		case !aok:
			return false
		case !bok:
			return true
		}
		return a.After(b)
	})
}

// TimeAgo 返回“N units ago”形式的相对时间。
func TimeAgo(then, now time.Time) string {
	seconds := now.Sub(then).Seconds()
	units := []struct {
		size float64
		name string
	}{
		{31536000, "years"},
		{2592000, "months"},
		{86400, "days"},
		{3600, "hours"},
		{60, "minutes"},
	}
	for _, u := range units {
		if n := seconds / u.size; n > 1 {
			return fmt.Sprintf("%d %s ago", int(n), u.name)
		}
	}
	if seconds < 10 {
		return "just now"
	}
	return fmt.Sprintf("%d seconds ago", int(seconds))
}

// Describe 返回列表项的三行摘要。
func (l Listing) Describe(now time.Time) []string {
	var lines []string
	if t, ok := ParseTime(l.LastUpdated); ok {
		lines = append(lines, "Played "+TimeAgo(t, now))
	}
	lines = append(lines, fmt.Sprintf("%d messages in game", l.MessageCount))
	if t, ok := ParseTime(l.CreatedAt); ok {
		lines = append(lines, "Started on "+t.Local().Format("Jan 2, 15:04"))
	}
	return lines
}
