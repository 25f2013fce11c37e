// Package view builds the filtered, pinned-first listing of the clipboard
// history.
package view

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"go.klb.dev/clipy/internal/item"
)

// Filter selects which kinds of items a view shows.
type Filter string

// All matches every kind.
const All Filter = "all"

// ParseFilter converts "all" or an item kind name to a Filter. The empty
// string means All.
func ParseFilter(s string) (Filter, error) {
	if s == "" || strings.EqualFold(s, string(All)) {
		return All, nil
	}
	k, err := item.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("invalid filter %q: want all, text, image or files", s)
	}
	return Filter(k), nil
}

// Match reports whether items of kind k pass the filter.
func (f Filter) Match(k item.Kind) bool {
	return f == All || item.Kind(f) == k
}

// Project returns the pinned items that match f, in registry order,
// followed by the non-pinned history items that match f, newest first.
// It keeps no state between calls.
func Project(pinned, history []item.Item, f Filter) []item.Item {
	head := lo.Filter(pinned, func(it item.Item, _ int) bool {
		return f.Match(it.Kind())
	})
	tail := lo.Filter(history, func(it item.Item, _ int) bool {
		return !it.Pinned && f.Match(it.Kind())
	})
	return append(head, tail...)
}
