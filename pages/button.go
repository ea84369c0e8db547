// Package pages builds the view models of the events and opportunities pages
// and renders them with html/template. Builders are pure: they take the viewer,
// the fetched collections and an in-flight lookup, and never mutate records.
package pages

import "volunteerhub/models"

const (
	VariantPrimary = "primary"
	VariantSuccess = "success"
	VariantOutline = "outline"
)

// Button is the rendered state of a card's single action.
type Button struct {
	Label    string
	Disabled bool
	Busy     bool
	Variant  string
}

// PendingFunc reports whether the viewer has a mutation in flight for an item.
type PendingFunc func(itemID string) bool

func noPending(string) bool { return false }

// Flash is a one-shot toast shown on the next render.
type Flash struct {
	Kind    string // success | error | info
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

func viewerID(v *models.Viewer) string {
	if v == nil {
		return ""
	}
	return v.ID
}
