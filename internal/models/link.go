package models

// LinkType distinguishes fixed-platform social links from free-form custom links.
type LinkType string

const (
	LinkTypeSocial LinkType = "social"
	LinkTypeCustom LinkType = "custom"
)

// LinkEntry is one item in a profile's published link list. Order in the
// slice is the display/edit order and is user-controlled.
type LinkEntry struct {
	ID       string   `json:"id" bson:"id"`
	Type     LinkType `json:"type" bson:"type"`
	Platform string   `json:"platform,omitempty" bson:"platform,omitempty"` // set iff Type == social
	Title    string   `json:"title" bson:"title"`
	URL      string   `json:"url" bson:"url"`
}

// CustomLink is the legacy customLinks element. IDs were written by an older
// client as either numbers or strings, so decode them loosely.
type CustomLink struct {
	ID    interface{} `json:"id,omitempty" bson:"id,omitempty"`
	Title string      `json:"title" bson:"title"`
	URL   string      `json:"url" bson:"url"`
}

type AddCustomLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type UpsertSocialLinkRequest struct {
	URL string `json:"url"`
}

type SetLinksRequest struct {
	Links []LinkEntry `json:"links"`
}

type MoveLinkRequest struct {
	Direction string `json:"direction"` // "up" or "down"
}
