package jsonapi

import (
	"github.com/labtrack/labtrack/pkg/pagination"
)

// Document is the top-level response envelope.
type Document struct {
	Data     interface{}       `json:"data"`
	Included []Resource        `json:"included,omitempty"`
	Meta     *Meta             `json:"meta,omitempty"`
	Links    *pagination.Links `json:"links,omitempty"`
}

// Meta carries the pagination totals of a collection document.
type Meta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Identifier is a (type, id) pair pointing at another resource.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship holds a to-one link. Only identifiers are ever embedded;
// the related resource itself goes into Document.Included.
type Relationship struct {
	Data Identifier `json:"data"`
}

type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    interface{}             `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Identifier returns the (type, id) pair of r.
func (r Resource) Identifier() Identifier {
	return Identifier{Type: r.Type, ID: r.ID}
}

// Single wraps one resource.
func Single(r Resource) *Document {
	return &Document{Data: r}
}

// Collection wraps a page of resources. A nil slice is rendered as [].
func Collection(rs []Resource, meta *Meta) *Document {
	if rs == nil {
		rs = []Resource{}
	}
	return &Document{Data: rs, Meta: meta}
}

// Included accumulates related resources, keeping first-reference order and
// dropping repeated (type, id) pairs.
type Included struct {
	seen map[Identifier]bool
	list []Resource
}

func NewIncluded() *Included {
	return &Included{seen: make(map[Identifier]bool)}
}

// Add appends r unless a resource with the same type and id is already present.
// It reports whether r was added.
func (in *Included) Add(r Resource) bool {
	key := r.Identifier()
	if in.seen[key] {
		return false
	}
	in.seen[key] = true
	in.list = append(in.list, r)
	return true
}

func (in *Included) Resources() []Resource {
	if in.list == nil {
		return []Resource{}
	}
	return in.list
}

// Request is the body of a create request.
type Request[A any] struct {
	Data struct {
		Type       string `json:"type"`
		Attributes A      `json:"attributes"`
	} `json:"data"`
}
