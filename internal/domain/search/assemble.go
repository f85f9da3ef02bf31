package search

import (
	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/internal/platform/jsonapi"
)

// Assemble renders a page as a document: the hits as data, each referenced
// profile once (first reference first) followed by org as included, and the
// window and total as meta.
func Assemble(org *lab.Organisation, page *Page) *jsonapi.Document {
	data := make([]jsonapi.Resource, 0, len(page.Hits))
	included := jsonapi.NewIncluded()

	for i := range page.Hits {
		h := &page.Hits[i]
		data = append(data, h.Result.ToResource())
		included.Add(h.Profile.ToResource())
	}
	included.Add(org.ToResource())

	doc := jsonapi.Collection(data, &jsonapi.Meta{
		Total:  page.Total,
		Offset: page.Window.Offset,
		Limit:  page.Window.Limit,
	})
	doc.Included = included.Resources()
	return doc
}
