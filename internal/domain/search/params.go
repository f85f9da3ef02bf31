package search

import (
	"net/url"
	"strings"

	"github.com/labtrack/labtrack/pkg/pagination"
)

// Params are the recognised search inputs after alias resolution. Empty
// strings mean the filter was not supplied.
type Params struct {
	PatientName    string
	SampleID       string
	ProfileID      string
	ActivationDate string
	ResultDate     string
	Page           pagination.Params
}

// Accepted query keys per field, in precedence order.
var (
	PatientNameKeys    = []string{"patientName", "filter[patientName]"}
	SampleIDKeys       = []string{"sampleId", "filter[sampleId]"}
	ProfileIDKeys      = []string{"profileId", "patientId", "filter[profileId]"}
	ActivationDateKeys = []string{"activationDate", "activateTime", "filter[activationDate]"}
	ResultDateKeys     = []string{"resultDate", "resultTime", "filter[resultDate]"}
)

// ParseParams resolves aliases in raw. The first non-blank alias wins and
// values are trimmed. Unknown keys are ignored.
func ParseParams(raw map[string]string, maxLimit int) Params {
	return Params{
		PatientName:    first(raw, PatientNameKeys),
		SampleID:       first(raw, SampleIDKeys),
		ProfileID:      first(raw, ProfileIDKeys),
		ActivationDate: first(raw, ActivationDateKeys),
		ResultDate:     first(raw, ResultDateKeys),
		Page: pagination.Parse(
			first(raw, pagination.OffsetKeys),
			first(raw, pagination.LimitKeys),
			maxLimit,
		),
	}
}

// RawFromValues flattens a query string to its first value per key.
func RawFromValues(values url.Values) map[string]string {
	raw := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			raw[k] = v[0]
		}
	}
	return raw
}

func first(raw map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(raw[k]); v != "" {
			return v
		}
	}
	return ""
}
