package search

import (
	"net/url"
	"testing"
)

func TestParseParams_Aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want Params
	}{
		{
			name: "primary keys",
			raw: map[string]string{
				"patientName": "jane", "sampleId": "S-1", "profileId": "abc",
				"activationDate": "2024-01-02", "resultDate": "2024-01-03",
			},
			want: Params{PatientName: "jane", SampleID: "S-1", ProfileID: "abc", ActivationDate: "2024-01-02", ResultDate: "2024-01-03"},
		},
		{
			name: "secondary keys",
			raw:  map[string]string{"patientId": "abc", "activateTime": "2024-01-02", "resultTime": "2024-01-03"},
			want: Params{ProfileID: "abc", ActivationDate: "2024-01-02", ResultDate: "2024-01-03"},
		},
		{
			name: "filter keys",
			raw:  map[string]string{"filter[patientName]": "doe", "filter[sampleId]": "S"},
			want: Params{PatientName: "doe", SampleID: "S"},
		},
		{
			name: "first alias wins",
			raw:  map[string]string{"profileId": "first", "patientId": "second"},
			want: Params{ProfileID: "first"},
		},
		{
			name: "blank alias falls through",
			raw:  map[string]string{"profileId": "  ", "patientId": "second"},
			want: Params{ProfileID: "second"},
		},
		{
			name: "values are trimmed",
			raw:  map[string]string{"patientName": "  jane  "},
			want: Params{PatientName: "jane"},
		},
		{
			name: "unknown keys ignored",
			raw:  map[string]string{"colour": "blue"},
			want: Params{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.raw, 200)
			tt.want.Page = got.Page
			if got != tt.want {
				t.Errorf("ParseParams = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseParams_Page(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]string
		offset int
		limit  int
	}{
		{"defaults", map[string]string{}, 0, 15},
		{"page keys", map[string]string{"page[offset]": "30", "page[limit]": "10"}, 30, 10},
		{"plain keys", map[string]string{"offset": "5", "limit": "7"}, 5, 7},
		{"clamped", map[string]string{"limit": "5000"}, 0, 50},
		{"invalid", map[string]string{"offset": "-3", "limit": "abc"}, 0, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.raw, 50).Page
			if got.Offset != tt.offset || got.Limit != tt.limit {
				t.Errorf("got offset=%d limit=%d, want offset=%d limit=%d", got.Offset, got.Limit, tt.offset, tt.limit)
			}
		})
	}
}

func TestRawFromValues(t *testing.T) {
	raw := RawFromValues(url.Values{"sampleId": {"a", "b"}, "empty": {}})
	if raw["sampleId"] != "a" {
		t.Errorf("expected first value, got %q", raw["sampleId"])
	}
	if _, ok := raw["empty"]; ok {
		t.Error("expected key without values to be dropped")
	}
}
